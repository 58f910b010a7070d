package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SULDev2024/ICPAIR/internal/alert"
	"github.com/SULDev2024/ICPAIR/internal/api/respond"
)

type sendAlertRequest struct {
	Scope string   `json:"scope"`
	PM25  *float64 `json:"pm25"`
	PM10  *float64 `json:"pm10"`
}

// SendAlert is the administrative manual-alert trigger. It deliberately
// bypasses the cooldown ledger and the acceptable-air cutoff: whatever PM
// values the operator passes are pushed to every enabled subscriber of the
// district. Invalid tokens reported by the gateway are reclaimed exactly as
// in the scheduled path.
// @Summary Manually send an air quality alert (admin)
// @Tags alerts
// @Accept json
// @Produce json
// @Param body body sendAlertRequest true "district and PM values"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /api/v1/alerts/send [post]
func (h *Handler) SendAlert(w http.ResponseWriter, r *http.Request) {
	var req sendAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.Scope == "" || req.PM25 == nil || req.PM10 == nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Missing required fields: scope, pm25, pm10")
		return
	}

	tokens, err := h.subs.FindByScope(r.Context(), req.Scope)
	if err != nil {
		h.logger.Error("send-alert subscriber lookup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load subscribers")
		return
	}
	if len(tokens) == 0 {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"sent": 0, "failed": 0, "cleaned": 0,
		})
		return
	}

	sev := alert.ClassifyOverride(*req.PM25, *req.PM10)
	n := alert.BuildNotification(req.Scope, *req.PM25, *req.PM10, sev)

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.SendTimeout)
	defer cancel()
	report, err := h.gateway.SendBulk(ctx, tokens, n.Title, n.Body, n.Data)
	if err != nil {
		h.logger.Error("send-alert delivery failed", "district", req.Scope, "error", err)
		respond.WriteError(w, http.StatusBadGateway, "DELIVERY_FAILED", "Push delivery failed")
		return
	}

	var cleaned int64
	if len(report.InvalidTokens) > 0 {
		cleaned, err = h.subs.DeleteMany(r.Context(), report.InvalidTokens)
		if err != nil {
			h.logger.Warn("send-alert token cleanup failed", "error", err)
		}
	}

	h.logger.Info("manual alert sent", "district", req.Scope,
		"sent", report.SuccessCount, "failed", report.FailureCount, "cleaned", cleaned)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"sent":    report.SuccessCount,
		"failed":  report.FailureCount,
		"cleaned": cleaned,
	})
}
