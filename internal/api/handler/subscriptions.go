package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/subscription"
)

type subscribeRequest struct {
	Address string  `json:"address"`
	Scope   string  `json:"scope"`
	Owner   *string `json:"owner,omitempty"`
}

// Subscribe registers (or re-registers) a device token for district alerts.
// @Summary Subscribe to air quality alerts
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body subscribeRequest true "device token and district"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/subscriptions [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.Address == "" || req.Scope == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Missing required fields: address and scope")
		return
	}
	if !h.knownDistrict(req.Scope) {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Unknown district", req.Scope)
		return
	}

	sub, err := h.subs.Upsert(r.Context(), req.Address, req.Scope, req.Owner)
	if err != nil {
		var verr *subscription.ValidationError
		if errors.As(err, &verr) {
			respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
			return
		}
		h.logger.Error("subscribe failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to subscribe")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"subscriptionId": sub.ID,
	})
}

type unsubscribeRequest struct {
	Address string `json:"address"`
}

// Unsubscribe disables alerts for a device token. Idempotent: unknown
// tokens succeed.
// @Summary Unsubscribe from air quality alerts
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param body body unsubscribeRequest true "device token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/subscriptions/unsubscribe [post]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.Address == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing address")
		return
	}

	if err := h.subs.Disable(r.Context(), req.Address); err != nil {
		h.logger.Error("unsubscribe failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to unsubscribe")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Preferences returns the notification preference for a device token.
// @Summary Get notification preferences
// @Tags subscriptions
// @Produce json
// @Param address query string true "device token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/subscriptions/preferences [get]
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing address")
		return
	}

	sub, err := h.subs.FindByAddress(r.Context(), address)
	if errors.Is(err, subscription.ErrNotFound) {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"subscribed": false})
		return
	}
	if err != nil {
		h.logger.Error("preferences lookup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to get preferences")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"subscribed": true,
		"scope":      sub.Scope,
		"enabled":    sub.Enabled,
		"createdAt":  sub.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// CleanupSubscriptions removes long-disabled subscription rows.
// @Summary Purge stale disabled subscriptions
// @Tags subscriptions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/subscriptions/cleanup [delete]
func (h *Handler) CleanupSubscriptions(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.subs.PurgeStaleDisabled(r.Context(), h.cfg.StaleSubscriptionAge)
	if err != nil {
		h.logger.Error("subscription cleanup failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to cleanup")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}
