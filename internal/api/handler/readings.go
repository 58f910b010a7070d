package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
)

type submitReadingRequest struct {
	District   string     `json:"district"`
	PM25       *float64   `json:"pm25"`
	PM10       *float64   `json:"pm10"`
	ObservedAt *time.Time `json:"observedAt,omitempty"`
}

// SubmitReading ingests a sensor measurement. Storing the reading fires a
// reading_received notification, so the alerting listener evaluates the
// district without waiting for the next tick.
// @Summary Submit a sensor reading
// @Tags readings
// @Accept json
// @Produce json
// @Param body body submitReadingRequest true "district and PM pair"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/readings [post]
func (h *Handler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	var req submitReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.District == "" || req.PM25 == nil || req.PM10 == nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Missing required fields: district, pm25, pm10")
		return
	}
	if !h.knownDistrict(req.District) {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Unknown district", req.District)
		return
	}
	if *req.PM25 < 0 || *req.PM10 < 0 {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"PM values must be non-negative")
		return
	}

	var observedAt time.Time
	if req.ObservedAt != nil {
		observedAt = *req.ObservedAt
	}
	if err := h.readings.Insert(r.Context(), req.District, *req.PM25, *req.PM10, observedAt); err != nil {
		h.logger.Error("reading insert failed", "district", req.District, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to store reading")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

// LatestReading returns the newest measurement for a district.
// @Summary Latest reading for a district
// @Tags readings
// @Produce json
// @Param district query string true "district name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} respond.ErrorResponse
// @Router /api/v1/readings/latest [get]
func (h *Handler) LatestReading(w http.ResponseWriter, r *http.Request) {
	district := r.URL.Query().Get("district")
	if district == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing district")
		return
	}

	latest, err := h.readings.Latest(r.Context(), district)
	if err != nil {
		h.logger.Error("latest reading lookup failed", "district", district, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load reading")
		return
	}
	if latest == nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No readings for district")
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"district":   latest.District,
		"pm25":       latest.PM25,
		"pm10":       latest.PM10,
		"observedAt": latest.ObservedAt.UTC().Format(time.RFC3339),
	})
}
