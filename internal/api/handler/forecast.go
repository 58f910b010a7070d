package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/forecast"
)

type forecastRequest struct {
	Date     string `json:"date"` // YYYY-MM-DD
	District string `json:"district"`
}

// Forecast predicts PM2.5 for a district on a date.
// @Summary PM2.5 forecast
// @Tags forecast
// @Accept json
// @Produce json
// @Param body body forecastRequest true "date and district"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/v1/forecast [post]
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	if req.Date == "" || req.District == "" {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing date or district")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Invalid date, expected YYYY-MM-DD", req.Date)
		return
	}

	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"pm25": forecast.PredictPM25(date, req.District),
	})
}
