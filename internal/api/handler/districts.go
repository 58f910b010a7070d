package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/cache"
)

// ListDistricts returns the monitored districts. Cached with ETag — the set
// only changes on redeploy.
// @Summary List districts
// @Tags districts
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /api/v1/districts [get]
func (h *Handler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	const key = "districts"

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDistricts, true)
		return
	}

	districts, err := h.districts.List(r.Context())
	if err != nil {
		h.logger.Error("district list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load districts")
		return
	}

	out := make([]map[string]interface{}, 0, len(districts))
	for _, d := range districts {
		out = append(out, map[string]interface{}{"id": d.ID, "name": d.Name})
	}
	data, err := json.Marshal(out)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode districts")
		return
	}

	etag := h.cache.Set(key, data, cache.TTLDistricts)
	respond.WriteJSON(w, data, etag, cache.TTLDistricts, false)
}
