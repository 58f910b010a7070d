package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/cache"
)

// ListCatalog returns the sensor storefront. Cached with ETag.
// @Summary List storefront sensors
// @Tags catalog
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /api/v1/catalog [get]
func (h *Handler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	const key = "catalog"

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLCatalog, true)
		return
	}

	sensors, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error("catalog list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load catalog")
		return
	}

	out := make([]map[string]interface{}, 0, len(sensors))
	for _, item := range sensors {
		out = append(out, map[string]interface{}{
			"id":          item.ID,
			"name":        item.Name,
			"model":       item.Model,
			"description": item.Description,
			"price":       item.Price,
			"inStock":     item.InStock,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to encode catalog")
		return
	}

	etag := h.cache.Set(key, data, cache.TTLCatalog)
	respond.WriteJSON(w, data, etag, cache.TTLCatalog, false)
}
