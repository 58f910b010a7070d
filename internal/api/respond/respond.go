// Package respond owns the API's response conventions: the error envelope
// shared by every endpoint, field-level validation payloads for form
// submissions, and cache/ETag headers for the cached read endpoints.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrorResponse is the error envelope for all API errors. Code is one of
// the fixed machine-readable codes (VALIDATION_ERROR, NOT_FOUND,
// RATE_LIMITED, DELIVERY_FAILED, INTERNAL).
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	} `json:"error"`
}

// ValidationResponse is the 400 payload for form submissions, carrying a
// field→reason map.
type ValidationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// WriteError sends the standard error envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeErrorEnvelope(w, status, code, message, "")
}

// WriteErrorDetail sends the error envelope with the offending value.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	writeErrorEnvelope(w, status, code, message, detail)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, code, message, detail string) {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Detail = detail
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// WriteValidation sends a 400 with per-field validation reasons.
func WriteValidation(w http.ResponseWriter, errs map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ValidationResponse{Message: "Validation error", Errors: errs})
}

// WriteJSONObject marshals v and writes it with status. Used for the
// non-cached endpoints (health, subscriptions, alerts, readings).
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteJSON writes a pre-marshaled body with ETag and cache headers. Used
// by the cached read endpoints (districts, catalog).
func WriteJSON(w http.ResponseWriter, body []byte, etag string, ttl time.Duration, cacheHit bool) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Accept-Encoding")
	setCachePolicy(w, ttl, cacheHit)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// WriteNotModified sends a 304 for a matching If-None-Match.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// setCachePolicy emits Cache-Control sized to the entry TTL, with
// stale-while-revalidate at half the TTL, and an X-Cache hit marker.
func setCachePolicy(w http.ResponseWriter, ttl time.Duration, cacheHit bool) {
	maxAge := int(ttl.Seconds())
	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Cache-Control",
		fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
}
