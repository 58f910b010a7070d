package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/complaint"
	"github.com/SULDev2024/ICPAIR/internal/district"
)

type complaintRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	District    string `json:"district"`
}

// CreateComplaint files a citizen pollution complaint.
// @Summary Submit a complaint
// @Tags complaints
// @Accept json
// @Produce json
// @Param body body complaintRequest true "complaint form"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ValidationResponse
// @Router /api/v1/complaints [post]
func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	var req complaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	in := complaint.Input{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Name:        req.Name,
		Email:       req.Email,
		District:    req.District,
	}
	if errs := in.Validate(); len(errs) > 0 {
		respond.WriteValidation(w, errs)
		return
	}

	c, err := h.complaints.Create(r.Context(), in)
	if errors.Is(err, district.ErrNotFound) {
		respond.WriteValidation(w, map[string]string{"district": "Unknown district"})
		return
	}
	if err != nil {
		h.logger.Error("complaint create failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to save complaint")
		return
	}

	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"id":        c.ID,
		"district":  c.District,
		"createdAt": c.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// ListComplaints returns all complaints, newest first.
// @Summary List complaints
// @Tags complaints
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /api/v1/complaints [get]
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.complaints.List(r.Context())
	if err != nil {
		h.logger.Error("complaint list failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load complaints")
		return
	}

	out := make([]map[string]interface{}, 0, len(complaints))
	for _, c := range complaints {
		out = append(out, map[string]interface{}{
			"id":          c.ID,
			"title":       c.Title,
			"category":    c.Category,
			"description": c.Description,
			"name":        c.Name,
			"email":       c.Email,
			"district":    c.District,
			"createdAt":   c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	respond.WriteJSONObject(w, http.StatusOK, out)
}
