// Package handler provides HTTP handlers for the wayfinder API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wayfinder/wayfinder/internal/api/models"
	"github.com/wayfinder/wayfinder/internal/api/response"
	"github.com/wayfinder/wayfinder/internal/mobility"
	"github.com/wayfinder/wayfinder/internal/plan"
)

// PlanHandler handles the plan computation endpoint.
type PlanHandler struct {
	service *plan.Service
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(service *plan.Service) *PlanHandler {
	return &PlanHandler{service: service}
}

// ComputePlan handles POST /v1/plan - gather options and score them.
func (h *PlanHandler) ComputePlan(w http.ResponseWriter, r *http.Request) {
	var input models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if input.Origin == nil || input.Destination == nil {
		response.BadRequest(w, r, "origin and destination are required", []models.FieldError{
			{Field: "origin", Message: "required"},
			{Field: "destination", Message: "required"},
		})
		return
	}

	result, err := h.service.Plan(r.Context(), *input.Origin, *input.Destination, input.When)
	if err != nil {
		switch {
		case errors.Is(err, mobility.ErrInvalidCoordinates):
			response.BadRequest(w, r, err.Error(), coordinateFieldErrors(input))
		case errors.Is(err, mobility.ErrInvalidWhen):
			response.BadRequest(w, r, "when must be an RFC3339 timestamp", []models.FieldError{
				{Field: "when", Message: "must be RFC3339, e.g. 2026-09-01T22:30:00Z"},
			})
		case errors.Is(err, mobility.ErrNoOptions):
			response.NotFound(w, r, "no travel options found for this trip")
		default:
			response.InternalError(w, r, "plan computation failed")
		}
		return
	}

	resp := models.PlanResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Options:     result.Options,
		Agents:      result.Agents,
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, resp)
}

// coordinateFieldErrors re-validates each endpoint so the problem response
// names the field that failed, not a fixed one.
func coordinateFieldErrors(input models.PlanRequest) []models.FieldError {
	var fieldErrors []models.FieldError
	if err := input.Origin.Validate(); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "origin", Message: err.Error()})
	}
	if err := input.Destination.Validate(); err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destination", Message: err.Error()})
	}
	return fieldErrors
}
