package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	ListPolicies(w http.ResponseWriter, r *http.Request)
	AssignShift(w http.ResponseWriter, r *http.Request)
	ListAssignments(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.Service
}

func NewShiftHandler(shiftService shift.Service) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// CreatePolicy implements ShiftHandler.
func (h *shiftHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req shift.CreatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create policy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.shiftService.CreatePolicy(r.Context(), actor, req)
	if err != nil {
		slog.Error("Create policy failed", "code", req.Code, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift policy created successfully", resp)
}

// UpdatePolicy implements ShiftHandler.
func (h *shiftHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update policy decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.shiftService.UpdatePolicy(r.Context(), actor, req)
	if err != nil {
		slog.Error("Update policy failed", "id", req.ID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift policy updated successfully", resp)
}

// GetPolicy implements ShiftHandler.
func (h *shiftHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := h.shiftService.GetPolicy(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListPolicies implements ShiftHandler.
func (h *shiftHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.shiftService.ListPolicies(r.Context())
	if err != nil {
		slog.Error("List policies failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, policies)
}

// AssignShift implements ShiftHandler.
func (h *shiftHandlerImpl) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req shift.AssignShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Assign shift decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.shiftService.AssignShift(r.Context(), actor, req)
	if err != nil {
		slog.Error("Assign shift failed", "employee_id", req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned successfully", resp)
}

// ListAssignments implements ShiftHandler.
func (h *shiftHandlerImpl) ListAssignments(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	assignments, err := h.shiftService.ListAssignments(r.Context(), employeeID)
	if err != nil {
		slog.Error("List assignments failed", "employee_id", employeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, assignments)
}
