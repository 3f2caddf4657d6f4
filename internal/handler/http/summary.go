package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SummaryHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	GenerateAll(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.Service
}

func NewSummaryHandler(summaryService summary.Service) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
	}
}

// Generate implements SummaryHandler.
func (h *summaryHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req summary.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate summary decode error", "error", err)
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

	resp, err := h.summaryService.Generate(r.Context(), actor, req)
	if err != nil {
		slog.Error("Generate summary failed", "employee_id", req.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Summary generated successfully", resp)
}

// GenerateAll implements SummaryHandler.
func (h *summaryHandlerImpl) GenerateAll(w http.ResponseWriter, r *http.Request) {
	var req summary.GenerateAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Generate all summaries decode error", "error", err)
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

	resp, err := h.summaryService.GenerateAll(r.Context(), actor, req)
	if err != nil {
		slog.Error("Generate all summaries failed", "month", req.Month, "year", req.Year, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Summaries generated successfully", resp)
}

// Get implements SummaryHandler.
func (h *summaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.summaryService.Get(r.Context(), actor, employeeID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// List implements SummaryHandler.
func (h *summaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := summary.Filter{
		EmployeeID:   q.Get("employee_id"),
		DepartmentID: q.Get("department_id"),
	}
	filter.Month, _ = strconv.Atoi(q.Get("month"))
	filter.Year, _ = strconv.Atoi(q.Get("year"))
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.summaryService.List(r.Context(), actor, filter)
	if err != nil {
		slog.Error("List summaries failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
