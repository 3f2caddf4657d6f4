package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
)

type AlertHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type alertHandlerImpl struct {
	alertService alert.Service
}

func NewAlertHandler(alertService alert.Service) AlertHandler {
	return &alertHandlerImpl{
		alertService: alertService,
	}
}

// List implements AlertHandler.
func (h *alertHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := alert.Filter{
		EmployeeID:   q.Get("employee_id"),
		DepartmentID: q.Get("department_id"),
		Kind:         alert.Kind(q.Get("kind")),
		Severity:     alert.Severity(q.Get("severity")),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.alertService.List(r.Context(), actor, filter)
	if err != nil {
		slog.Error("List alerts failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
