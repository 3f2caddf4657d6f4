package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
)

type ReportHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func exportRequestFromQuery(r *http.Request) report.ExportRequest {
	q := r.URL.Query()
	return report.ExportRequest{
		EmployeeID:   q.Get("employee_id"),
		DepartmentID: q.Get("department_id"),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
	}
}

// Export implements ReportHandler.
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := exportRequestFromQuery(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.reportService.Export(r.Context(), actor, req)
	if err != nil {
		slog.Error("Export report failed", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ExportCSV implements ReportHandler.
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req := exportRequestFromQuery(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	actor, err := auth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.csv", req.StartDate, req.EndDate)
	if req.StartDate == "" && req.EndDate == "" {
		filename = fmt.Sprintf("attendance_%s.csv", time.Now().Format("2006-01-02"))
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := h.reportService.ExportCSV(r.Context(), actor, req, w); err != nil {
		// Headers may already be sent; log and abort the stream.
		slog.Error("Export CSV failed", "error", err)
	}
}
