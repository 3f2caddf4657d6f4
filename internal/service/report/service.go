package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
)

// exportPageSize is the repository page size used while draining an export.
const exportPageSize = 100

var csvHeader = []string{
	"Date", "Employee Name", "Employee Code", "Department",
	"Check In", "Check Out", "Working Hours", "Status",
	"Late Minutes", "Early Departure Minutes", "Overtime Minutes",
	"Location", "Notes",
}

type ReportServiceImpl struct {
	attendanceRepo attendance.Repository

	location *time.Location
}

// FormatWorkingHours renders stored minutes as "{H}h {M}m".
func FormatWorkingHours(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func (r *ReportServiceImpl) toRow(rec attendance.Record) report.Row {
	row := report.Row{
		Date:                  rec.Date.Format("2006-01-02"),
		WorkingHours:          FormatWorkingHours(rec.WorkingMinutes),
		Status:                string(rec.Status),
		LateMinutes:           rec.LateMinutes,
		EarlyDepartureMinutes: rec.EarlyDepartureMinutes,
		OvertimeMinutes:       rec.OvertimeMinutes,
		Location:              orDash(rec.LocationName),
		Notes:                 orDash(rec.Notes),
	}
	row.EmployeeName = orDash(rec.EmployeeName)
	row.EmployeeCode = orDash(rec.EmployeeCode)
	row.Department = orDash(rec.DepartmentName)
	if rec.CheckIn != nil {
		row.CheckIn = rec.CheckIn.In(r.location).Format("15:04:05")
	} else {
		row.CheckIn = "-"
	}
	if rec.CheckOut != nil {
		row.CheckOut = rec.CheckOut.In(r.location).Format("15:04:05")
	} else {
		row.CheckOut = "-"
	}
	return row
}

func (r *ReportServiceImpl) scopedFilter(actor auth.Context, req report.ExportRequest) (attendance.Filter, error) {
	filter := attendance.Filter{
		StartDate: &req.StartDate,
		EndDate:   &req.EndDate,
		SortBy:    "date",
		SortOrder: "asc",
		Limit:     exportPageSize,
		Page:      1,
	}

	switch {
	case actor.IsAdministrative():
		if req.EmployeeID != "" {
			filter.EmployeeID = &req.EmployeeID
		}
		if req.DepartmentID != "" {
			filter.DepartmentID = &req.DepartmentID
		}
		if actor.Role == auth.RoleManager {
			filter.DepartmentID = &actor.DepartmentID
		}
	default:
		// Employees export their own records only, whatever the request says.
		if req.EmployeeID != "" && req.EmployeeID != actor.EmployeeID {
			return attendance.Filter{}, attendance.ErrNotOwnRecord
		}
		filter.EmployeeID = &actor.EmployeeID
	}

	return filter, nil
}

func (r *ReportServiceImpl) drain(ctx context.Context, filter attendance.Filter, fn func(attendance.Record) error) error {
	for {
		records, total, err := r.attendanceRepo.List(ctx, filter)
		if err != nil {
			return err
		}
		for _, rec := range records {
			if err := fn(rec); err != nil {
				return err
			}
		}
		if int64(filter.Page*filter.Limit) >= total || len(records) == 0 {
			return nil
		}
		filter.Page++
	}
}

// Export implements report.Service.
func (r *ReportServiceImpl) Export(ctx context.Context, actor auth.Context, req report.ExportRequest) (report.ExportResponse, error) {
	if err := req.Validate(); err != nil {
		return report.ExportResponse{}, err
	}

	filter, err := r.scopedFilter(actor, req)
	if err != nil {
		return report.ExportResponse{}, err
	}

	rows := []report.Row{}
	err = r.drain(ctx, filter, func(rec attendance.Record) error {
		rows = append(rows, r.toRow(rec))
		return nil
	})
	if err != nil {
		return report.ExportResponse{}, err
	}

	return report.ExportResponse{Rows: rows}, nil
}

// ExportCSV implements report.Service. Rows stream through the writer page
// by page, so large ranges never buffer entirely in memory.
func (r *ReportServiceImpl) ExportCSV(ctx context.Context, actor auth.Context, req report.ExportRequest, w io.Writer) error {
	if err := req.Validate(); err != nil {
		return err
	}

	filter, err := r.scopedFilter(actor, req)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	err = r.drain(ctx, filter, func(rec attendance.Record) error {
		row := r.toRow(rec)
		return cw.Write([]string{
			row.Date, row.EmployeeName, row.EmployeeCode, row.Department,
			row.CheckIn, row.CheckOut, row.WorkingHours, row.Status,
			fmt.Sprint(row.LateMinutes), fmt.Sprint(row.EarlyDepartureMinutes), fmt.Sprint(row.OvertimeMinutes),
			row.Location, row.Notes,
		})
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func NewReportService(attendanceRepo attendance.Repository, location *time.Location) report.Service {
	if location == nil {
		location = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo: attendanceRepo,
		location:       location,
	}
}
