package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
)

// systemActor is the identity scheduled jobs act under.
var systemActor = auth.Context{
	ActorID:    "system",
	EmployeeID: "system",
	Role:       auth.RoleAdmin,
}

type AttendanceJobs struct {
	attendanceRepo attendance.Repository
	directory      employee.Directory
	workCalendar   calendar.WorkCalendar
	summaryService summary.Service
	alertService   alert.Service

	location *time.Location
}

func NewAttendanceJobs(
	attendanceRepo attendance.Repository,
	directory employee.Directory,
	workCalendar calendar.WorkCalendar,
	summaryService summary.Service,
	alertService alert.Service,
	location *time.Location,
) *AttendanceJobs {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		directory:      directory,
		workCalendar:   workCalendar,
		summaryService: summaryService,
		alertService:   alertService,
		location:       location,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_missing_as_absent", 1*time.Hour, j.MarkMissingAsAbsent)
	scheduler.AddJob("generate_monthly_summaries", 1*time.Hour, j.GenerateMonthlySummaries)
}

// MarkMissingAsAbsent backfills absent records for employees with no record
// on the previous working day. It runs hourly but only acts in the first
// hour after local midnight.
func (j *AttendanceJobs) MarkMissingAsAbsent(ctx context.Context) error {
	now := time.Now().In(j.location)
	if now.Hour() != 0 {
		return nil
	}

	yesterday := attendance.Day(now.AddDate(0, 0, -1), j.location)

	if wd := yesterday.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return nil
	}
	holiday, err := j.workCalendar.IsHoliday(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		return nil
	}

	employees, err := j.directory.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		rec, err := j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, yesterday)
		if err != nil {
			slog.Warn("Absence scan lookup failed", "employee_id", emp.ID, "error", err)
			continue
		}
		if rec != nil {
			continue
		}

		notes := "No attendance recorded"
		absent := attendance.Record{
			EmployeeID: emp.ID,
			Date:       yesterday,
			Status:     timecalc.StatusAbsent,
			Notes:      &notes,
		}
		if _, err := j.attendanceRepo.UpsertAdministrative(ctx, absent); err != nil {
			slog.Warn("Failed to mark employee absent", "employee_id", emp.ID, "error", err)
			continue
		}
		marked++

		if err := j.alertService.EvaluateAbsence(ctx, emp.ID, yesterday); err != nil {
			slog.Warn("Failed to evaluate absence window", "employee_id", emp.ID, "error", err)
		}
	}

	if marked > 0 {
		slog.Info("Absence scan complete", "date", yesterday.Format("2006-01-02"), "marked", marked)
	}
	return nil
}

// GenerateMonthlySummaries rolls up the previous month for every active
// employee. It acts only in the first hour of the first day of a month.
func (j *AttendanceJobs) GenerateMonthlySummaries(ctx context.Context) error {
	now := time.Now().In(j.location)
	if now.Day() != 1 || now.Hour() != 0 {
		return nil
	}

	previous := now.AddDate(0, -1, 0)
	req := summary.GenerateAllRequest{
		Month: int(previous.Month()),
		Year:  previous.Year(),
	}

	result, err := j.summaryService.GenerateAll(ctx, systemActor, req)
	if err != nil {
		return fmt.Errorf("failed to generate monthly summaries: %w", err)
	}

	slog.Info("Monthly summaries generated", "month", req.Month, "year", req.Year, "count", result.Total)
	return nil
}
