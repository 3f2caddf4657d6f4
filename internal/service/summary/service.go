package summary

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"golang.org/x/sync/errgroup"
)

const generateConcurrency = 8

type SummaryServiceImpl struct {
	summary.Repository
	attendanceRepo attendance.Repository
	workCalendar   calendar.WorkCalendar
	directory      employee.Directory

	location *time.Location
}

// Generate implements summary.Service. Regeneration is idempotent: the same
// period recomputed after corrections overwrites the stored row.
func (s *SummaryServiceImpl) Generate(ctx context.Context, actor auth.Context, req summary.GenerateRequest) (summary.Response, error) {
	if !actor.IsAdministrative() {
		return summary.Response{}, attendance.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return summary.Response{}, err
	}

	sum, err := s.generateOne(ctx, req.EmployeeID, req.Month, req.Year)
	if err != nil {
		return summary.Response{}, err
	}

	return summary.Response{Summary: sum}, nil
}

func (s *SummaryServiceImpl) generateOne(ctx context.Context, employeeID string, month, year int) (summary.Summary, error) {
	if _, err := s.directory.GetByID(ctx, employeeID); err != nil {
		return summary.Summary{}, err
	}

	holidays, err := s.workCalendar.HolidaysInMonth(ctx, year, time.Month(month))
	if err != nil {
		return summary.Summary{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	workingDays := calendar.WorkingDays(year, time.Month(month), holidays, s.location)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListRange(ctx, employeeID, start, end)
	if err != nil {
		return summary.Summary{}, err
	}

	sum := summary.Summary{
		EmployeeID:  employeeID,
		Month:       month,
		Year:        year,
		WorkingDays: workingDays,
	}

	attendedDays := 0
	for _, rec := range records {
		switch rec.Status {
		case timecalc.StatusPresent:
			sum.PresentDays++
			attendedDays++
		case timecalc.StatusLate:
			sum.LateDays++
			attendedDays++
		case timecalc.StatusAbsent:
			sum.AbsentDays++
		case timecalc.StatusOnLeave:
			sum.LeaveDays++
		case timecalc.StatusHalfDay:
			sum.HalfDays++
			attendedDays++
		case timecalc.StatusEarlyDeparture:
			sum.EarlyDepartureDays++
			attendedDays++
		}

		sum.TotalWorkingMinutes += rec.WorkingMinutes
		sum.TotalOvertimeMinutes += rec.OvertimeMinutes
		sum.TotalLateMinutes += rec.LateMinutes
	}

	if workingDays > 0 {
		pct := float64(attendedDays) / float64(workingDays) * 100
		sum.AttendancePercentage = math.Round(pct*100) / 100
	}

	if err := s.Repository.Upsert(ctx, &sum); err != nil {
		return summary.Summary{}, err
	}

	return sum, nil
}

// GenerateAll implements summary.Service. Employees are processed in
// parallel; the first hard failure aborts the batch.
func (s *SummaryServiceImpl) GenerateAll(ctx context.Context, actor auth.Context, req summary.GenerateAllRequest) (summary.ListResponse, error) {
	if !actor.IsAdministrative() {
		return summary.ListResponse{}, attendance.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return summary.ListResponse{}, err
	}

	employees, err := s.directory.ListActive(ctx)
	if err != nil {
		return summary.ListResponse{}, err
	}

	var mu sync.Mutex
	summaries := make([]summary.Summary, 0, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(generateConcurrency)

	for _, emp := range employees {
		g.Go(func() error {
			sum, err := s.generateOne(gCtx, emp.ID, req.Month, req.Year)
			if err != nil {
				return fmt.Errorf("failed to generate summary for %s: %w", emp.ID, err)
			}
			sum.EmployeeName = emp.FullName
			mu.Lock()
			summaries = append(summaries, sum)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary.ListResponse{}, err
	}

	return summary.ListResponse{
		Summaries: summaries,
		Total:     len(summaries),
		Page:      1,
		Limit:     len(summaries),
	}, nil
}

// Get implements summary.Service.
func (s *SummaryServiceImpl) Get(ctx context.Context, actor auth.Context, employeeID string, month, year int) (summary.Response, error) {
	if !actor.IsAdministrative() && actor.EmployeeID != employeeID {
		return summary.Response{}, attendance.ErrNotOwnRecord
	}

	sum, err := s.Repository.GetByPeriod(ctx, employeeID, month, year)
	if err != nil {
		return summary.Response{}, err
	}

	return summary.Response{Summary: *sum}, nil
}

// List implements summary.Service.
func (s *SummaryServiceImpl) List(ctx context.Context, actor auth.Context, filter summary.Filter) (summary.ListResponse, error) {
	filter.SetDefaults()

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		filter.DepartmentID = actor.DepartmentID
	default:
		filter.EmployeeID = actor.EmployeeID
	}

	summaries, total, err := s.Repository.List(ctx, filter)
	if err != nil {
		return summary.ListResponse{}, err
	}

	return summary.ListResponse{
		Summaries: summaries,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}, nil
}

func NewSummaryService(
	repo summary.Repository,
	attendanceRepo attendance.Repository,
	workCalendar calendar.WorkCalendar,
	directory employee.Directory,
	location *time.Location,
) summary.Service {
	if location == nil {
		location = time.UTC
	}
	return &SummaryServiceImpl{
		Repository:     repo,
		attendanceRepo: attendanceRepo,
		workCalendar:   workCalendar,
		directory:      directory,
		location:       location,
	}
}
