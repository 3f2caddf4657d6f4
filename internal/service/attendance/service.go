package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/geofence"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"golang.org/x/sync/errgroup"
)

// bulkConcurrency caps parallel per-employee work in bulk operations.
const bulkConcurrency = 8

type AttendanceServiceImpl struct {
	attendance.Repository
	shiftService    shift.Service
	geofenceService geofence.Service
	alertService    alert.Service
	directory       employee.Directory
	workCalendar    calendar.WorkCalendar

	location        *time.Location
	enforceHolidays bool
}

func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func (a *AttendanceServiceImpl) toResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:                    rec.ID,
		EmployeeID:            rec.EmployeeID,
		EmployeeName:          rec.EmployeeName,
		EmployeeCode:          rec.EmployeeCode,
		DepartmentName:        rec.DepartmentName,
		Date:                  rec.Date.Format("2006-01-02"),
		ShiftPolicyID:         rec.ShiftPolicyID,
		CheckIn:               timePtrToString(rec.CheckIn, a.location),
		CheckOut:              timePtrToString(rec.CheckOut, a.location),
		WorkingMinutes:        rec.WorkingMinutes,
		BreakMinutes:          rec.BreakMinutes,
		OvertimeMinutes:       rec.OvertimeMinutes,
		Status:                string(rec.Status),
		IsLate:                rec.IsLate,
		LateMinutes:           rec.LateMinutes,
		IsEarlyDeparture:      rec.IsEarlyDeparture,
		EarlyDepartureMinutes: rec.EarlyDepartureMinutes,
		LocationID:            rec.LocationID,
		LocationName:          rec.LocationName,
		CheckInLatitude:       rec.CheckInLatitude,
		CheckInLongitude:      rec.CheckInLongitude,
		Notes:                 rec.Notes,
		IsManualEntry:         rec.IsManualEntry,
		ApprovedBy:            rec.ApprovedBy,
		CreatedAt:             rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             rec.UpdatedAt.Format(time.RFC3339),
	}
}

// mayActOn enforces record ownership: employees touch only their own rows,
// administrative roles touch anything.
func mayActOn(actor auth.Context, employeeID string) error {
	if actor.IsAdministrative() {
		return nil
	}
	if actor.EmployeeID != employeeID {
		return attendance.ErrNotOwnRecord
	}
	return nil
}

// shiftBoundariesFor resolves a policy's clock times into absolute instants
// for the given working day.
func (a *AttendanceServiceImpl) shiftBoundariesFor(policy *shift.Policy, date time.Time) (timecalc.Boundaries, error) {
	startMin, err := timecalc.ParseTimeOfDay(policy.StartTime)
	if err != nil {
		return timecalc.Boundaries{}, err
	}
	endMin, err := timecalc.ParseTimeOfDay(policy.EndTime)
	if err != nil {
		return timecalc.Boundaries{}, err
	}
	return timecalc.ShiftBoundaries(date, startMin, endMin, a.location), nil
}

// CheckIn implements attendance.Service.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, actor auth.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}
	if err := mayActOn(actor, req.EmployeeID); err != nil {
		return attendance.CheckInResponse{}, err
	}

	if _, err := a.directory.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.CheckInResponse{}, err
	}

	checkIn := req.EffectiveTimestamp(time.Now().UTC())
	date := attendance.Day(checkIn, a.location)

	rec := attendance.Record{
		EmployeeID: req.EmployeeID,
		Date:       date,
		CheckIn:    &checkIn,
		Status:     timecalc.StatusPresent,
	}

	resp := attendance.CheckInResponse{}

	// A missing shift assignment degrades to a warning: the check-in is
	// recorded, lateness is simply not computed.
	policy, err := a.shiftService.ResolveActiveShift(ctx, req.EmployeeID, date)
	if err != nil {
		if !errors.Is(err, shift.ErrNoActiveShift) {
			return attendance.CheckInResponse{}, fmt.Errorf("failed to resolve shift: %w", err)
		}
		resp.NoActiveShift = true
	}

	if policy != nil {
		rec.ShiftPolicyID = &policy.ID
		bounds, err := a.shiftBoundariesFor(policy, date)
		if err != nil {
			return attendance.CheckInResponse{}, err
		}
		isLate, lateMinutes := timecalc.Lateness(checkIn, bounds.Start, policy.GracePeriodMinutes)
		rec.IsLate = isLate
		rec.LateMinutes = lateMinutes
		if isLate {
			rec.Status = timecalc.StatusLate
		}
	}

	if req.Latitude != nil && req.Longitude != nil {
		rec.CheckInLatitude = req.Latitude
		rec.CheckInLongitude = req.Longitude

		classification, err := a.geofenceService.Classify(ctx, *req.Latitude, *req.Longitude)
		if err != nil {
			// Annotation only; a geofence failure never blocks the check-in.
			slog.Warn("Geofence classification failed", "employee_id", req.EmployeeID, "error", err)
		} else if classification.WithinFence {
			rec.LocationID = &classification.LocationID
			rec.LocationName = &classification.LocationName
		} else {
			resp.OutsideFence = true
		}
	}

	created, err := a.Repository.InsertCheckIn(ctx, rec)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	if created.IsLate {
		go func(employeeID string, date time.Time, minutes int) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.alertService.LateArrival(bgCtx, employeeID, date, minutes); err != nil {
				slog.Warn("Failed to raise late arrival alert", "employee_id", employeeID, "error", err)
			}
		}(created.EmployeeID, created.Date, created.LateMinutes)
	}

	resp.Record = a.toResponse(created)
	resp.IsLate = created.IsLate
	resp.LateMinutes = created.LateMinutes
	return resp, nil
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, actor auth.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if err := mayActOn(actor, req.EmployeeID); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	checkOut := req.EffectiveTimestamp(time.Now().UTC())
	date := attendance.Day(checkOut, a.location)

	rec, err := a.Repository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	if rec == nil || rec.CheckIn == nil {
		// Night shifts check out past midnight; fall back to the previous
		// working day's open record.
		prev, err := a.Repository.GetByEmployeeAndDate(ctx, req.EmployeeID, date.AddDate(0, 0, -1))
		if err != nil {
			return attendance.CheckOutResponse{}, err
		}
		if prev == nil || prev.CheckIn == nil {
			return attendance.CheckOutResponse{}, attendance.ErrNotCheckedIn
		}
		rec = prev
		date = rec.Date
	}
	if rec.CheckOut != nil {
		return attendance.CheckOutResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if !checkOut.After(*rec.CheckIn) {
		return attendance.CheckOutResponse{}, attendance.ErrCheckOutBeforeIn
	}

	rec.CheckOut = &checkOut
	rec.CheckOutLatitude = req.Latitude
	rec.CheckOutLongitude = req.Longitude

	var policy *shift.Policy
	if rec.ShiftPolicyID != nil {
		p, err := a.shiftService.GetPolicy(ctx, *rec.ShiftPolicyID)
		if err != nil {
			return attendance.CheckOutResponse{}, fmt.Errorf("failed to load shift policy: %w", err)
		}
		policy = &shift.Policy{
			ID:                             p.ID,
			StartTime:                      p.StartTime,
			EndTime:                        p.EndTime,
			GracePeriodMinutes:             p.GracePeriodMinutes,
			EarlyDepartureThresholdMinutes: p.EarlyDepartureThresholdMinutes,
			OvertimeStartAfterMinutes:      p.OvertimeStartAfterMinutes,
			MinimumWorkMinutes:             p.MinimumWorkMinutes,
			BreakMinutes:                   p.BreakMinutes,
		}
	}

	breakMinutes := 0
	minimumWork := 0
	if policy != nil {
		breakMinutes = policy.BreakMinutes
		minimumWork = policy.MinimumWorkMinutes
	}

	rec.BreakMinutes = breakMinutes
	rec.WorkingMinutes = timecalc.WorkingMinutes(*rec.CheckIn, checkOut, breakMinutes)

	if policy != nil {
		bounds, err := a.shiftBoundariesFor(policy, date)
		if err != nil {
			return attendance.CheckOutResponse{}, err
		}
		isEarly, earlyMinutes := timecalc.EarlyDeparture(checkOut, bounds.End, policy.EarlyDepartureThresholdMinutes)
		rec.IsEarlyDeparture = isEarly
		rec.EarlyDepartureMinutes = earlyMinutes
		rec.OvertimeMinutes = timecalc.Overtime(checkOut, bounds.End, policy.OvertimeStartAfterMinutes)
	}

	rec.Status = timecalc.DeriveStatus(rec.WorkingMinutes, minimumWork, rec.IsLate, rec.IsEarlyDeparture)

	if err := a.Repository.CompleteCheckOut(ctx, *rec); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	if rec.IsEarlyDeparture {
		go func(employeeID string, date time.Time, minutes int) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.alertService.EarlyDeparture(bgCtx, employeeID, date, minutes); err != nil {
				slog.Warn("Failed to raise early departure alert", "employee_id", employeeID, "error", err)
			}
		}(rec.EmployeeID, rec.Date, rec.EarlyDepartureMinutes)
	}

	updated, err := a.Repository.GetByID(ctx, rec.ID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	return attendance.CheckOutResponse{
		Record:           a.toResponse(updated),
		IsEarlyDeparture: updated.IsEarlyDeparture,
		OvertimeMinutes:  updated.OvertimeMinutes,
	}, nil
}

// rejectHoliday blocks administrative mutations on stored holidays when
// enforcement is switched on.
func (a *AttendanceServiceImpl) rejectHoliday(ctx context.Context, date time.Time) error {
	if !a.enforceHolidays {
		return nil
	}
	holiday, err := a.workCalendar.IsHoliday(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		return attendance.ErrHolidayMutation
	}
	return nil
}

func (a *AttendanceServiceImpl) markStatus(ctx context.Context, actor auth.Context, employeeID, dateStr, reason string, status timecalc.Status) (attendance.RecordResponse, error) {
	if !actor.IsAdministrative() {
		return attendance.RecordResponse{}, attendance.ErrAdminOnly
	}

	if _, err := a.directory.GetByID(ctx, employeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", dateStr)
	if err := a.rejectHoliday(ctx, date); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := time.Now().UTC()
	rec := attendance.Record{
		EmployeeID: employeeID,
		Date:       date,
		Status:     status,
		ApprovedBy: &actor.ActorID,
		ApprovedAt: &now,
	}
	if reason != "" {
		rec.Notes = &reason
	}

	created, err := a.Repository.UpsertAdministrative(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if status == timecalc.StatusAbsent {
		go func(employeeID string, date time.Time) {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.alertService.EvaluateAbsence(bgCtx, employeeID, date); err != nil {
				slog.Warn("Failed to evaluate absence window", "employee_id", employeeID, "error", err)
			}
		}(created.EmployeeID, created.Date)
	}

	return a.toResponse(created), nil
}

// MarkAbsent implements attendance.Service.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, actor auth.Context, req attendance.MarkAbsentRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	return a.markStatus(ctx, actor, req.EmployeeID, req.Date, req.Reason, timecalc.StatusAbsent)
}

// MarkOnLeave implements attendance.Service.
func (a *AttendanceServiceImpl) MarkOnLeave(ctx context.Context, actor auth.Context, req attendance.MarkOnLeaveRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}
	return a.markStatus(ctx, actor, req.EmployeeID, req.Date, req.Reason, timecalc.StatusOnLeave)
}

// ManualEntry implements attendance.Service. The supplied pair runs through
// the same derivation as live events; the record is flagged as manual.
func (a *AttendanceServiceImpl) ManualEntry(ctx context.Context, actor auth.Context, req attendance.ManualEntryRequest) (attendance.RecordResponse, error) {
	if !actor.IsAdministrative() {
		return attendance.RecordResponse{}, attendance.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	if _, err := a.directory.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	if err := a.rejectHoliday(ctx, date); err != nil {
		return attendance.RecordResponse{}, err
	}

	checkIn, _ := time.Parse(time.RFC3339, req.CheckIn)
	checkOut, _ := time.Parse(time.RFC3339, req.CheckOut)

	now := time.Now().UTC()
	rec := attendance.Record{
		EmployeeID:    req.EmployeeID,
		Date:          date,
		CheckIn:       &checkIn,
		CheckOut:      &checkOut,
		Notes:         req.Notes,
		IsManualEntry: true,
		ApprovedBy:    &actor.ActorID,
		ApprovedAt:    &now,
	}

	if err := a.computeDerivedFields(ctx, &rec); err != nil {
		return attendance.RecordResponse{}, err
	}

	created, err := a.Repository.UpsertAdministrative(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return a.toResponse(created), nil
}

// computeDerivedFields runs the full time derivation for a record carrying
// both a check-in and a check-out. Used by manual entries and approved
// corrections so amended times land identical to live ones.
func (a *AttendanceServiceImpl) computeDerivedFields(ctx context.Context, rec *attendance.Record) error {
	var policy *shift.Policy

	resolved, err := a.shiftService.ResolveActiveShift(ctx, rec.EmployeeID, rec.Date)
	if err != nil && !errors.Is(err, shift.ErrNoActiveShift) {
		return fmt.Errorf("failed to resolve shift: %w", err)
	}
	policy = resolved

	breakMinutes := 0
	minimumWork := 0
	if policy != nil {
		rec.ShiftPolicyID = &policy.ID
		breakMinutes = policy.BreakMinutes
		minimumWork = policy.MinimumWorkMinutes
	}

	rec.BreakMinutes = breakMinutes
	if rec.CheckIn != nil && rec.CheckOut != nil {
		rec.WorkingMinutes = timecalc.WorkingMinutes(*rec.CheckIn, *rec.CheckOut, breakMinutes)
	}

	if policy != nil {
		bounds, err := a.shiftBoundariesFor(policy, rec.Date)
		if err != nil {
			return err
		}
		if rec.CheckIn != nil {
			rec.IsLate, rec.LateMinutes = timecalc.Lateness(*rec.CheckIn, bounds.Start, policy.GracePeriodMinutes)
		}
		if rec.CheckOut != nil {
			rec.IsEarlyDeparture, rec.EarlyDepartureMinutes = timecalc.EarlyDeparture(*rec.CheckOut, bounds.End, policy.EarlyDepartureThresholdMinutes)
			rec.OvertimeMinutes = timecalc.Overtime(*rec.CheckOut, bounds.End, policy.OvertimeStartAfterMinutes)
		}
	}

	rec.Status = timecalc.DeriveStatus(rec.WorkingMinutes, minimumWork, rec.IsLate, rec.IsEarlyDeparture)
	return nil
}

type bulkCollector struct {
	mu        sync.Mutex
	succeeded []string
	failed    []attendance.BulkFailure
}

func (b *bulkCollector) success(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.succeeded = append(b.succeeded, id)
}

func (b *bulkCollector) failure(id string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = append(b.failed, attendance.BulkFailure{EmployeeID: id, Reason: err.Error()})
}

func (b *bulkCollector) result() attendance.BulkResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := attendance.BulkResult{
		Succeeded: b.succeeded,
		Failed:    b.failed,
	}
	if result.Succeeded == nil {
		result.Succeeded = []string{}
	}
	if result.Failed == nil {
		result.Failed = []attendance.BulkFailure{}
	}
	return result
}

// BulkCheckIn implements attendance.Service. Each employee succeeds or fails
// independently; the call as a whole only errors on invalid input.
func (a *AttendanceServiceImpl) BulkCheckIn(ctx context.Context, actor auth.Context, req attendance.BulkCheckInRequest) (attendance.BulkResult, error) {
	if !actor.IsAdministrative() {
		return attendance.BulkResult{}, attendance.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return attendance.BulkResult{}, err
	}

	collector := &bulkCollector{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, employeeID := range req.EmployeeIDs {
		g.Go(func() error {
			checkInReq := attendance.CheckInRequest{
				EmployeeID: employeeID,
				Timestamp:  req.Timestamp,
			}
			if _, err := a.CheckIn(gCtx, actor, checkInReq); err != nil {
				collector.failure(employeeID, err)
				return nil
			}
			collector.success(employeeID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.BulkResult{}, err
	}

	return collector.result(), nil
}

// BulkMarkAbsent implements attendance.Service. Unlike the single MarkAbsent
// overwrite, the bulk sweep never clobbers a day that already has a check-in:
// those ids are reported as failed and the rest proceed.
func (a *AttendanceServiceImpl) BulkMarkAbsent(ctx context.Context, actor auth.Context, req attendance.BulkMarkAbsentRequest) (attendance.BulkResult, error) {
	if !actor.IsAdministrative() {
		return attendance.BulkResult{}, attendance.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return attendance.BulkResult{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	collector := &bulkCollector{}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, employeeID := range req.EmployeeIDs {
		g.Go(func() error {
			existing, err := a.Repository.GetByEmployeeAndDate(gCtx, employeeID, date)
			if err != nil {
				collector.failure(employeeID, err)
				return nil
			}
			if existing != nil && existing.CheckIn != nil {
				collector.failure(employeeID, attendance.ErrAlreadyCheckedIn)
				return nil
			}

			markReq := attendance.MarkAbsentRequest{
				EmployeeID: employeeID,
				Date:       req.Date,
				Reason:     req.Reason,
			}
			if _, err := a.MarkAbsent(gCtx, actor, markReq); err != nil {
				collector.failure(employeeID, err)
				return nil
			}
			collector.success(employeeID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return attendance.BulkResult{}, err
	}

	return collector.result(), nil
}

// Get implements attendance.Service.
func (a *AttendanceServiceImpl) Get(ctx context.Context, actor auth.Context, id string) (attendance.RecordResponse, error) {
	rec, err := a.Repository.GetByID(ctx, id)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if err := mayActOn(actor, rec.EmployeeID); err != nil {
		return attendance.RecordResponse{}, err
	}
	return a.toResponse(rec), nil
}

// List implements attendance.Service. Managers are clamped to their
// department, employees to themselves.
func (a *AttendanceServiceImpl) List(ctx context.Context, actor auth.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		filter.DepartmentID = &actor.DepartmentID
	default:
		filter.EmployeeID = &actor.EmployeeID
	}

	return a.list(ctx, filter)
}

// MyAttendance implements attendance.Service.
func (a *AttendanceServiceImpl) MyAttendance(ctx context.Context, actor auth.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	filter.EmployeeID = &actor.EmployeeID
	filter.DepartmentID = nil

	return a.list(ctx, filter)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	records, total, err := a.Repository.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, a.toResponse(rec))
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

// Purge implements attendance.Service.
func (a *AttendanceServiceImpl) Purge(ctx context.Context, actor auth.Context, id string) error {
	if actor.Role != auth.RoleAdmin {
		return attendance.ErrAdminOnly
	}
	return a.Repository.Delete(ctx, id)
}

func NewAttendanceService(
	repo attendance.Repository,
	shiftService shift.Service,
	geofenceService geofence.Service,
	alertService alert.Service,
	directory employee.Directory,
	workCalendar calendar.WorkCalendar,
	location *time.Location,
	enforceHolidays bool,
) attendance.Service {
	if location == nil {
		location = time.UTC
	}
	return &AttendanceServiceImpl{
		Repository:      repo,
		shiftService:    shiftService,
		geofenceService: geofenceService,
		alertService:    alertService,
		directory:       directory,
		workCalendar:    workCalendar,
		location:        location,
		enforceHolidays: enforceHolidays,
	}
}
