package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
)

type CorrectionServiceImpl struct {
	db *database.DB
	correction.Repository
	attendanceRepo attendance.Repository
	shiftService   shift.Service
	directory      employee.Directory
	gateway        notification.Gateway

	location *time.Location

	// runInTx wraps the approve path so the status transition and the record
	// rewrite commit or roll back together.
	runInTx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func (c *CorrectionServiceImpl) toResponse(req correction.Request) correction.Response {
	resp := correction.Response{
		ID:                req.ID,
		EmployeeID:        req.EmployeeID,
		EmployeeName:      req.EmployeeName,
		AttendanceID:      req.AttendanceID,
		Date:              req.Date.Format("2006-01-02"),
		RequestType:       string(req.RequestType),
		OriginalCheckIn:   timePtrToString(req.OriginalCheckIn, c.location),
		OriginalCheckOut:  timePtrToString(req.OriginalCheckOut, c.location),
		RequestedCheckIn:  timePtrToString(req.RequestedCheckIn, c.location),
		RequestedCheckOut: timePtrToString(req.RequestedCheckOut, c.location),
		Reason:            req.Reason,
		Status:            string(req.Status),
		ReviewedBy:        req.ReviewedBy,
		ReviewNotes:       req.ReviewNotes,
		CreatedAt:         req.CreatedAt.Format(time.RFC3339),
	}
	if req.ReviewedAt != nil {
		at := req.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &at
	}
	return resp
}

// RequestCorrection implements correction.Service.
func (c *CorrectionServiceImpl) RequestCorrection(ctx context.Context, actor auth.Context, req correction.RequestCorrectionRequest) (correction.Response, error) {
	if err := req.Validate(); err != nil {
		return correction.Response{}, err
	}
	if actor.EmployeeID == "" {
		return correction.Response{}, auth.ErrMissingIdentity
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	request := correction.Request{
		EmployeeID:  actor.EmployeeID,
		Date:        date,
		RequestType: correction.RequestType(req.RequestType),
		Reason:      req.Reason,
		Status:      correction.StatusPending,
	}

	if req.RequestedCheckIn != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckIn)
		request.RequestedCheckIn = &t
	}
	if req.RequestedCheckOut != nil {
		t, _ := time.Parse(time.RFC3339, *req.RequestedCheckOut)
		request.RequestedCheckOut = &t
	}

	// Snapshot the day's record so reviewers see what was actually stored
	// when the appeal was filed.
	rec, err := c.attendanceRepo.GetByEmployeeAndDate(ctx, actor.EmployeeID, date)
	if err != nil {
		return correction.Response{}, err
	}
	if rec != nil {
		request.AttendanceID = &rec.ID
		request.OriginalCheckIn = rec.CheckIn
		request.OriginalCheckOut = rec.CheckOut
	}

	created, err := c.Repository.Create(ctx, request)
	if err != nil {
		return correction.Response{}, err
	}

	return c.toResponse(created), nil
}

// Review implements correction.Service. The pending-to-terminal transition
// happens exactly once; a concurrent duplicate review loses the optimistic
// update and gets ErrAlreadyReviewed.
func (c *CorrectionServiceImpl) Review(ctx context.Context, actor auth.Context, req correction.ReviewRequest) (correction.Response, error) {
	if err := req.Validate(); err != nil {
		return correction.Response{}, err
	}
	if !actor.IsAdministrative() {
		return correction.Response{}, attendance.ErrAdminOnly
	}

	request, err := c.Repository.GetByID(ctx, req.RequestID)
	if err != nil {
		return correction.Response{}, err
	}
	if request.Status.Terminal() {
		return correction.Response{}, correction.ErrAlreadyReviewed
	}

	// Managers review within their own department only.
	if actor.Role == auth.RoleManager {
		departmentID, err := c.directory.DepartmentOf(ctx, request.EmployeeID)
		if err != nil {
			return correction.Response{}, err
		}
		if departmentID != actor.DepartmentID {
			return correction.Response{}, correction.ErrReviewerForbidden
		}
	}

	now := time.Now().UTC()
	request.ReviewedBy = &actor.ActorID
	request.ReviewedAt = &now
	request.ReviewNotes = req.ReviewNotes

	if req.Decision == "approve" {
		request.Status = correction.StatusApproved
		err = c.runInTx(ctx, func(txCtx context.Context) error {
			ok, err := c.Repository.Transition(txCtx, request)
			if err != nil {
				return err
			}
			if !ok {
				return correction.ErrAlreadyReviewed
			}
			return c.applyCorrection(txCtx, actor, request)
		})
	} else {
		request.Status = correction.StatusRejected
		var ok bool
		ok, err = c.Repository.Transition(ctx, request)
		if err == nil && !ok {
			err = correction.ErrAlreadyReviewed
		}
	}
	if err != nil {
		return correction.Response{}, err
	}

	c.notifyDecision(request)

	return c.toResponse(request), nil
}

// applyCorrection rewrites the day's record with the approved times and
// re-derives every computed field, exactly as a live event would have.
func (c *CorrectionServiceImpl) applyCorrection(ctx context.Context, actor auth.Context, request correction.Request) error {
	rec, err := c.attendanceRepo.GetByEmployeeAndDate(ctx, request.EmployeeID, request.Date)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &attendance.Record{
			EmployeeID: request.EmployeeID,
			Date:       request.Date,
		}
	}

	if request.RequestedCheckIn != nil {
		rec.CheckIn = request.RequestedCheckIn
	}
	if request.RequestedCheckOut != nil {
		rec.CheckOut = request.RequestedCheckOut
	}
	if rec.CheckIn != nil && rec.CheckOut != nil && !rec.CheckOut.After(*rec.CheckIn) {
		return attendance.ErrCheckOutBeforeIn
	}

	if err := c.deriveFields(ctx, rec); err != nil {
		return err
	}

	now := time.Now().UTC()
	rec.ApprovedBy = &actor.ActorID
	rec.ApprovedAt = &now

	if _, err := c.attendanceRepo.UpsertAdministrative(ctx, *rec); err != nil {
		return fmt.Errorf("failed to apply correction: %w", err)
	}
	return nil
}

func (c *CorrectionServiceImpl) deriveFields(ctx context.Context, rec *attendance.Record) error {
	policy, err := c.shiftService.ResolveActiveShift(ctx, rec.EmployeeID, rec.Date)
	if err != nil && !errors.Is(err, shift.ErrNoActiveShift) {
		return fmt.Errorf("failed to resolve shift: %w", err)
	}

	breakMinutes := 0
	minimumWork := 0
	if policy != nil {
		rec.ShiftPolicyID = &policy.ID
		breakMinutes = policy.BreakMinutes
		minimumWork = policy.MinimumWorkMinutes
	}

	rec.BreakMinutes = breakMinutes
	rec.WorkingMinutes = 0
	if rec.CheckIn != nil && rec.CheckOut != nil {
		rec.WorkingMinutes = timecalc.WorkingMinutes(*rec.CheckIn, *rec.CheckOut, breakMinutes)
	}

	rec.IsLate = false
	rec.LateMinutes = 0
	rec.IsEarlyDeparture = false
	rec.EarlyDepartureMinutes = 0
	rec.OvertimeMinutes = 0

	if policy != nil {
		startMin, err := timecalc.ParseTimeOfDay(policy.StartTime)
		if err != nil {
			return err
		}
		endMin, err := timecalc.ParseTimeOfDay(policy.EndTime)
		if err != nil {
			return err
		}
		bounds := timecalc.ShiftBoundaries(rec.Date, startMin, endMin, c.location)

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

func (c *CorrectionServiceImpl) notifyDecision(request correction.Request) {
	if c.gateway == nil {
		return
	}

	kind := notification.KindCorrectionApproved
	title := "Correction request approved"
	if request.Status == correction.StatusRejected {
		kind = notification.KindCorrectionRejected
		title = "Correction request rejected"
	}

	msg := notification.Message{
		RecipientID: request.EmployeeID,
		Kind:        kind,
		Title:       title,
		Body:        fmt.Sprintf("Your correction request for %s was %s", request.Date.Format("2006-01-02"), request.Status),
		Data: map[string]interface{}{
			"request_id": request.ID,
			"date":       request.Date.Format("2006-01-02"),
		},
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.gateway.Publish(bgCtx, msg); err != nil {
			slog.Warn("Failed to publish correction decision", "request_id", request.ID, "error", err)
		}
	}()
}

// Get implements correction.Service.
func (c *CorrectionServiceImpl) Get(ctx context.Context, actor auth.Context, id string) (correction.Response, error) {
	request, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return correction.Response{}, err
	}
	if !actor.IsAdministrative() && request.EmployeeID != actor.EmployeeID {
		return correction.Response{}, attendance.ErrNotOwnRecord
	}
	return c.toResponse(request), nil
}

// List implements correction.Service.
func (c *CorrectionServiceImpl) List(ctx context.Context, actor auth.Context, filter correction.Filter) (correction.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return correction.ListResponse{}, err
	}

	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		filter.DepartmentID = &actor.DepartmentID
	default:
		filter.EmployeeID = &actor.EmployeeID
	}

	return c.list(ctx, filter)
}

// MyRequests implements correction.Service.
func (c *CorrectionServiceImpl) MyRequests(ctx context.Context, actor auth.Context, filter correction.Filter) (correction.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return correction.ListResponse{}, err
	}

	filter.EmployeeID = &actor.EmployeeID
	filter.DepartmentID = nil

	return c.list(ctx, filter)
}

func (c *CorrectionServiceImpl) list(ctx context.Context, filter correction.Filter) (correction.ListResponse, error) {
	requests, total, err := c.Repository.List(ctx, filter)
	if err != nil {
		return correction.ListResponse{}, err
	}

	responses := make([]correction.Response, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, c.toResponse(req))
	}

	return correction.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   responses,
	}, nil
}

func NewCorrectionService(
	db *database.DB,
	repo correction.Repository,
	attendanceRepo attendance.Repository,
	shiftService shift.Service,
	directory employee.Directory,
	gateway notification.Gateway,
	location *time.Location,
) correction.Service {
	if location == nil {
		location = time.UTC
	}
	svc := &CorrectionServiceImpl{
		db:             db,
		Repository:     repo,
		attendanceRepo: attendanceRepo,
		shiftService:   shiftService,
		directory:      directory,
		gateway:        gateway,
		location:       location,
	}
	svc.runInTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return postgresql.WithTransaction(ctx, svc.db, fn)
	}
	return svc
}
