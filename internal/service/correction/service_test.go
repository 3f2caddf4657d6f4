package correction

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== In-memory fakes =====

type fakeCorrectionRepo struct {
	mu       sync.Mutex
	requests map[string]*correction.Request
	nextID   int
}

func newFakeCorrectionRepo() *fakeCorrectionRepo {
	return &fakeCorrectionRepo{requests: make(map[string]*correction.Request)}
}

func (f *fakeCorrectionRepo) Create(_ context.Context, req correction.Request) (correction.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	req.ID = fmt.Sprintf("corr-%d", f.nextID)
	req.CreatedAt = time.Now().UTC()
	stored := req
	f.requests[req.ID] = &stored
	return req, nil
}

func (f *fakeCorrectionRepo) GetByID(_ context.Context, id string) (correction.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return correction.Request{}, correction.ErrRequestNotFound
	}
	return *req, nil
}

func (f *fakeCorrectionRepo) List(_ context.Context, filter correction.Filter) ([]correction.Request, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []correction.Request
	for _, req := range f.requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCorrectionRepo) Transition(_ context.Context, req correction.Request) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[req.ID]
	if !ok {
		return false, correction.ErrRequestNotFound
	}
	if stored.Status != correction.StatusPending {
		return false, nil
	}
	*stored = req
	return true, nil
}

type fakeAttendanceStore struct {
	mu      sync.Mutex
	records map[string]*attendance.Record // keyed employeeID|date
	nextID  int
}

func newFakeAttendanceStore() *fakeAttendanceStore {
	return &fakeAttendanceStore{records: make(map[string]*attendance.Record)}
}

func storeKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceStore) seed(rec attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	stored := rec
	f.records[storeKey(rec.EmployeeID, rec.Date)] = &stored
}

func (f *fakeAttendanceStore) InsertCheckIn(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeAttendanceStore) CompleteCheckOut(context.Context, attendance.Record) error {
	return nil
}

func (f *fakeAttendanceStore) UpsertAdministrative(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := storeKey(rec.EmployeeID, rec.Date)
	if existing, ok := f.records[key]; ok {
		rec.ID = existing.ID
	} else {
		f.nextID++
		rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	}
	stored := rec
	f.records[key] = &stored
	return rec, nil
}

func (f *fakeAttendanceStore) GetByID(context.Context, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeAttendanceStore) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[storeKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	out := *rec
	return &out, nil
}

func (f *fakeAttendanceStore) List(context.Context, attendance.Filter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeAttendanceStore) ListRange(context.Context, string, time.Time, time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeAttendanceStore) CountAbsences(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeAttendanceStore) Delete(context.Context, string) error { return nil }

type fakeShiftResolver struct {
	policy *shift.Policy
}

func (f *fakeShiftResolver) CreatePolicy(context.Context, auth.Context, shift.CreatePolicyRequest) (shift.PolicyResponse, error) {
	return shift.PolicyResponse{}, nil
}

func (f *fakeShiftResolver) UpdatePolicy(context.Context, auth.Context, shift.UpdatePolicyRequest) (shift.PolicyResponse, error) {
	return shift.PolicyResponse{}, nil
}

func (f *fakeShiftResolver) GetPolicy(context.Context, string) (shift.PolicyResponse, error) {
	return shift.PolicyResponse{}, shift.ErrPolicyNotFound
}

func (f *fakeShiftResolver) ListPolicies(context.Context) ([]shift.PolicyResponse, error) {
	return nil, nil
}

func (f *fakeShiftResolver) AssignShift(context.Context, auth.Context, shift.AssignShiftRequest) (shift.AssignmentResponse, error) {
	return shift.AssignmentResponse{}, nil
}

func (f *fakeShiftResolver) ListAssignments(context.Context, string) ([]shift.AssignmentResponse, error) {
	return nil, nil
}

func (f *fakeShiftResolver) ResolveActiveShift(context.Context, string, time.Time) (*shift.Policy, error) {
	if f.policy == nil {
		return nil, shift.ErrNoActiveShift
	}
	p := *f.policy
	return &p, nil
}

type staticDirectory struct {
	departments map[string]string // employeeID -> departmentID
}

func (d *staticDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	dept, ok := d.departments[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, DepartmentID: dept, IsActive: true}, nil
}

func (d *staticDirectory) ListActive(context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (d *staticDirectory) DepartmentOf(ctx context.Context, employeeID string) (string, error) {
	emp, err := d.GetByID(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return emp.DepartmentID, nil
}

type recordingGateway struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (g *recordingGateway) Publish(_ context.Context, msg notification.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, msg)
	return nil
}

// ===== Fixtures =====

type correctionFixture struct {
	repo      *fakeCorrectionRepo
	storeRepo *fakeAttendanceStore
	svc       *CorrectionServiceImpl
}

func newCorrectionFixture(policy *shift.Policy) correctionFixture {
	repo := newFakeCorrectionRepo()
	store := newFakeAttendanceStore()
	directory := &staticDirectory{departments: map[string]string{
		"emp-1": "dept-1",
		"mgr-1": "dept-1",
		"mgr-2": "dept-2",
	}}

	svc := NewCorrectionService(
		nil, repo, store, &fakeShiftResolver{policy: policy},
		directory, &recordingGateway{}, time.UTC,
	).(*CorrectionServiceImpl)
	// Repositories are plain maps here, so the approve path needs no real
	// transaction boundary.
	svc.runInTx = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}

	return correctionFixture{repo: repo, storeRepo: store, svc: svc}
}

func testPolicy() *shift.Policy {
	return &shift.Policy{
		ID:                             "policy-day",
		StartTime:                      "09:00",
		EndTime:                        "17:00",
		GracePeriodMinutes:             15,
		EarlyDepartureThresholdMinutes: 15,
		OvertimeStartAfterMinutes:      30,
		MinimumWorkMinutes:             420,
		BreakMinutes:                   60,
	}
}

var (
	requester    = auth.Context{ActorID: "emp-1", EmployeeID: "emp-1", Role: auth.RoleEmployee, DepartmentID: "dept-1"}
	reviewer     = auth.Context{ActorID: "mgr-1", EmployeeID: "mgr-1", Role: auth.RoleManager, DepartmentID: "dept-1"}
	otherDeptMgr = auth.Context{ActorID: "mgr-2", EmployeeID: "mgr-2", Role: auth.RoleManager, DepartmentID: "dept-2"}
)

func strPtr(s string) *string { return &s }

// ===== Tests =====

func TestRequestCorrection_SnapshotsExistingRecord(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.storeRepo.seed(attendance.Record{
		EmployeeID: "emp-1",
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:    &checkIn,
		Status:     timecalc.StatusPresent,
	})

	resp, err := f.svc.RequestCorrection(context.Background(), requester, correction.RequestCorrectionRequest{
		Date:              "2026-03-02",
		RequestType:       string(correction.TypeMissingCheckOut),
		RequestedCheckOut: strPtr("2026-03-02T17:00:00Z"),
		Reason:            "forgot to check out",
	})
	require.NoError(t, err)

	assert.Equal(t, string(correction.StatusPending), resp.Status)
	require.NotNil(t, resp.AttendanceID)
	require.NotNil(t, resp.OriginalCheckIn)
	assert.Nil(t, resp.OriginalCheckOut)
}

func TestReview_Approve_RewritesRecord(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	f.storeRepo.seed(attendance.Record{
		EmployeeID: "emp-1",
		Date:       date,
		CheckIn:    &checkIn,
		Status:     timecalc.StatusPresent,
	})

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:              "2026-03-02",
		RequestType:       string(correction.TypeMissingCheckOut),
		RequestedCheckOut: strPtr("2026-03-02T17:00:00Z"),
		Reason:            "forgot to check out",
	})
	require.NoError(t, err)

	resp, err := f.svc.Review(ctx, reviewer, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, string(correction.StatusApproved), resp.Status)

	rec, err := f.storeRepo.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.CheckOut)
	assert.Equal(t, "2026-03-02T17:00:00Z", rec.CheckOut.Format(time.RFC3339))
	// 8h span minus the 60-minute break, fully re-derived.
	assert.Equal(t, 420, rec.WorkingMinutes)
	assert.Equal(t, timecalc.StatusPresent, rec.Status)
	require.NotNil(t, rec.ApprovedBy)
	assert.Equal(t, "mgr-1", *rec.ApprovedBy)
}

func TestReview_ExactlyOnce(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, reviewer, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, reviewer, correction.ReviewRequest{
		RequestID:   created.ID,
		Decision:    "reject",
		ReviewNotes: strPtr("duplicate review"),
	})
	assert.ErrorIs(t, err, correction.ErrAlreadyReviewed)
}

func TestReview_Reject_LeavesAttendanceUntouched(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	resp, err := f.svc.Review(ctx, reviewer, correction.ReviewRequest{
		RequestID:   created.ID,
		Decision:    "reject",
		ReviewNotes: strPtr("no evidence of presence"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(correction.StatusRejected), resp.Status)

	rec, err := f.storeRepo.GetByEmployeeAndDate(ctx, "emp-1", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestReview_ManagerFromOtherDepartment_Forbidden(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, otherDeptMgr, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	assert.ErrorIs(t, err, correction.ErrReviewerForbidden)
}

func TestReview_AdminReviewsAcrossDepartments(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	// Admins are org-wide reviewers; the department gate applies to
	// managers only.
	otherDeptAdmin := auth.Context{ActorID: "admin-9", EmployeeID: "admin-9", Role: auth.RoleAdmin, DepartmentID: "dept-2"}
	reviewed, err := f.svc.Review(ctx, otherDeptAdmin, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	require.NoError(t, err)
	assert.Equal(t, string(correction.StatusApproved), reviewed.Status)
}

func TestReview_EmployeeActor_Forbidden(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, requester, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	assert.ErrorIs(t, err, attendance.ErrAdminOnly)
}

func TestReview_Approve_CheckOutBeforeStoredCheckIn(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	f.storeRepo.seed(attendance.Record{
		EmployeeID: "emp-1",
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:    &checkIn,
		Status:     timecalc.StatusPresent,
	})

	created, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:              "2026-03-02",
		RequestType:       string(correction.TypeMissingCheckOut),
		RequestedCheckOut: strPtr("2026-03-02T08:00:00Z"),
		Reason:            "left before the recorded check-in",
	})
	require.NoError(t, err)

	_, err = f.svc.Review(ctx, reviewer, correction.ReviewRequest{
		RequestID: created.ID,
		Decision:  "approve",
	})
	assert.ErrorIs(t, err, attendance.ErrCheckOutBeforeIn)
}

func TestMyRequests_ScopedToActor(t *testing.T) {
	t.Parallel()
	f := newCorrectionFixture(testPolicy())
	ctx := context.Background()

	_, err := f.svc.RequestCorrection(ctx, requester, correction.RequestCorrectionRequest{
		Date:             "2026-03-02",
		RequestType:      string(correction.TypeMissingCheckIn),
		RequestedCheckIn: strPtr("2026-03-02T09:00:00Z"),
		Reason:           "badge reader was down",
	})
	require.NoError(t, err)

	other := auth.Context{ActorID: "mgr-1", EmployeeID: "mgr-1", Role: auth.RoleEmployee}
	resp, err := f.svc.MyRequests(ctx, other, correction.Filter{})
	require.NoError(t, err)
	assert.Empty(t, resp.Requests)

	mine, err := f.svc.MyRequests(ctx, requester, correction.Filter{})
	require.NoError(t, err)
	assert.Len(t, mine.Requests, 1)
}
