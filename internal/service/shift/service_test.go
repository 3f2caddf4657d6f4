package shift

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicyRepo struct {
	mu       sync.Mutex
	policies map[string]shift.Policy
	seq      int
}

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: make(map[string]shift.Policy)}
}

func (f *fakePolicyRepo) Create(_ context.Context, policy shift.Policy) (shift.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	policy.ID = fmt.Sprintf("policy-%d", f.seq)
	policy.CreatedAt = time.Now().UTC()
	policy.UpdatedAt = policy.CreatedAt
	f.policies[policy.ID] = policy
	return policy, nil
}

func (f *fakePolicyRepo) GetByID(_ context.Context, id string) (shift.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	policy, ok := f.policies[id]
	if !ok {
		return shift.Policy{}, shift.ErrPolicyNotFound
	}
	return policy, nil
}

func (f *fakePolicyRepo) GetByCode(_ context.Context, code string) (*shift.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, policy := range f.policies {
		if policy.Code == code {
			return &policy, nil
		}
	}
	return nil, nil
}

func (f *fakePolicyRepo) List(_ context.Context) ([]shift.Policy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]shift.Policy, 0, len(f.policies))
	for _, policy := range f.policies {
		out = append(out, policy)
	}
	return out, nil
}

func (f *fakePolicyRepo) Update(_ context.Context, policy shift.Policy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.policies[policy.ID]; !ok {
		return shift.ErrPolicyNotFound
	}
	policy.UpdatedAt = time.Now().UTC()
	f.policies[policy.ID] = policy
	return nil
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string][]shift.Assignment // keyed employeeID
	seq         int
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string][]shift.Assignment)}
}

// Assign deactivates the employee's current assignment before appending the
// new one, mirroring the transactional repository.
func (f *fakeAssignmentRepo) Assign(_ context.Context, assignment shift.Assignment) (shift.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing := f.assignments[assignment.EmployeeID]
	for i := range existing {
		existing[i].IsActive = false
	}
	f.seq++
	assignment.ID = fmt.Sprintf("assignment-%d", f.seq)
	assignment.IsActive = true
	f.assignments[assignment.EmployeeID] = append(existing, assignment)
	return assignment, nil
}

func (f *fakeAssignmentRepo) GetActiveForDate(_ context.Context, employeeID string, date time.Time) (*shift.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, assignment := range f.assignments[employeeID] {
		if assignment.IsActive && assignment.CoversDate(date) {
			return &assignment, nil
		}
	}
	return nil, nil
}

func (f *fakeAssignmentRepo) ListByEmployee(_ context.Context, employeeID string) ([]shift.Assignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shift.Assignment(nil), f.assignments[employeeID]...), nil
}

type staticDirectory struct{}

func (staticDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if id != "emp-1" && id != "emp-2" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: id, FullName: "Ayu Lestari", DepartmentID: "dept-1", IsActive: true}, nil
}

func (staticDirectory) ListActive(context.Context) ([]employee.Employee, error) {
	return []employee.Employee{{ID: "emp-1"}, {ID: "emp-2"}}, nil
}

func (staticDirectory) DepartmentOf(context.Context, string) (string, error) {
	return "dept-1", nil
}

var (
	adminActor    = auth.Context{ActorID: "admin-1", EmployeeID: "admin-1", Role: auth.RoleAdmin}
	employeeActor = auth.Context{ActorID: "emp-1", EmployeeID: "emp-1", Role: auth.RoleEmployee}
)

func dayShiftRequest() shift.CreatePolicyRequest {
	return shift.CreatePolicyRequest{
		Name:                           "Day Shift",
		Code:                           "DAY",
		StartTime:                      "09:00",
		EndTime:                        "17:00",
		GracePeriodMinutes:             15,
		EarlyDepartureThresholdMinutes: 15,
		OvertimeStartAfterMinutes:      30,
		MinimumWorkMinutes:             420,
		BreakMinutes:                   60,
	}
}

// newShiftFixture wires the service without a cache; resolution goes straight
// to the repositories.
func newShiftFixture() (*fakePolicyRepo, *fakeAssignmentRepo, shift.Service) {
	policyRepo := newFakePolicyRepo()
	assignmentRepo := newFakeAssignmentRepo()
	svc := NewShiftService(policyRepo, assignmentRepo, staticDirectory{}, nil, 0)
	return policyRepo, assignmentRepo, svc
}

func TestCreatePolicy_DuplicateCodeRejected(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()
	ctx := context.Background()

	first, err := svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	assert.ErrorIs(t, err, shift.ErrPolicyCodeExists)
}

func TestCreatePolicy_RequiresAdministrativeRole(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()

	_, err := svc.CreatePolicy(context.Background(), employeeActor, dayShiftRequest())
	assert.ErrorIs(t, err, auth.ErrAdminRequired)
}

func TestCreatePolicy_RejectsMalformedTimes(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()

	req := dayShiftRequest()
	req.StartTime = "9am"
	_, err := svc.CreatePolicy(context.Background(), adminActor, req)
	assert.Error(t, err)
}

func TestUpdatePolicy_PatchesOnlyProvidedFields(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()
	ctx := context.Background()

	created, err := svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	require.NoError(t, err)

	grace := 30
	end := "18:00"
	updated, err := svc.UpdatePolicy(ctx, adminActor, shift.UpdatePolicyRequest{
		ID:                 created.ID,
		GracePeriodMinutes: &grace,
		EndTime:            &end,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, updated.GracePeriodMinutes)
	assert.Equal(t, "18:00", updated.EndTime)
	// Untouched fields survive the patch.
	assert.Equal(t, "09:00", updated.StartTime)
	assert.Equal(t, "DAY", updated.Code)
	assert.Equal(t, 420, updated.MinimumWorkMinutes)
}

func TestUpdatePolicy_UnknownID(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()

	name := "Renamed"
	_, err := svc.UpdatePolicy(context.Background(), adminActor, shift.UpdatePolicyRequest{
		ID:   "policy-missing",
		Name: &name,
	})
	assert.ErrorIs(t, err, shift.ErrPolicyNotFound)
}

func TestAssignShift_ReplacesActiveAssignment(t *testing.T) {
	t.Parallel()
	_, assignmentRepo, svc := newShiftFixture()
	ctx := context.Background()

	day, err := svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	require.NoError(t, err)
	nightReq := dayShiftRequest()
	nightReq.Name = "Night Shift"
	nightReq.Code = "NIGHT"
	nightReq.StartTime = "22:00"
	nightReq.EndTime = "06:00"
	nightReq.IsNightShift = true
	night, err := svc.CreatePolicy(ctx, adminActor, nightReq)
	require.NoError(t, err)

	_, err = svc.AssignShift(ctx, adminActor, shift.AssignShiftRequest{
		EmployeeID:    "emp-1",
		ShiftPolicyID: day.ID,
		EffectiveFrom: "2026-03-01",
	})
	require.NoError(t, err)

	second, err := svc.AssignShift(ctx, adminActor, shift.AssignShiftRequest{
		EmployeeID:    "emp-1",
		ShiftPolicyID: night.ID,
		EffectiveFrom: "2026-03-15",
	})
	require.NoError(t, err)
	assert.True(t, second.IsActive)

	// Only one active assignment remains.
	assignments, err := assignmentRepo.ListByEmployee(ctx, "emp-1")
	require.NoError(t, err)
	active := 0
	for _, a := range assignments {
		if a.IsActive {
			active++
			assert.Equal(t, night.ID, a.ShiftPolicyID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestAssignShift_UnknownEmployee(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()
	ctx := context.Background()

	policy, err := svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	require.NoError(t, err)

	_, err = svc.AssignShift(ctx, adminActor, shift.AssignShiftRequest{
		EmployeeID:    "emp-missing",
		ShiftPolicyID: policy.ID,
		EffectiveFrom: "2026-03-01",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAssignShift_UnknownPolicy(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()

	_, err := svc.AssignShift(context.Background(), adminActor, shift.AssignShiftRequest{
		EmployeeID:    "emp-1",
		ShiftPolicyID: "policy-missing",
		EffectiveFrom: "2026-03-01",
	})
	assert.ErrorIs(t, err, shift.ErrPolicyNotFound)
}

func TestResolveActiveShift_HonorsEffectiveDating(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()
	ctx := context.Background()

	policy, err := svc.CreatePolicy(ctx, adminActor, dayShiftRequest())
	require.NoError(t, err)

	to := "2026-03-31"
	_, err = svc.AssignShift(ctx, adminActor, shift.AssignShiftRequest{
		EmployeeID:    "emp-1",
		ShiftPolicyID: policy.ID,
		EffectiveFrom: "2026-03-01",
		EffectiveTo:   &to,
	})
	require.NoError(t, err)

	resolved, err := svc.ResolveActiveShift(ctx, "emp-1", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, policy.ID, resolved.ID)
	assert.Equal(t, "09:00", resolved.StartTime)

	// Before the window and after it there is no shift.
	_, err = svc.ResolveActiveShift(ctx, "emp-1", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shift.ErrNoActiveShift)

	_, err = svc.ResolveActiveShift(ctx, "emp-1", time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shift.ErrNoActiveShift)
}

func TestResolveActiveShift_NoAssignment(t *testing.T) {
	t.Parallel()
	_, _, svc := newShiftFixture()

	_, err := svc.ResolveActiveShift(context.Background(), "emp-2", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shift.ErrNoActiveShift)
}
