package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empAyu  = "5f0c1b2a-9d3e-4f6a-8b7c-0d1e2f3a4b5c"
	empBudi = "7a1d2c3b-0e4f-4a5b-9c8d-1e2f3a4b5c6d"
)

// ===== In-memory fakes =====

type fakeSummaryRepo struct {
	mu      sync.Mutex
	rows    map[string]summary.Summary // keyed employeeID|month|year
	upserts int
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: make(map[string]summary.Summary)}
}

func summaryKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%d|%d", employeeID, month, year)
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, sum *summary.Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.rows[summaryKey(sum.EmployeeID, sum.Month, sum.Year)] = *sum
	return nil
}

func (f *fakeSummaryRepo) GetByPeriod(_ context.Context, employeeID string, month, year int) (*summary.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, ok := f.rows[summaryKey(employeeID, month, year)]
	if !ok {
		return nil, summary.ErrSummaryNotFound
	}
	return &sum, nil
}

func (f *fakeSummaryRepo) List(_ context.Context, filter summary.Filter) ([]summary.Summary, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []summary.Summary
	for _, sum := range f.rows {
		if filter.EmployeeID != "" && sum.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, sum)
	}
	return out, len(out), nil
}

type fakeRecordSource struct {
	records map[string][]attendance.Record // keyed employeeID
}

func (f *fakeRecordSource) InsertCheckIn(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeRecordSource) CompleteCheckOut(context.Context, attendance.Record) error { return nil }

func (f *fakeRecordSource) UpsertAdministrative(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeRecordSource) GetByID(context.Context, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeRecordSource) GetByEmployeeAndDate(context.Context, string, time.Time) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeRecordSource) List(context.Context, attendance.Filter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (f *fakeRecordSource) ListRange(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range f.records[employeeID] {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRecordSource) CountAbsences(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeRecordSource) Delete(context.Context, string) error { return nil }

type fakeCalendar struct {
	holidays []calendar.Holiday
}

func (f *fakeCalendar) IsHoliday(context.Context, time.Time) (bool, error) { return false, nil }

func (f *fakeCalendar) HolidaysInMonth(context.Context, int, time.Month) ([]calendar.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeCalendar) AddHoliday(context.Context, *calendar.Holiday) error { return nil }

func (f *fakeCalendar) RemoveHoliday(context.Context, string) error { return nil }

type fakeDirectory struct {
	employees []employee.Employee
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeDirectory) ListActive(context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeDirectory) DepartmentOf(ctx context.Context, employeeID string) (string, error) {
	emp, err := f.GetByID(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return emp.DepartmentID, nil
}

// ===== Fixtures =====

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func newSummaryFixture() (*fakeSummaryRepo, summary.Service) {
	repo := newFakeSummaryRepo()
	records := &fakeRecordSource{records: map[string][]attendance.Record{
		empAyu: {
			{EmployeeID: empAyu, Date: day(2), Status: timecalc.StatusPresent, WorkingMinutes: 480},
			{EmployeeID: empAyu, Date: day(3), Status: timecalc.StatusPresent, WorkingMinutes: 480, OvertimeMinutes: 30},
			{EmployeeID: empAyu, Date: day(4), Status: timecalc.StatusLate, WorkingMinutes: 460, LateMinutes: 20},
			{EmployeeID: empAyu, Date: day(5), Status: timecalc.StatusHalfDay, WorkingMinutes: 180},
			{EmployeeID: empAyu, Date: day(6), Status: timecalc.StatusAbsent},
			{EmployeeID: empAyu, Date: day(9), Status: timecalc.StatusOnLeave},
			{EmployeeID: empAyu, Date: day(10), Status: timecalc.StatusEarlyDeparture, WorkingMinutes: 400, EarlyDepartureMinutes: 45},
		},
	}}
	directory := &fakeDirectory{employees: []employee.Employee{
		{ID: empAyu, FullName: "Ayu Lestari", DepartmentID: "dept-1", IsActive: true},
		{ID: empBudi, FullName: "Budi Santoso", DepartmentID: "dept-1", IsActive: true},
	}}
	cal := &fakeCalendar{holidays: []calendar.Holiday{
		{Date: day(17), Name: "Nyepi"},
	}}

	svc := NewSummaryService(repo, records, cal, directory, time.UTC)
	return repo, svc
}

var admin = auth.Context{ActorID: "admin-1", EmployeeID: "admin-1", Role: auth.RoleAdmin}

// ===== Tests =====

func TestGenerate_Tallies(t *testing.T) {
	t.Parallel()
	_, svc := newSummaryFixture()

	resp, err := svc.Generate(context.Background(), admin, summary.GenerateRequest{
		EmployeeID: empAyu,
		Month:      3,
		Year:       2026,
	})
	require.NoError(t, err)

	// March 2026 has 22 weekdays, minus one weekday holiday.
	assert.Equal(t, 21, resp.WorkingDays)
	assert.Equal(t, 2, resp.PresentDays)
	assert.Equal(t, 1, resp.LateDays)
	assert.Equal(t, 1, resp.AbsentDays)
	assert.Equal(t, 1, resp.LeaveDays)
	assert.Equal(t, 1, resp.HalfDays)
	assert.Equal(t, 1, resp.EarlyDepartureDays)
	assert.Equal(t, 2000, resp.TotalWorkingMinutes)
	assert.Equal(t, 30, resp.TotalOvertimeMinutes)
	assert.Equal(t, 20, resp.TotalLateMinutes)
	// 5 attended of 21 working days.
	assert.InDelta(t, 23.81, resp.AttendancePercentage, 0.001)
}

func TestGenerate_Idempotent(t *testing.T) {
	t.Parallel()
	repo, svc := newSummaryFixture()
	ctx := context.Background()

	req := summary.GenerateRequest{EmployeeID: empAyu, Month: 3, Year: 2026}

	first, err := svc.Generate(ctx, admin, req)
	require.NoError(t, err)
	second, err := svc.Generate(ctx, admin, req)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.upserts)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, first.Summary, second.Summary)

	// Byte-for-byte: nothing in the rollup depends on when it ran.
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}

func TestGenerate_RequiresAdministrativeRole(t *testing.T) {
	t.Parallel()
	_, svc := newSummaryFixture()

	emp := auth.Context{ActorID: empAyu, EmployeeID: empAyu, Role: auth.RoleEmployee}
	_, err := svc.Generate(context.Background(), emp, summary.GenerateRequest{
		EmployeeID: empAyu,
		Month:      3,
		Year:       2026,
	})
	assert.ErrorIs(t, err, attendance.ErrAdminOnly)
}

func TestGenerate_UnknownEmployee(t *testing.T) {
	t.Parallel()
	_, svc := newSummaryFixture()

	_, err := svc.Generate(context.Background(), admin, summary.GenerateRequest{
		EmployeeID: "9b2e3f4a-1c5d-4e6f-8a7b-2c3d4e5f6a7b",
		Month:      3,
		Year:       2026,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGenerateAll_FansOutOverActiveDirectory(t *testing.T) {
	t.Parallel()
	repo, svc := newSummaryFixture()

	resp, err := svc.GenerateAll(context.Background(), admin, summary.GenerateAllRequest{
		Month: 3,
		Year:  2026,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Len(t, repo.rows, 2)

	// Budi has no records; the summary still lands with zero counts.
	empty, err := repo.GetByPeriod(context.Background(), empBudi, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.PresentDays)
	assert.Equal(t, 21, empty.WorkingDays)
	assert.Zero(t, empty.AttendancePercentage)
}

func TestGet_EmployeeScopedToOwnSummary(t *testing.T) {
	t.Parallel()
	_, svc := newSummaryFixture()
	ctx := context.Background()

	_, err := svc.Generate(ctx, admin, summary.GenerateRequest{EmployeeID: empAyu, Month: 3, Year: 2026})
	require.NoError(t, err)

	other := auth.Context{ActorID: empBudi, EmployeeID: empBudi, Role: auth.RoleEmployee}
	_, err = svc.Get(ctx, other, empAyu, 3, 2026)
	assert.ErrorIs(t, err, attendance.ErrNotOwnRecord)

	own := auth.Context{ActorID: empAyu, EmployeeID: empAyu, Role: auth.RoleEmployee}
	resp, err := svc.Get(ctx, own, empAyu, 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.PresentDays)
}
