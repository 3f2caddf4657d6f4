package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlertRepo struct {
	mu     sync.Mutex
	alerts []alert.Alert
}

func (f *fakeAlertRepo) Create(_ context.Context, al *alert.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, *al)
	return nil
}

func (f *fakeAlertRepo) List(_ context.Context, filter alert.Filter) ([]alert.Alert, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []alert.Alert
	for _, al := range f.alerts {
		if filter.EmployeeID != "" && al.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Kind != "" && al.Kind != filter.Kind {
			continue
		}
		if filter.Severity != "" && al.Severity != filter.Severity {
			continue
		}
		out = append(out, al)
	}
	return out, len(out), nil
}

func (f *fakeAlertRepo) last(t *testing.T) alert.Alert {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.alerts)
	return f.alerts[len(f.alerts)-1]
}

// absenceCounter returns a fixed absence count regardless of the window.
type absenceCounter struct {
	count int
}

func (a *absenceCounter) InsertCheckIn(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (a *absenceCounter) CompleteCheckOut(context.Context, attendance.Record) error { return nil }

func (a *absenceCounter) UpsertAdministrative(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (a *absenceCounter) GetByID(context.Context, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (a *absenceCounter) GetByEmployeeAndDate(context.Context, string, time.Time) (*attendance.Record, error) {
	return nil, nil
}

func (a *absenceCounter) List(context.Context, attendance.Filter) ([]attendance.Record, int64, error) {
	return nil, 0, nil
}

func (a *absenceCounter) ListRange(context.Context, string, time.Time, time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (a *absenceCounter) CountAbsences(context.Context, string, time.Time, time.Time) (int, error) {
	return a.count, nil
}

func (a *absenceCounter) Delete(context.Context, string) error { return nil }

type capturingGateway struct {
	mu       sync.Mutex
	messages []notification.Message
}

func (g *capturingGateway) Publish(_ context.Context, msg notification.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages = append(g.messages, msg)
	return nil
}

func (g *capturingGateway) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.messages)
}

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func TestLateArrival_SeverityEscalatesPastThreshold(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	gateway := &capturingGateway{}
	svc := NewAlertService(repo, &absenceCounter{}, gateway)
	ctx := context.Background()

	require.NoError(t, svc.LateArrival(ctx, "emp-1", testDate, 20))
	assert.Equal(t, alert.SeverityMedium, repo.last(t).Severity)

	// Exactly at the threshold stays medium; escalation is strictly greater.
	require.NoError(t, svc.LateArrival(ctx, "emp-1", testDate, alert.LateHighSeverityMinutes))
	assert.Equal(t, alert.SeverityMedium, repo.last(t).Severity)

	require.NoError(t, svc.LateArrival(ctx, "emp-1", testDate, alert.LateHighSeverityMinutes+1))
	escalated := repo.last(t)
	assert.Equal(t, alert.SeverityHigh, escalated.Severity)
	assert.Equal(t, alert.KindLateArrival, escalated.Kind)
	assert.Equal(t, 31, escalated.Minutes)

	assert.Equal(t, 3, gateway.len())
}

func TestEarlyDeparture_SeverityEscalatesPastThreshold(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	svc := NewAlertService(repo, &absenceCounter{}, &capturingGateway{})
	ctx := context.Background()

	require.NoError(t, svc.EarlyDeparture(ctx, "emp-1", testDate, 20))
	al := repo.last(t)
	assert.Equal(t, alert.KindEarlyDeparture, al.Kind)
	assert.Equal(t, alert.SeverityMedium, al.Severity)
	assert.Equal(t, 20, al.Minutes)

	require.NoError(t, svc.EarlyDeparture(ctx, "emp-1", testDate, alert.EarlyHighSeverityMinutes+1))
	assert.Equal(t, alert.SeverityHigh, repo.last(t).Severity)
}

func TestEvaluateAbsence_BelowThresholdRaisesNothing(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	gateway := &capturingGateway{}
	svc := NewAlertService(repo, &absenceCounter{count: alert.AbsenceHighCount - 1}, gateway)

	require.NoError(t, svc.EvaluateAbsence(context.Background(), "emp-1", testDate))
	assert.Empty(t, repo.alerts)
	assert.Zero(t, gateway.len())
}

func TestEvaluateAbsence_AtThresholdRaisesHighAlert(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	gateway := &capturingGateway{}
	svc := NewAlertService(repo, &absenceCounter{count: alert.AbsenceHighCount}, gateway)

	require.NoError(t, svc.EvaluateAbsence(context.Background(), "emp-1", testDate))
	al := repo.last(t)
	assert.Equal(t, alert.KindContinuousAbsence, al.Kind)
	assert.Equal(t, alert.SeverityHigh, al.Severity)
	assert.Equal(t, 1, gateway.len())
}

func TestAlerts_WorkWithoutGateway(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	svc := NewAlertService(repo, &absenceCounter{}, nil)

	require.NoError(t, svc.LateArrival(context.Background(), "emp-1", testDate, 10))
	assert.Len(t, repo.alerts, 1)
}

func TestList_EmployeeSeesOnlyOwnAlerts(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	svc := NewAlertService(repo, &absenceCounter{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.LateArrival(ctx, "emp-1", testDate, 10))
	require.NoError(t, svc.LateArrival(ctx, "emp-2", testDate, 40))

	actor := auth.Context{ActorID: "emp-1", EmployeeID: "emp-1", Role: auth.RoleEmployee}
	resp, err := svc.List(ctx, actor, alert.Filter{})
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "emp-1", resp.Alerts[0].EmployeeID)
}

func TestList_AdminSeesEverything(t *testing.T) {
	t.Parallel()
	repo := &fakeAlertRepo{}
	svc := NewAlertService(repo, &absenceCounter{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.LateArrival(ctx, "emp-1", testDate, 10))
	require.NoError(t, svc.LateArrival(ctx, "emp-2", testDate, 40))

	actor := auth.Context{ActorID: "admin-1", EmployeeID: "admin-1", Role: auth.RoleAdmin}
	resp, err := svc.List(ctx, actor, alert.Filter{Severity: alert.SeverityHigh})
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, "emp-2", resp.Alerts[0].EmployeeID)
}
