package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/alert"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
)

type AlertServiceImpl struct {
	alert.Repository
	attendanceRepo attendance.Repository
	gateway        notification.Gateway
}

func (a *AlertServiceImpl) notify(ctx context.Context, employeeID, kind, title, body string, data map[string]interface{}) {
	if a.gateway == nil {
		return
	}
	msg := notification.Message{
		RecipientID: employeeID,
		Kind:        kind,
		Title:       title,
		Body:        body,
		Data:        data,
	}
	if err := a.gateway.Publish(ctx, msg); err != nil {
		slog.Warn("Failed to publish alert notification", "employee_id", employeeID, "kind", kind, "error", err)
	}
}

// LateArrival implements alert.Service.
func (a *AlertServiceImpl) LateArrival(ctx context.Context, employeeID string, date time.Time, minutes int) error {
	severity := alert.SeverityMedium
	if minutes > alert.LateHighSeverityMinutes {
		severity = alert.SeverityHigh
	}

	al := alert.Alert{
		EmployeeID: employeeID,
		Kind:       alert.KindLateArrival,
		Severity:   severity,
		Date:       date,
		Message:    fmt.Sprintf("Checked in %d minutes late", minutes),
		Minutes:    minutes,
	}
	if err := a.Repository.Create(ctx, &al); err != nil {
		return err
	}

	a.notify(ctx, employeeID, notification.KindLateArrival, "Late arrival recorded", al.Message, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"minutes": minutes,
	})

	return nil
}

// EarlyDeparture implements alert.Service.
func (a *AlertServiceImpl) EarlyDeparture(ctx context.Context, employeeID string, date time.Time, minutes int) error {
	severity := alert.SeverityMedium
	if minutes > alert.EarlyHighSeverityMinutes {
		severity = alert.SeverityHigh
	}

	al := alert.Alert{
		EmployeeID: employeeID,
		Kind:       alert.KindEarlyDeparture,
		Severity:   severity,
		Date:       date,
		Message:    fmt.Sprintf("Checked out %d minutes early", minutes),
		Minutes:    minutes,
	}
	if err := a.Repository.Create(ctx, &al); err != nil {
		return err
	}

	a.notify(ctx, employeeID, notification.KindEarlyDeparture, "Early departure recorded", al.Message, map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"minutes": minutes,
	})

	return nil
}

// EvaluateAbsence implements alert.Service.
func (a *AlertServiceImpl) EvaluateAbsence(ctx context.Context, employeeID string, date time.Time) error {
	start := date.AddDate(0, 0, -(alert.AbsenceWindowDays - 1))

	count, err := a.attendanceRepo.CountAbsences(ctx, employeeID, start, date)
	if err != nil {
		return err
	}

	if count < alert.AbsenceHighCount {
		return nil
	}

	al := alert.Alert{
		EmployeeID: employeeID,
		Kind:       alert.KindContinuousAbsence,
		Severity:   alert.SeverityHigh,
		Date:       date,
		Message:    fmt.Sprintf("%d absences recorded in the last %d days", count, alert.AbsenceWindowDays),
	}
	if err := a.Repository.Create(ctx, &al); err != nil {
		return err
	}

	a.notify(ctx, employeeID, notification.KindContinuousAbsence, "Repeated absences", al.Message, map[string]interface{}{
		"date":  date.Format("2006-01-02"),
		"count": count,
	})

	return nil
}

// List implements alert.Service.
func (a *AlertServiceImpl) List(ctx context.Context, actor auth.Context, filter alert.Filter) (alert.ListResponse, error) {
	filter.SetDefaults()

	// Managers see their department only; employees see themselves.
	switch actor.Role {
	case auth.RoleAdmin:
	case auth.RoleManager:
		filter.DepartmentID = actor.DepartmentID
	default:
		filter.EmployeeID = actor.EmployeeID
	}

	alerts, total, err := a.Repository.List(ctx, filter)
	if err != nil {
		return alert.ListResponse{}, err
	}

	return alert.ListResponse{
		Alerts: alerts,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}, nil
}

func NewAlertService(
	repo alert.Repository,
	attendanceRepo attendance.Repository,
	gateway notification.Gateway,
) alert.Service {
	return &AlertServiceImpl{
		Repository:     repo,
		attendanceRepo: attendanceRepo,
		gateway:        gateway,
	}
}
