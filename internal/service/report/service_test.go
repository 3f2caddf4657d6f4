package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/timecalc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empAyu  = "5f0c1b2a-9d3e-4f6a-8b7c-0d1e2f3a4b5c"
	empBudi = "7a1d2c3b-0e4f-4a5b-9c8d-1e2f3a4b5c6d"
)

// fakeExportRepo serves List with date-range filtering and page slicing; the
// other repository methods are unused by exports.
type fakeExportRepo struct {
	records   []attendance.Record
	listCalls int
}

func (f *fakeExportRepo) List(_ context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	f.listCalls++

	var matched []attendance.Record
	for _, rec := range f.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.DepartmentID != nil && (rec.DepartmentName == nil || *rec.DepartmentName != *filter.DepartmentID) {
			continue
		}
		if filter.StartDate != nil && rec.Date.Format("2006-01-02") < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && rec.Date.Format("2006-01-02") > *filter.EndDate {
			continue
		}
		matched = append(matched, rec)
	}

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeExportRepo) InsertCheckIn(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeExportRepo) CompleteCheckOut(context.Context, attendance.Record) error { return nil }

func (f *fakeExportRepo) UpsertAdministrative(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (f *fakeExportRepo) GetByID(context.Context, string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (f *fakeExportRepo) GetByEmployeeAndDate(context.Context, string, time.Time) (*attendance.Record, error) {
	return nil, nil
}

func (f *fakeExportRepo) ListRange(context.Context, string, time.Time, time.Time) ([]attendance.Record, error) {
	return nil, nil
}

func (f *fakeExportRepo) CountAbsences(context.Context, string, time.Time, time.Time) (int, error) {
	return 0, nil
}

func (f *fakeExportRepo) Delete(context.Context, string) error { return nil }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func fullRecord() attendance.Record {
	return attendance.Record{
		ID:             "rec-1",
		EmployeeID:     empAyu,
		EmployeeName:   strPtr("Ayu Lestari"),
		EmployeeCode:   strPtr("EMP001"),
		DepartmentName: strPtr("Engineering"),
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CheckIn:        timePtr(time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC)),
		CheckOut:       timePtr(time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)),
		Status:         timecalc.StatusPresent,
		WorkingMinutes: 445,
		LocationName:   strPtr("Jakarta HQ"),
	}
}

var (
	adminActor = auth.Context{ActorID: "admin-1", EmployeeID: "admin-1", Role: auth.RoleAdmin}
	exportReq  = report.ExportRequest{StartDate: "2026-03-01", EndDate: "2026-03-31"}
)

func TestFormatWorkingHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{59, "0h 59m"},
		{60, "1h 0m"},
		{445, "7h 25m"},
		{-30, "0h 0m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWorkingHours(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestExport_RowFormatting(t *testing.T) {
	t.Parallel()
	repo := &fakeExportRepo{records: []attendance.Record{fullRecord()}}
	svc := NewReportService(repo, time.UTC)

	resp, err := svc.Export(context.Background(), adminActor, exportReq)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	row := resp.Rows[0]
	assert.Equal(t, "2026-03-02", row.Date)
	assert.Equal(t, "Ayu Lestari", row.EmployeeName)
	assert.Equal(t, "EMP001", row.EmployeeCode)
	assert.Equal(t, "Engineering", row.Department)
	assert.Equal(t, "09:05:00", row.CheckIn)
	assert.Equal(t, "17:30:00", row.CheckOut)
	assert.Equal(t, "7h 25m", row.WorkingHours)
	assert.Equal(t, "present", row.Status)
	assert.Equal(t, "Jakarta HQ", row.Location)
	assert.Equal(t, "-", row.Notes)
}

func TestExport_MissingFieldsRenderAsDash(t *testing.T) {
	t.Parallel()
	rec := attendance.Record{
		ID:         "rec-2",
		EmployeeID: empAyu,
		Date:       time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		Status:     timecalc.StatusAbsent,
	}
	repo := &fakeExportRepo{records: []attendance.Record{rec}}
	svc := NewReportService(repo, time.UTC)

	resp, err := svc.Export(context.Background(), adminActor, exportReq)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)

	row := resp.Rows[0]
	assert.Equal(t, "-", row.EmployeeName)
	assert.Equal(t, "-", row.CheckIn)
	assert.Equal(t, "-", row.CheckOut)
	assert.Equal(t, "-", row.Location)
	assert.Equal(t, "0h 0m", row.WorkingHours)
}

func TestExport_RendersTimesInLocalZone(t *testing.T) {
	t.Parallel()
	jakarta := time.FixedZone("WIB", 7*3600)
	repo := &fakeExportRepo{records: []attendance.Record{fullRecord()}}
	svc := NewReportService(repo, jakarta)

	resp, err := svc.Export(context.Background(), adminActor, exportReq)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "16:05:00", resp.Rows[0].CheckIn)
}

func TestExport_EmployeeScopedToOwnRecords(t *testing.T) {
	t.Parallel()
	other := fullRecord()
	other.ID = "rec-other"
	other.EmployeeID = empBudi
	repo := &fakeExportRepo{records: []attendance.Record{fullRecord(), other}}
	svc := NewReportService(repo, time.UTC)

	actor := auth.Context{ActorID: empAyu, EmployeeID: empAyu, Role: auth.RoleEmployee}

	// Asking for someone else's records is refused outright.
	req := exportReq
	req.EmployeeID = empBudi
	_, err := svc.Export(context.Background(), actor, req)
	assert.ErrorIs(t, err, attendance.ErrNotOwnRecord)

	// Without an explicit employee the export clamps to the actor.
	resp, err := svc.Export(context.Background(), actor, exportReq)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Ayu Lestari", resp.Rows[0].EmployeeName)
}

func TestExport_ManagerClampedToOwnDepartment(t *testing.T) {
	t.Parallel()
	sales := fullRecord()
	sales.ID = "rec-sales"
	sales.EmployeeID = empBudi
	sales.DepartmentName = strPtr("Sales")
	repo := &fakeExportRepo{records: []attendance.Record{fullRecord(), sales}}
	svc := NewReportService(repo, time.UTC)

	manager := auth.Context{ActorID: "mgr-1", EmployeeID: "mgr-1", Role: auth.RoleManager, DepartmentID: "Engineering"}

	req := exportReq
	req.DepartmentID = "Sales"
	resp, err := svc.Export(context.Background(), manager, req)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Engineering", resp.Rows[0].Department)
}

func TestExport_DrainsAllPages(t *testing.T) {
	t.Parallel()
	repo := &fakeExportRepo{}
	for d := 0; d < 3; d++ {
		for i := 0; i < 50; i++ {
			repo.records = append(repo.records, attendance.Record{
				ID:         fmt.Sprintf("rec-%d-%d", d, i),
				EmployeeID: empAyu,
				Date:       time.Date(2026, 3, 2+d, 0, 0, 0, 0, time.UTC),
				Status:     timecalc.StatusPresent,
			})
		}
	}
	svc := NewReportService(repo, time.UTC)

	resp, err := svc.Export(context.Background(), adminActor, exportReq)
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 150)
	assert.GreaterOrEqual(t, repo.listCalls, 2)
}

func TestExport_RejectsInvertedRange(t *testing.T) {
	t.Parallel()
	svc := NewReportService(&fakeExportRepo{}, time.UTC)

	_, err := svc.Export(context.Background(), adminActor, report.ExportRequest{
		StartDate: "2026-03-31",
		EndDate:   "2026-03-01",
	})
	assert.Error(t, err)
}

func TestExportCSV_HeaderAndRows(t *testing.T) {
	t.Parallel()
	repo := &fakeExportRepo{records: []attendance.Record{fullRecord()}}
	svc := NewReportService(repo, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), adminActor, exportReq, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Working Hours", rows[0][6])
	assert.Equal(t, []string{
		"2026-03-02", "Ayu Lestari", "EMP001", "Engineering",
		"09:05:00", "17:30:00", "7h 25m", "present",
		"0", "0", "0", "Jakarta HQ", "-",
	}, rows[1])
}

func TestExportCSV_EmptyRangeStillWritesHeader(t *testing.T) {
	t.Parallel()
	svc := NewReportService(&fakeExportRepo{}, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), adminActor, exportReq, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
