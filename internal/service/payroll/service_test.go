package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
	updated   []employee.Employee
}

func (f *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	f.employees = append(f.employees, emp)
	return emp, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	f.updated = append(f.updated, emp)
	for i := range f.employees {
		if f.employees[i].ID == emp.ID {
			f.employees[i] = emp
		}
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByTimeRecorderID(_ context.Context, trid string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.TimeRecorderID == trid {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) List(_ context.Context, activeOnly bool) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if activeOnly && !emp.IsActive() {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

func (f *fakeEmployeeRepo) Retire(_ context.Context, id, _ string) error {
	for i := range f.employees {
		if f.employees[i].ID == id {
			f.employees[i].Status = employee.StatusSeparated
			return nil
		}
	}
	return employee.ErrEmployeeNotFound
}

type fakeAggregateRepo struct {
	months map[string]map[string]attendance.MonthlyAggregate
}

func (f *fakeAggregateRepo) ReplaceMonth(_ context.Context, month string, aggs map[string]attendance.MonthlyAggregate) error {
	if f.months == nil {
		f.months = make(map[string]map[string]attendance.MonthlyAggregate)
	}
	f.months[month] = aggs
	return nil
}

func (f *fakeAggregateRepo) GetMonth(_ context.Context, month string) (map[string]attendance.MonthlyAggregate, error) {
	if aggs, ok := f.months[month]; ok {
		return aggs, nil
	}
	return map[string]attendance.MonthlyAggregate{}, nil
}

func (f *fakeAggregateRepo) UpdateAdjustments(_ context.Context, _, _ string, _ attendance.MonthlyAdjustmentRequest) error {
	return nil
}

func (f *fakeAggregateRepo) Upsert(_ context.Context, month, employeeID string, agg attendance.MonthlyAggregate) error {
	if f.months == nil {
		f.months = make(map[string]map[string]attendance.MonthlyAggregate)
	}
	if f.months[month] == nil {
		f.months[month] = make(map[string]attendance.MonthlyAggregate)
	}
	f.months[month][employeeID] = agg
	return nil
}

type fakeQuarantineRepo struct {
	pending map[string]int
}

func (f *fakeQuarantineRepo) Upsert(_ context.Context, e attendance.QuarantineEntry) (attendance.QuarantineEntry, error) {
	return e, nil
}

func (f *fakeQuarantineRepo) GetByKey(_ context.Context, _ string) (attendance.QuarantineEntry, error) {
	return attendance.QuarantineEntry{}, attendance.ErrQuarantineEntryNotFound
}

func (f *fakeQuarantineRepo) List(_ context.Context, _ string) ([]attendance.QuarantineEntry, error) {
	return nil, nil
}

func (f *fakeQuarantineRepo) CountPending(_ context.Context, month string) (int, error) {
	return f.pending[month], nil
}

func (f *fakeQuarantineRepo) Resolve(_ context.Context, _, _ string) error { return nil }

type fakeSnapshotRepo struct {
	snapshots map[string]payroll.Snapshot
	putErr    error
}

func (f *fakeSnapshotRepo) Get(_ context.Context, month string) (payroll.Snapshot, error) {
	if s, ok := f.snapshots[month]; ok {
		return s, nil
	}
	return payroll.Snapshot{}, payroll.ErrSnapshotNotFound
}

func (f *fakeSnapshotRepo) Put(_ context.Context, s payroll.Snapshot) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.snapshots == nil {
		f.snapshots = make(map[string]payroll.Snapshot)
	}
	f.snapshots[s.Month] = s
	return nil
}

func (f *fakeSnapshotRepo) ListRange(_ context.Context, from, to string) (map[string]payroll.Snapshot, error) {
	out := make(map[string]payroll.Snapshot)
	for month, s := range f.snapshots {
		if month >= from && month <= to {
			out[month] = s
		}
	}
	return out, nil
}

func (f *fakeSnapshotRepo) SetConfirmed(_ context.Context, month string, confirmed bool) error {
	s, ok := f.snapshots[month]
	if !ok {
		return payroll.ErrSnapshotNotFound
	}
	s.Confirmed = confirmed
	f.snapshots[month] = s
	return nil
}

type fakeConfigRepo struct{}

func (fakeConfigRepo) GetEffective(_ context.Context, _ time.Time) (rates.Config, error) {
	return rates.Config{}, rates.ErrConfigNotFound
}

func (fakeConfigRepo) Save(_ context.Context, cfg rates.Config) (rates.Config, error) {
	return cfg, nil
}

func newTestService(employees []employee.Employee) (payroll.PayrollService, *fakeEmployeeRepo, *fakeAggregateRepo, *fakeQuarantineRepo, *fakeSnapshotRepo) {
	empRepo := &fakeEmployeeRepo{employees: employees}
	aggRepo := &fakeAggregateRepo{}
	qRepo := &fakeQuarantineRepo{pending: map[string]int{}}
	snapRepo := &fakeSnapshotRepo{snapshots: map[string]payroll.Snapshot{}}
	svc := NewPayrollService(empRepo, aggRepo, qRepo, snapRepo, fakeConfigRepo{})
	return svc, empRepo, aggRepo, qRepo, snapRepo
}

func testRoster() []employee.Employee {
	a := regularEmployee()
	a.ID = "emp-a"
	a.TimeRecorderID = "101"
	b := regularEmployee()
	b.ID = "emp-b"
	b.TimeRecorderID = "102"
	b.FullName = "鈴木花子"
	return []employee.Employee{a, b}
}

func TestRunBlockedByPendingQuarantine(t *testing.T) {
	svc, _, _, qRepo, snapRepo := newTestService(testRoster())
	qRepo.pending["2026-04"] = 2

	_, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})

	assert.ErrorIs(t, err, payroll.ErrQuarantineNotEmpty)
	assert.Empty(t, snapRepo.snapshots, "no snapshot may be written while blocked")
}

func TestRunRefusesConfirmedMonth(t *testing.T) {
	svc, _, _, _, snapRepo := newTestService(testRoster())
	snapRepo.snapshots["2026-04"] = payroll.Snapshot{Month: "2026-04", Confirmed: true}

	_, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	assert.ErrorIs(t, err, payroll.ErrMonthConfirmed)
}

func TestRunComputesAllActiveEmployees(t *testing.T) {
	roster := testRoster()
	separated := regularEmployee()
	separated.ID = "emp-z"
	separated.Status = employee.StatusSeparated
	roster = append(roster, separated)

	svc, _, aggRepo, _, snapRepo := newTestService(roster)
	aggRepo.months = map[string]map[string]attendance.MonthlyAggregate{
		"2026-04": {
			"emp-a": {Month: "2026-04", StatutoryOvertimeMinutes: 600},
			// emp-b has no synced aggregate: still computed, zero overtime.
		},
	}

	resp, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.True(t, resp.SnapshotStored)
	assert.Equal(t, "emp-a", resp.Results[0].EmployeeID)
	assert.Equal(t, "emp-b", resp.Results[1].EmployeeID)
	assert.True(t, resp.Results[0].OvertimePay.Equal(d("15896")))
	assert.True(t, resp.Results[1].OvertimePay.IsZero())

	snapshot, ok := snapRepo.snapshots["2026-04"]
	require.True(t, ok)
	assert.Len(t, snapshot.Results, 2)
	assert.False(t, snapshot.Confirmed)
}

func TestRunReturnsResultsWhenSnapshotWriteFails(t *testing.T) {
	svc, _, _, _, snapRepo := newTestService(testRoster())
	snapRepo.putErr = errors.New("disk full")

	resp, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	require.NoError(t, err)

	assert.False(t, resp.SnapshotStored)
	assert.Len(t, resp.Results, 2)
}

func TestRunRecomputeOverwritesUnconfirmedSnapshot(t *testing.T) {
	svc, _, aggRepo, _, snapRepo := newTestService(testRoster())

	_, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	require.NoError(t, err)
	first := snapRepo.snapshots["2026-04"]

	aggRepo.months = map[string]map[string]attendance.MonthlyAggregate{
		"2026-04": {"emp-a": {Month: "2026-04", StatutoryOvertimeMinutes: 300}},
	}
	_, err = svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	require.NoError(t, err)
	second := snapRepo.snapshots["2026-04"]

	assert.False(t, first.Results[0].Gross.Equal(second.Results[0].Gross))
}

func TestConfirmAndUnlock(t *testing.T) {
	svc, _, _, _, snapRepo := newTestService(testRoster())
	_, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	require.NoError(t, err)

	require.NoError(t, svc.Confirm(context.Background(), "2026-04"))
	assert.True(t, snapRepo.snapshots["2026-04"].Confirmed)

	_, err = svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	assert.ErrorIs(t, err, payroll.ErrMonthConfirmed)

	require.NoError(t, svc.Unlock(context.Background(), "2026-04"))
	_, err = svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "2026-04"})
	assert.NoError(t, err)
}

func TestRunRejectsMalformedMonth(t *testing.T) {
	svc, _, _, _, _ := newTestService(testRoster())

	_, err := svc.Run(context.Background(), payroll.RunPayrollRequest{Month: "April 2026"})
	assert.Error(t, err)
}

func snapshotWithGross(month, employeeID, gross string) payroll.Snapshot {
	return payroll.Snapshot{
		Month:   month,
		Results: []payroll.Result{{EmployeeID: employeeID, Gross: d(gross)}},
	}
}

func TestRegradeAveragesOnlyPresentMonths(t *testing.T) {
	roster := testRoster()[:1] // emp-a, grade unset
	roster[0].InsuranceGrade = 18
	roster[0].StandardMonthly = d("220000")

	svc, empRepo, _, _, snapRepo := newTestService(roster)
	// Window for 2026-07 is 2026-04..2026-06; May has no snapshot.
	snapRepo.snapshots["2026-04"] = snapshotWithGross("2026-04", "emp-a", "280000")
	snapRepo.snapshots["2026-06"] = snapshotWithGross("2026-06", "emp-a", "300000")

	resp, err := svc.Regrade(context.Background(), payroll.RegradeRequest{TargetMonth: "2026-07"})
	require.NoError(t, err)

	assert.Equal(t, []string{"2026-04", "2026-05", "2026-06"}, resp.Window)
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	// (280000 + 300000) / 2 months present, not 3.
	assert.True(t, r.AverageGross.Equal(d("290000")), "got %s", r.AverageGross)
	assert.Equal(t, 2, r.MonthsAveraged)
	assert.Equal(t, 18, r.PreviousGrade)
	assert.Equal(t, 22, r.NewGrade)
	assert.True(t, r.StandardMonthly.Equal(d("300000")))
	assert.True(t, r.Changed)

	require.Len(t, empRepo.updated, 1)
	assert.Equal(t, 22, empRepo.updated[0].InsuranceGrade)
	assert.True(t, empRepo.updated[0].StandardMonthly.Equal(d("300000")))
}

func TestRegradeKeepsGradeWithoutSnapshots(t *testing.T) {
	roster := testRoster()[:1]
	roster[0].InsuranceGrade = 18

	svc, empRepo, _, _, _ := newTestService(roster)

	resp, err := svc.Regrade(context.Background(), payroll.RegradeRequest{TargetMonth: "2026-07"})
	require.NoError(t, err)

	require.Len(t, resp.Results, 1)
	assert.Equal(t, 18, resp.Results[0].NewGrade)
	assert.False(t, resp.Results[0].Changed)
	assert.Zero(t, resp.Results[0].MonthsAveraged)
	assert.Empty(t, empRepo.updated)
}

func TestRegradeUnchangedGradeIsNotPersisted(t *testing.T) {
	roster := testRoster()[:1]
	roster[0].InsuranceGrade = 18
	roster[0].StandardMonthly = d("220000")

	svc, empRepo, _, _, snapRepo := newTestService(roster)
	// Average 220000 stays inside grade 18 (210000–230000).
	snapRepo.snapshots["2026-04"] = snapshotWithGross("2026-04", "emp-a", "220000")

	resp, err := svc.Regrade(context.Background(), payroll.RegradeRequest{TargetMonth: "2026-07"})
	require.NoError(t, err)

	assert.False(t, resp.Results[0].Changed)
	assert.Empty(t, empRepo.updated)
}
