package employee

import (
	"context"
	"testing"
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
}

func (f *fakeEmployeeRepo) Create(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	f.employees[emp.ID] = emp
	return emp, nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, emp employee.Employee) (employee.Employee, error) {
	f.employees[emp.ID] = emp
	return emp, nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if emp, ok := f.employees[id]; ok {
		return emp, nil
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

func (f *fakeEmployeeRepo) Retire(_ context.Context, id, separationDate string) error {
	emp, ok := f.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.Status = employee.StatusSeparated
	date, _ := validator.IsValidDate(separationDate)
	emp.SeparationDate = &date
	f.employees[id] = emp
	return nil
}

type fakeConfigRepo struct{}

func (fakeConfigRepo) GetEffective(_ context.Context, _ time.Time) (rates.Config, error) {
	return rates.Config{}, rates.ErrConfigNotFound
}

func (fakeConfigRepo) Save(_ context.Context, cfg rates.Config) (rates.Config, error) {
	return cfg, nil
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		TimeRecorderID:      "101",
		FullName:            "佐藤一郎",
		Classification:      "regular",
		HireDate:            "2024-04-01",
		BasePay:             d("210000"),
		DutyAllowance:       d("10000"),
		StandardMonthly:     d("220000"),
		AverageMonthlyHours: d("173"),
		PensionInsured:      true,
		EmploymentInsured:   true,
	}
}

func TestCreateEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	resp, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "101", resp.TimeRecorderID)
	assert.Equal(t, "active", resp.Status)
	// Grade derived from the standard monthly remuneration table.
	assert.Equal(t, 18, resp.InsuranceGrade)
}

func TestCreateEmployeeOffTableStandardMonthly(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	req := createRequest()
	req.StandardMonthly = d("221000")
	resp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	// 221000 is not an exact table value; the band containing it wins.
	assert.Equal(t, 18, resp.InsuranceGrade)
}

func TestCreateEmployeeRejectsDuplicateTimeRecorderID(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	_, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.FullName = "別の人"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, employee.ErrTimeRecorderIDExists)
}

func TestCreateEmployeeAllowsReusingSeparatedID(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	first, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Retire(context.Background(), first.ID, "2026-03-31"))

	req := createRequest()
	req.FullName = "後任者"
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), fakeConfigRepo{})

	tests := []struct {
		name   string
		mutate func(*employee.CreateEmployeeRequest)
		field  string
	}{
		{"missing name", func(r *employee.CreateEmployeeRequest) { r.FullName = " " }, "full_name"},
		{"bad classification", func(r *employee.CreateEmployeeRequest) { r.Classification = "intern" }, "classification"},
		{"bad hire date", func(r *employee.CreateEmployeeRequest) { r.HireDate = "01-04-2024" }, "hire_date"},
		{"zero average hours", func(r *employee.CreateEmployeeRequest) { r.AverageMonthlyHours = decimal.Zero }, "average_monthly_hours"},
		{"officer with employment insurance", func(r *employee.CreateEmployeeRequest) {
			r.Classification = "officer"
			r.EmploymentInsured = true
		}, "employment_insured"},
		{"insured without standard monthly", func(r *employee.CreateEmployeeRequest) {
			r.StandardMonthly = decimal.Zero
		}, "standard_monthly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := createRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.field)
		})
	}
}

func TestUpdateEmployeeMergesFields(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	newPay := d("250000")
	newSMR := d("260000")
	resp, err := svc.Update(context.Background(), employee.UpdateEmployeeRequest{
		ID:              created.ID,
		BasePay:         &newPay,
		StandardMonthly: &newSMR,
	})
	require.NoError(t, err)

	assert.True(t, resp.BasePay.Equal(newPay))
	assert.Equal(t, "佐藤一郎", resp.FullName, "untouched fields are preserved")
	// Regraded from the new standard monthly (250000–270000 band).
	assert.Equal(t, 20, resp.InsuranceGrade)
}

func TestUpdateEmployeeRejectsOfficerEmploymentCombination(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	// The merged record would be an employment-insured officer.
	officer := "officer"
	_, err = svc.Update(context.Background(), employee.UpdateEmployeeRequest{
		ID:             created.ID,
		Classification: &officer,
	})
	assert.ErrorIs(t, err, employee.ErrOfficerEmploymentInsurance)
}

func TestRetireEmployee(t *testing.T) {
	repo := newFakeEmployeeRepo()
	svc := NewEmployeeService(repo, fakeConfigRepo{})

	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Retire(context.Background(), created.ID, "2026-03-31"))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "separated", got.Status)
	require.NotNil(t, got.SeparationDate)
	assert.Equal(t, "2026-03-31", *got.SeparationDate)

	assert.ErrorIs(t, svc.Retire(context.Background(), created.ID, "2026-04-30"), employee.ErrEmployeeAlreadySeparated)

	listed, err := svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Zero(t, listed.TotalCount)
}

func TestRetireRejectsBadDate(t *testing.T) {
	svc := NewEmployeeService(newFakeEmployeeRepo(), fakeConfigRepo{})
	err := svc.Retire(context.Background(), "emp-1", "31/03/2026")
	assert.Error(t, err)
}
