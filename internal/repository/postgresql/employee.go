package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, time_recorder_id, full_name, classification, status, hire_date, separation_date,
	base_pay, duty_allowance, commute_allowance, standard_monthly, average_monthly_hours,
	fixed_overtime_hours, fixed_overtime_pay,
	nursing_care_insured, pension_insured, employment_insured,
	dependents, withholding_override, resident_tax_monthly, insurance_grade,
	created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.TimeRecorderID, &e.FullName, &e.Classification, &e.Status, &e.HireDate, &e.SeparationDate,
		&e.BasePay, &e.DutyAllowance, &e.CommuteAllowance, &e.StandardMonthly, &e.AverageMonthlyHours,
		&e.FixedOvertimeHours, &e.FixedOvertimePay,
		&e.NursingCareInsured, &e.PensionInsured, &e.EmploymentInsured,
		&e.Dependents, &e.WithholdingOverride, &e.ResidentTaxMonthly, &e.InsuranceGrade,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (r *employeeRepository) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, time_recorder_id, full_name, classification, status, hire_date,
			base_pay, duty_allowance, commute_allowance, standard_monthly, average_monthly_hours,
			fixed_overtime_hours, fixed_overtime_pay,
			nursing_care_insured, pension_insured, employment_insured,
			dependents, withholding_override, resident_tax_monthly, insurance_grade
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING ` + employeeColumns

	row := q.QueryRow(ctx, query,
		emp.ID, emp.TimeRecorderID, emp.FullName, emp.Classification, emp.Status, emp.HireDate,
		emp.BasePay, emp.DutyAllowance, emp.CommuteAllowance, emp.StandardMonthly, emp.AverageMonthlyHours,
		emp.FixedOvertimeHours, emp.FixedOvertimePay,
		emp.NursingCareInsured, emp.PensionInsured, emp.EmploymentInsured,
		emp.Dependents, emp.WithholdingOverride, emp.ResidentTaxMonthly, emp.InsuranceGrade,
	)

	created, err := scanEmployee(row)
	if err != nil {
		if strings.Contains(err.Error(), "uk_employee_time_recorder_id") {
			return employee.Employee{}, employee.ErrTimeRecorderIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			time_recorder_id = $2, full_name = $3, classification = $4, status = $5,
			base_pay = $6, duty_allowance = $7, commute_allowance = $8,
			standard_monthly = $9, average_monthly_hours = $10,
			fixed_overtime_hours = $11, fixed_overtime_pay = $12,
			nursing_care_insured = $13, pension_insured = $14, employment_insured = $15,
			dependents = $16, withholding_override = $17, resident_tax_monthly = $18,
			insurance_grade = $19,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	row := q.QueryRow(ctx, query,
		emp.ID, emp.TimeRecorderID, emp.FullName, emp.Classification, emp.Status,
		emp.BasePay, emp.DutyAllowance, emp.CommuteAllowance,
		emp.StandardMonthly, emp.AverageMonthlyHours,
		emp.FixedOvertimeHours, emp.FixedOvertimePay,
		emp.NursingCareInsured, emp.PensionInsured, emp.EmploymentInsured,
		emp.Dependents, emp.WithholdingOverride, emp.ResidentTaxMonthly,
		emp.InsuranceGrade,
	)

	updated, err := scanEmployee(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) GetByTimeRecorderID(ctx context.Context, timeRecorderID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	// Active rows take priority; a separated employee's old id may be
	// reassigned to a successor.
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE time_recorder_id = $1
		ORDER BY (status = 'active') DESC, updated_at DESC
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, timeRecorderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by time recorder id: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context, activeOnly bool) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees`
	if activeOnly {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY full_name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) Retire(ctx context.Context, id string, separationDate string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET status = 'separated', separation_date = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, separationDate)
	if err != nil {
		return fmt.Errorf("failed to retire employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
