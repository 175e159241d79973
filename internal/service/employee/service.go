package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	ratesService "github.com/paylane-hq/payroll-backend-go/internal/service/rates"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	configRepo   rates.ConfigRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, configRepo rates.ConfigRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		configRepo:   configRepo,
	}
}

func (s *EmployeeServiceImpl) ratesConfig(ctx context.Context) rates.Config {
	cfg, err := s.configRepo.GetEffective(ctx, time.Now())
	if err != nil {
		if !errors.Is(err, rates.ErrConfigNotFound) {
			slog.Warn("loading rate configuration failed, using built-in defaults", "error", err)
		}
		return rates.DefaultConfig()
	}
	return cfg
}

// resolveGrade derives the insurance grade from a standard monthly
// remuneration value. Off-table values fall back to the band containing
// the amount rather than failing, since manually entered values may lag
// a grade table revision.
func (s *EmployeeServiceImpl) resolveGrade(ctx context.Context, standardMonthly decimal.Decimal) (int, error) {
	cfg := s.ratesConfig(ctx)

	grade, err := ratesService.GradeForStandardMonthly(cfg, standardMonthly)
	if errors.Is(err, rates.ErrGradeNotOnTable) {
		slog.Warn("standard monthly remuneration not on grade table, using containing band", "value", standardMonthly)
		grade, err = ratesService.GradeForAmount(cfg, standardMonthly)
	}
	if err != nil {
		return 0, err
	}
	return grade.Grade, nil
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if existing, err := s.employeeRepo.GetByTimeRecorderID(ctx, req.TimeRecorderID); err == nil && existing.IsActive() {
		return employee.EmployeeResponse{}, employee.ErrTimeRecorderIDExists
	} else if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.EmployeeResponse{}, fmt.Errorf("check time recorder id: %w", err)
	}

	hireDate, _ := validator.IsValidDate(req.HireDate)
	emp := employee.Employee{
		ID:                  uuid.NewString(),
		TimeRecorderID:      req.TimeRecorderID,
		FullName:            req.FullName,
		Classification:      employee.Classification(req.Classification),
		Status:              employee.StatusActive,
		HireDate:            hireDate,
		BasePay:             req.BasePay,
		DutyAllowance:       req.DutyAllowance,
		CommuteAllowance:    req.CommuteAllowance,
		StandardMonthly:     req.StandardMonthly,
		AverageMonthlyHours: req.AverageMonthlyHours,
		FixedOvertimeHours:  req.FixedOvertimeHours,
		FixedOvertimePay:    req.FixedOvertimePay,
		NursingCareInsured:  req.NursingCareInsured,
		PensionInsured:      req.PensionInsured,
		EmploymentInsured:   req.EmploymentInsured,
		Dependents:          req.Dependents,
		WithholdingOverride: req.WithholdingOverride,
		ResidentTaxMonthly:  req.ResidentTaxMonthly,
	}

	if emp.StandardMonthly.IsPositive() {
		grade, err := s.resolveGrade(ctx, emp.StandardMonthly)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		emp.InsuranceGrade = grade
	}

	created, err := s.employeeRepo.Create(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("create employee: %w", err)
	}

	slog.Info("employee created", "employee_id", created.ID, "time_recorder_id", created.TimeRecorderID)
	return toEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) Update(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.TimeRecorderID != nil && *req.TimeRecorderID != emp.TimeRecorderID {
		if existing, err := s.employeeRepo.GetByTimeRecorderID(ctx, *req.TimeRecorderID); err == nil && existing.IsActive() && existing.ID != emp.ID {
			return employee.EmployeeResponse{}, employee.ErrTimeRecorderIDExists
		} else if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, fmt.Errorf("check time recorder id: %w", err)
		}
		emp.TimeRecorderID = *req.TimeRecorderID
	}
	if req.FullName != nil {
		emp.FullName = *req.FullName
	}
	if req.Classification != nil {
		emp.Classification = employee.Classification(*req.Classification)
	}
	if req.BasePay != nil {
		emp.BasePay = *req.BasePay
	}
	if req.DutyAllowance != nil {
		emp.DutyAllowance = *req.DutyAllowance
	}
	if req.CommuteAllowance != nil {
		emp.CommuteAllowance = *req.CommuteAllowance
	}
	if req.AverageMonthlyHours != nil {
		emp.AverageMonthlyHours = *req.AverageMonthlyHours
	}
	if req.FixedOvertimeHours != nil {
		emp.FixedOvertimeHours = *req.FixedOvertimeHours
	}
	if req.FixedOvertimePay != nil {
		emp.FixedOvertimePay = *req.FixedOvertimePay
	}
	if req.NursingCareInsured != nil {
		emp.NursingCareInsured = *req.NursingCareInsured
	}
	if req.PensionInsured != nil {
		emp.PensionInsured = *req.PensionInsured
	}
	if req.EmploymentInsured != nil {
		emp.EmploymentInsured = *req.EmploymentInsured
	}
	if req.Dependents != nil {
		emp.Dependents = *req.Dependents
	}
	if req.WithholdingOverride != nil {
		emp.WithholdingOverride = req.WithholdingOverride
	}
	if req.ResidentTaxMonthly != nil {
		emp.ResidentTaxMonthly = *req.ResidentTaxMonthly
	}
	if req.StandardMonthly != nil {
		emp.StandardMonthly = *req.StandardMonthly
		if emp.StandardMonthly.IsPositive() {
			grade, err := s.resolveGrade(ctx, emp.StandardMonthly)
			if err != nil {
				return employee.EmployeeResponse{}, err
			}
			emp.InsuranceGrade = grade
		} else {
			emp.InsuranceGrade = 0
		}
	}

	// The cross-field rule has to hold on the merged record, not just on
	// the fields this request touched.
	if emp.Classification == employee.ClassificationOfficer && emp.EmploymentInsured {
		return employee.EmployeeResponse{}, employee.ErrOfficerEmploymentInsurance
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("update employee: %w", err)
	}
	return toEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toEmployeeResponse(emp), nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, activeOnly bool) (employee.ListEmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx, activeOnly)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{TotalCount: len(employees)}
	for _, emp := range employees {
		resp.Data = append(resp.Data, toEmployeeResponse(emp))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) Retire(ctx context.Context, id string, separationDate string) error {
	if _, ok := validator.IsValidDate(separationDate); !ok {
		return validator.ValidationErrors{{Field: "separation_date", Message: "must be a valid date (YYYY-MM-DD)"}}
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !emp.IsActive() {
		return employee.ErrEmployeeAlreadySeparated
	}

	if err := s.employeeRepo.Retire(ctx, id, separationDate); err != nil {
		return fmt.Errorf("retire employee: %w", err)
	}
	slog.Info("employee retired", "employee_id", id, "separation_date", separationDate)
	return nil
}

func toEmployeeResponse(emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:                  emp.ID,
		TimeRecorderID:      emp.TimeRecorderID,
		FullName:            emp.FullName,
		Classification:      string(emp.Classification),
		Status:              string(emp.Status),
		HireDate:            emp.HireDate.Format(time.DateOnly),
		BasePay:             emp.BasePay,
		DutyAllowance:       emp.DutyAllowance,
		CommuteAllowance:    emp.CommuteAllowance,
		StandardMonthly:     emp.StandardMonthly,
		AverageMonthlyHours: emp.AverageMonthlyHours,
		FixedOvertimeHours:  emp.FixedOvertimeHours,
		FixedOvertimePay:    emp.FixedOvertimePay,
		NursingCareInsured:  emp.NursingCareInsured,
		PensionInsured:      emp.PensionInsured,
		EmploymentInsured:   emp.EmploymentInsured,
		Dependents:          emp.Dependents,
		WithholdingOverride: emp.WithholdingOverride,
		ResidentTaxMonthly:  emp.ResidentTaxMonthly,
		InsuranceGrade:      emp.InsuranceGrade,
	}
	if emp.SeparationDate != nil {
		d := emp.SeparationDate.Format(time.DateOnly)
		resp.SeparationDate = &d
	}
	return resp
}
