package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
	ratesService "github.com/paylane-hq/payroll-backend-go/internal/service/rates"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// regradeWindowMonths is the averaging window for periodic standard
// monthly remuneration revision.
const regradeWindowMonths = 3

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	aggregateRepo  attendance.AggregateRepository
	quarantineRepo attendance.QuarantineRepository
	snapshotRepo   payroll.SnapshotRepository
	configRepo     rates.ConfigRepository
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	aggregateRepo attendance.AggregateRepository,
	quarantineRepo attendance.QuarantineRepository,
	snapshotRepo payroll.SnapshotRepository,
	configRepo rates.ConfigRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		aggregateRepo:  aggregateRepo,
		quarantineRepo: quarantineRepo,
		snapshotRepo:   snapshotRepo,
		configRepo:     configRepo,
	}
}

func (s *PayrollServiceImpl) effectiveConfig(ctx context.Context, month time.Time) rates.Config {
	cfg, err := s.configRepo.GetEffective(ctx, month)
	if err != nil {
		if !errors.Is(err, rates.ErrConfigNotFound) {
			slog.Warn("loading rate configuration failed, using built-in defaults", "error", err)
		}
		return rates.DefaultConfig()
	}
	return cfg
}

func (s *PayrollServiceImpl) Run(ctx context.Context, req payroll.RunPayrollRequest) (payroll.SnapshotResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SnapshotResponse{}, err
	}
	month, _ := validator.IsValidMonth(req.Month)

	// The quarantine queue is a hard gate: automatic computation is
	// refused while any entry for the month is unresolved.
	pending, err := s.quarantineRepo.CountPending(ctx, req.Month)
	if err != nil {
		return payroll.SnapshotResponse{}, fmt.Errorf("count pending quarantine: %w", err)
	}
	if pending > 0 {
		return payroll.SnapshotResponse{}, fmt.Errorf("%d pending entries for %s: %w", pending, req.Month, payroll.ErrQuarantineNotEmpty)
	}

	// Recomputing an unconfirmed month is normal operation; a confirmed
	// month needs an explicit unlock first.
	if existing, err := s.snapshotRepo.Get(ctx, req.Month); err == nil && existing.Confirmed {
		return payroll.SnapshotResponse{}, payroll.ErrMonthConfirmed
	} else if err != nil && !errors.Is(err, payroll.ErrSnapshotNotFound) {
		return payroll.SnapshotResponse{}, fmt.Errorf("check existing snapshot: %w", err)
	}

	cfg := s.effectiveConfig(ctx, month)

	employees, err := s.employeeRepo.List(ctx, true)
	if err != nil {
		return payroll.SnapshotResponse{}, fmt.Errorf("load roster: %w", err)
	}

	aggregates, err := s.aggregateRepo.GetMonth(ctx, req.Month)
	if err != nil {
		return payroll.SnapshotResponse{}, fmt.Errorf("load attendance for %s: %w", req.Month, err)
	}

	calculator := NewCalculator(cfg)
	results := make([]payroll.Result, len(employees))

	// Per-employee computations are independent; run them in parallel.
	var g errgroup.Group
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			agg, ok := aggregates[emp.ID]
			if !ok {
				// No synced aggregate defaults to an all-zero month.
				agg = attendance.MonthlyAggregate{TimeRecorderID: emp.TimeRecorderID, Month: req.Month}
			}
			result, err := calculator.Compute(emp, agg)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.SnapshotResponse{}, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].EmployeeID < results[j].EmployeeID })

	snapshot := payroll.Snapshot{
		Month:      req.Month,
		Results:    results,
		ComputedAt: time.Now(),
	}

	// A snapshot write failure must not discard the computed result set:
	// the caller still receives it, flagged as unstored.
	stored := true
	if err := s.snapshotRepo.Put(ctx, snapshot); err != nil {
		stored = false
		slog.Error("snapshot write failed", "month", req.Month, "error", err)
	}

	slog.Info("payroll run complete",
		"month", req.Month,
		"employees", len(results),
		"snapshot_stored", stored,
	)
	return toSnapshotResponse(snapshot, stored), nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, month string) (payroll.SnapshotResponse, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return payroll.SnapshotResponse{}, payroll.ErrInvalidMonth
	}
	snapshot, err := s.snapshotRepo.Get(ctx, month)
	if err != nil {
		return payroll.SnapshotResponse{}, err
	}
	return toSnapshotResponse(snapshot, true), nil
}

func (s *PayrollServiceImpl) Confirm(ctx context.Context, month string) error {
	if _, ok := validator.IsValidMonth(month); !ok {
		return payroll.ErrInvalidMonth
	}
	return s.snapshotRepo.SetConfirmed(ctx, month, true)
}

func (s *PayrollServiceImpl) Unlock(ctx context.Context, month string) error {
	if _, ok := validator.IsValidMonth(month); !ok {
		return payroll.ErrInvalidMonth
	}
	return s.snapshotRepo.SetConfirmed(ctx, month, false)
}

// Regrade revises each active employee's standard monthly remuneration
// band from the average of snapshotted gross pay over the three months
// before the target month. Months without a snapshot are skipped: the
// average divides by the number of months actually present, and an
// employee with no snapshots at all keeps the current grade.
func (s *PayrollServiceImpl) Regrade(ctx context.Context, req payroll.RegradeRequest) (payroll.RegradeResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RegradeResponse{}, err
	}
	target, _ := validator.IsValidMonth(req.TargetMonth)

	window := make([]string, 0, regradeWindowMonths)
	for i := regradeWindowMonths; i >= 1; i-- {
		window = append(window, validator.MonthKey(target.AddDate(0, -i, 0)))
	}

	snapshots, err := s.snapshotRepo.ListRange(ctx, window[0], window[len(window)-1])
	if err != nil {
		return payroll.RegradeResponse{}, fmt.Errorf("load snapshots %s..%s: %w", window[0], window[len(window)-1], err)
	}

	employees, err := s.employeeRepo.List(ctx, true)
	if err != nil {
		return payroll.RegradeResponse{}, fmt.Errorf("load roster: %w", err)
	}

	cfg := s.effectiveConfig(ctx, target)
	resp := payroll.RegradeResponse{TargetMonth: req.TargetMonth, Window: window}

	for _, emp := range employees {
		total := decimal.Zero
		count := 0
		for _, monthKey := range window {
			snapshot, ok := snapshots[monthKey]
			if !ok {
				continue
			}
			if gross, ok := snapshot.GrossFor(emp.ID); ok {
				total = total.Add(gross)
				count++
			}
		}

		result := payroll.RegradeResultResponse{
			EmployeeID:    emp.ID,
			EmployeeName:  emp.FullName,
			PreviousGrade: emp.InsuranceGrade,
			NewGrade:      emp.InsuranceGrade,
		}

		if count == 0 {
			resp.Results = append(resp.Results, result)
			continue
		}

		average := total.DivRound(decimal.NewFromInt(int64(count)), 0)
		grade, err := ratesService.GradeForAmount(cfg, average)
		if err != nil {
			return payroll.RegradeResponse{}, fmt.Errorf("regrade employee %s: %w", emp.ID, err)
		}

		result.AverageGross = average
		result.MonthsAveraged = count
		result.NewGrade = grade.Grade
		result.StandardMonthly = grade.StandardMonthly
		result.Changed = grade.Grade != emp.InsuranceGrade || !grade.StandardMonthly.Equal(emp.StandardMonthly)

		if result.Changed {
			emp.InsuranceGrade = grade.Grade
			emp.StandardMonthly = grade.StandardMonthly
			if _, err := s.employeeRepo.Update(ctx, emp); err != nil {
				return payroll.RegradeResponse{}, fmt.Errorf("persist regrade for employee %s: %w", emp.ID, err)
			}
			slog.Info("employee regraded",
				"employee_id", emp.ID,
				"grade", grade.Grade,
				"standard_monthly", grade.StandardMonthly,
				"months_averaged", count,
			)
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

func toSnapshotResponse(snapshot payroll.Snapshot, stored bool) payroll.SnapshotResponse {
	resp := payroll.SnapshotResponse{
		Month:          snapshot.Month,
		Confirmed:      snapshot.Confirmed,
		ComputedAt:     snapshot.ComputedAt.Format(time.RFC3339),
		SnapshotStored: stored,
	}
	for _, r := range snapshot.Results {
		resp.Results = append(resp.Results, payroll.ResultResponse{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.EmployeeName,
			Month:        r.Month,

			BasePay:            r.BasePay,
			DutyAllowance:      r.DutyAllowance,
			CommuteAllowance:   r.CommuteAllowance,
			OvertimePay:        r.OvertimePay,
			LateNightPay:       r.LateNightPay,
			HolidayPay:         r.HolidayPay,
			BasePayAdjustment:  r.BasePayAdjustment,
			OvertimeAdjustment: r.OvertimeAdjustment,
			OtherAllowance:     r.OtherAllowance,
			Gross:              r.Gross,

			HealthInsurance:      r.HealthInsurance,
			NursingCareInsurance: r.NursingCareInsurance,
			PensionInsurance:     r.PensionInsurance,
			EmploymentInsurance:  r.EmploymentInsurance,
			IncomeTax:            r.IncomeTax,
			ResidentTax:          r.ResidentTax,
			TotalDeductions:      r.TotalDeductions,
			Net:                  r.Net,

			EmployerHealth:     r.EmployerHealth,
			EmployerNursing:    r.EmployerNursing,
			EmployerPension:    r.EmployerPension,
			EmployerEmployment: r.EmployerEmployment,
			EmployerChildLevy:  r.EmployerChildLevy,
			EmployerTotal:      r.EmployerTotal,
			CompanyCost:        r.CompanyCost,
		})
	}
	return resp
}
