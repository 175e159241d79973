package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
)

type aggregateRepository struct {
	db *database.DB
}

func NewAggregateRepository(db *database.DB) attendance.AggregateRepository {
	return &aggregateRepository{db: db}
}

func (r *aggregateRepository) ReplaceMonth(ctx context.Context, month string, aggregates map[string]attendance.MonthlyAggregate) error {
	// A sync replaces the whole month in one transaction: either the new
	// aggregate set is fully visible or the old one stays.
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM attendance_aggregates WHERE month = $1`, month); err != nil {
			return fmt.Errorf("failed to clear aggregates: %w", err)
		}

		query := `
			INSERT INTO attendance_aggregates (
				month, employee_id, time_recorder_id,
				work_days, scheduled_days, absence_days, paid_leave_days,
				worked_minutes, scheduled_minutes, statutory_overtime_minutes,
				within_company_minutes, late_night_minutes, holiday_minutes,
				base_pay_adjustment, overtime_adjustment, other_allowance,
				raw_records
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		`

		for employeeID, agg := range aggregates {
			rawRecords, err := json.Marshal(agg.RawRecords)
			if err != nil {
				return fmt.Errorf("failed to marshal raw records: %w", err)
			}

			_, err = tx.Exec(ctx, query,
				month, employeeID, agg.TimeRecorderID,
				agg.WorkDays, agg.ScheduledDays, agg.AbsenceDays, agg.PaidLeaveDays,
				agg.WorkedMinutes, agg.ScheduledMinutes, agg.StatutoryOvertimeMinutes,
				agg.WithinCompanyMinutes, agg.LateNightMinutes, agg.HolidayMinutes,
				agg.BasePayAdjustment, agg.OvertimeAdjustment, agg.OtherAllowance,
				rawRecords,
			)
			if err != nil {
				return fmt.Errorf("failed to insert aggregate for employee %s: %w", employeeID, err)
			}
		}
		return nil
	})
}

func (r *aggregateRepository) GetMonth(ctx context.Context, month string) (map[string]attendance.MonthlyAggregate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, time_recorder_id,
			   work_days, scheduled_days, absence_days, paid_leave_days,
			   worked_minutes, scheduled_minutes, statutory_overtime_minutes,
			   within_company_minutes, late_night_minutes, holiday_minutes,
			   base_pay_adjustment, overtime_adjustment, other_allowance,
			   raw_records
		FROM attendance_aggregates
		WHERE month = $1
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make(map[string]attendance.MonthlyAggregate)
	for rows.Next() {
		var employeeID string
		var rawRecords []byte
		agg := attendance.MonthlyAggregate{Month: month}

		err := rows.Scan(
			&employeeID, &agg.TimeRecorderID,
			&agg.WorkDays, &agg.ScheduledDays, &agg.AbsenceDays, &agg.PaidLeaveDays,
			&agg.WorkedMinutes, &agg.ScheduledMinutes, &agg.StatutoryOvertimeMinutes,
			&agg.WithinCompanyMinutes, &agg.LateNightMinutes, &agg.HolidayMinutes,
			&agg.BasePayAdjustment, &agg.OvertimeAdjustment, &agg.OtherAllowance,
			&rawRecords,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		if len(rawRecords) > 0 {
			if err := json.Unmarshal(rawRecords, &agg.RawRecords); err != nil {
				return nil, fmt.Errorf("failed to unmarshal raw records: %w", err)
			}
		}
		aggregates[employeeID] = agg
	}
	return aggregates, rows.Err()
}

func (r *aggregateRepository) Upsert(ctx context.Context, month, employeeID string, agg attendance.MonthlyAggregate) error {
	q := GetQuerier(ctx, r.db)

	rawRecords, err := json.Marshal(agg.RawRecords)
	if err != nil {
		return fmt.Errorf("failed to marshal raw records: %w", err)
	}

	query := `
		INSERT INTO attendance_aggregates (
			month, employee_id, time_recorder_id,
			work_days, scheduled_days, absence_days, paid_leave_days,
			worked_minutes, scheduled_minutes, statutory_overtime_minutes,
			within_company_minutes, late_night_minutes, holiday_minutes,
			base_pay_adjustment, overtime_adjustment, other_allowance,
			raw_records
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (month, employee_id) DO UPDATE SET
			time_recorder_id = EXCLUDED.time_recorder_id,
			work_days = EXCLUDED.work_days,
			scheduled_days = EXCLUDED.scheduled_days,
			absence_days = EXCLUDED.absence_days,
			paid_leave_days = EXCLUDED.paid_leave_days,
			worked_minutes = EXCLUDED.worked_minutes,
			scheduled_minutes = EXCLUDED.scheduled_minutes,
			statutory_overtime_minutes = EXCLUDED.statutory_overtime_minutes,
			within_company_minutes = EXCLUDED.within_company_minutes,
			late_night_minutes = EXCLUDED.late_night_minutes,
			holiday_minutes = EXCLUDED.holiday_minutes,
			base_pay_adjustment = EXCLUDED.base_pay_adjustment,
			overtime_adjustment = EXCLUDED.overtime_adjustment,
			other_allowance = EXCLUDED.other_allowance,
			raw_records = EXCLUDED.raw_records
	`

	_, err = q.Exec(ctx, query,
		month, employeeID, agg.TimeRecorderID,
		agg.WorkDays, agg.ScheduledDays, agg.AbsenceDays, agg.PaidLeaveDays,
		agg.WorkedMinutes, agg.ScheduledMinutes, agg.StatutoryOvertimeMinutes,
		agg.WithinCompanyMinutes, agg.LateNightMinutes, agg.HolidayMinutes,
		agg.BasePayAdjustment, agg.OvertimeAdjustment, agg.OtherAllowance,
		rawRecords,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aggregate for employee %s: %w", employeeID, err)
	}
	return nil
}

func (r *aggregateRepository) UpdateAdjustments(ctx context.Context, month, employeeID string, req attendance.MonthlyAdjustmentRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_aggregates
		SET base_pay_adjustment = $3, overtime_adjustment = $4, other_allowance = $5
		WHERE month = $1 AND employee_id = $2
	`

	tag, err := q.Exec(ctx, query, month, employeeID, req.BasePayAdjustment, req.OvertimeAdjustment, req.OtherAllowance)
	if err != nil {
		return fmt.Errorf("failed to update adjustments: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAggregateNotFound
	}
	return nil
}
