package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
)

type quarantineRepository struct {
	db *database.DB
}

func NewQuarantineRepository(db *database.DB) attendance.QuarantineRepository {
	return &quarantineRepository{db: db}
}

const quarantineColumns = `
	key, month, time_recorder_id, name, reason, status, assigned_employee_id, aggregate, fingerprint,
	created_at, updated_at
`

func scanQuarantineEntry(row pgx.Row) (attendance.QuarantineEntry, error) {
	var e attendance.QuarantineEntry
	var aggregate []byte
	err := row.Scan(
		&e.Key, &e.Month, &e.TimeRecorderID, &e.Name, &e.Reason, &e.Status,
		&e.AssignedEmployeeID, &aggregate, &e.Fingerprint, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return attendance.QuarantineEntry{}, err
	}
	if len(aggregate) > 0 {
		if err := json.Unmarshal(aggregate, &e.Aggregate); err != nil {
			return attendance.QuarantineEntry{}, fmt.Errorf("failed to unmarshal quarantined aggregate: %w", err)
		}
	}
	return e, nil
}

func (r *quarantineRepository) Upsert(ctx context.Context, entry attendance.QuarantineEntry) (attendance.QuarantineEntry, error) {
	q := GetQuerier(ctx, r.db)

	aggregate, err := json.Marshal(entry.Aggregate)
	if err != nil {
		return attendance.QuarantineEntry{}, fmt.Errorf("failed to marshal quarantined aggregate: %w", err)
	}

	query := `
		INSERT INTO quarantine_entries (
			key, month, time_recorder_id, name, reason, status, assigned_employee_id, aggregate, fingerprint
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (key) DO UPDATE SET
			name = EXCLUDED.name,
			reason = EXCLUDED.reason,
			status = EXCLUDED.status,
			assigned_employee_id = EXCLUDED.assigned_employee_id,
			aggregate = EXCLUDED.aggregate,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = NOW()
		RETURNING ` + quarantineColumns

	row := q.QueryRow(ctx, query,
		entry.Key, entry.Month, entry.TimeRecorderID, entry.Name, entry.Reason,
		entry.Status, entry.AssignedEmployeeID, aggregate, entry.Fingerprint,
	)

	saved, err := scanQuarantineEntry(row)
	if err != nil {
		return attendance.QuarantineEntry{}, fmt.Errorf("failed to upsert quarantine entry: %w", err)
	}
	return saved, nil
}

func (r *quarantineRepository) GetByKey(ctx context.Context, key string) (attendance.QuarantineEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + quarantineColumns + ` FROM quarantine_entries WHERE key = $1`

	entry, err := scanQuarantineEntry(q.QueryRow(ctx, query, key))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.QuarantineEntry{}, attendance.ErrQuarantineEntryNotFound
		}
		return attendance.QuarantineEntry{}, fmt.Errorf("failed to get quarantine entry: %w", err)
	}
	return entry, nil
}

func (r *quarantineRepository) List(ctx context.Context, month string) ([]attendance.QuarantineEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + quarantineColumns + ` FROM quarantine_entries WHERE month = $1 ORDER BY key`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list quarantine entries: %w", err)
	}
	defer rows.Close()

	var entries []attendance.QuarantineEntry
	for rows.Next() {
		entry, err := scanQuarantineEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quarantine entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *quarantineRepository) CountPending(ctx context.Context, month string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM quarantine_entries WHERE month = $1 AND status = 'pending'`
	if err := q.QueryRow(ctx, query, month).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending quarantine entries: %w", err)
	}
	return count, nil
}

func (r *quarantineRepository) Resolve(ctx context.Context, key, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE quarantine_entries
		SET status = 'resolved', assigned_employee_id = $2, updated_at = NOW()
		WHERE key = $1
	`

	tag, err := q.Exec(ctx, query, key, employeeID)
	if err != nil {
		return fmt.Errorf("failed to resolve quarantine entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrQuarantineEntryNotFound
	}
	return nil
}
