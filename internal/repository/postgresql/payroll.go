package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
)

type snapshotRepository struct {
	db *database.DB
}

func NewSnapshotRepository(db *database.DB) payroll.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Get(ctx context.Context, month string) (payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT month, results, confirmed, computed_at FROM payroll_snapshots WHERE month = $1`

	snapshot := payroll.Snapshot{}
	var results []byte
	err := q.QueryRow(ctx, query, month).Scan(&snapshot.Month, &results, &snapshot.Confirmed, &snapshot.ComputedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Snapshot{}, payroll.ErrSnapshotNotFound
		}
		return payroll.Snapshot{}, fmt.Errorf("failed to get payroll snapshot: %w", err)
	}
	if err := json.Unmarshal(results, &snapshot.Results); err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot results: %w", err)
	}
	return snapshot, nil
}

func (r *snapshotRepository) Put(ctx context.Context, snapshot payroll.Snapshot) error {
	q := GetQuerier(ctx, r.db)

	results, err := json.Marshal(snapshot.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot results: %w", err)
	}

	// Last write wins at the month key.
	query := `
		INSERT INTO payroll_snapshots (month, results, confirmed, computed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (month) DO UPDATE SET
			results = EXCLUDED.results,
			confirmed = EXCLUDED.confirmed,
			computed_at = EXCLUDED.computed_at
	`

	if _, err := q.Exec(ctx, query, snapshot.Month, results, snapshot.Confirmed, snapshot.ComputedAt); err != nil {
		return fmt.Errorf("failed to store payroll snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) ListRange(ctx context.Context, fromMonth, toMonth string) (map[string]payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month, results, confirmed, computed_at
		FROM payroll_snapshots
		WHERE month >= $1 AND month <= $2
	`

	rows, err := q.Query(ctx, query, fromMonth, toMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]payroll.Snapshot)
	for rows.Next() {
		snapshot := payroll.Snapshot{}
		var results []byte
		if err := rows.Scan(&snapshot.Month, &results, &snapshot.Confirmed, &snapshot.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll snapshot: %w", err)
		}
		if err := json.Unmarshal(results, &snapshot.Results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot results: %w", err)
		}
		snapshots[snapshot.Month] = snapshot
	}
	return snapshots, rows.Err()
}

func (r *snapshotRepository) SetConfirmed(ctx context.Context, month string, confirmed bool) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE payroll_snapshots SET confirmed = $2 WHERE month = $1`

	tag, err := q.Exec(ctx, query, month, confirmed)
	if err != nil {
		return fmt.Errorf("failed to set snapshot confirmation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrSnapshotNotFound
	}
	return nil
}
