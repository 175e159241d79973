package attendance

import "context"

// AggregateRepository stores the normalized per-employee monthly
// aggregates for a synced month. A sync replaces the whole month in one
// write; there is never a partial commit.
type AggregateRepository interface {
	// ReplaceMonth atomically replaces all aggregates for the month. Keys
	// are internal employee ids of matched aggregates.
	ReplaceMonth(ctx context.Context, month string, aggregates map[string]MonthlyAggregate) error

	// GetMonth returns the aggregates for a month keyed by employee id.
	// A synced month with no records yields an empty map, not an error.
	GetMonth(ctx context.Context, month string) (map[string]MonthlyAggregate, error)

	// UpdateAdjustments sets the ad-hoc monthly adjustment fields on one
	// employee's aggregate.
	UpdateAdjustments(ctx context.Context, month, employeeID string, req MonthlyAdjustmentRequest) error

	// Upsert writes a single employee's aggregate for the month, used when
	// a quarantined record is manually assigned between syncs.
	Upsert(ctx context.Context, month, employeeID string, agg MonthlyAggregate) error
}

// QuarantineRepository persists unmatched-record entries independently of
// the roster.
type QuarantineRepository interface {
	Upsert(ctx context.Context, entry QuarantineEntry) (QuarantineEntry, error)
	GetByKey(ctx context.Context, key string) (QuarantineEntry, error)
	List(ctx context.Context, month string) ([]QuarantineEntry, error)

	// CountPending returns the number of entries still blocking automatic
	// payroll computation for the month.
	CountPending(ctx context.Context, month string) (int, error)

	// Resolve assigns an employee to the entry and moves it out of the
	// blocking set.
	Resolve(ctx context.Context, key, employeeID string) error
}

// AttendanceService orchestrates sync, normalization, matching and
// quarantine resolution.
type AttendanceService interface {
	// SyncMonth drains the timekeeping source for the month, normalizes
	// and matches records, and persists aggregates plus quarantine state.
	SyncMonth(ctx context.Context, req SyncRequest) (SyncResponse, error)

	GetMonth(ctx context.Context, month string) (ListAggregateResponse, error)
	UpdateAdjustments(ctx context.Context, req MonthlyAdjustmentRequest) error

	ListQuarantine(ctx context.Context, month string) (ListQuarantineResponse, error)
	AssignQuarantine(ctx context.Context, req AssignQuarantineRequest) error
}
