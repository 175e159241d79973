package payroll

import "context"

// SnapshotRepository is the snapshot persistence collaborator. Writes are
// last write wins per month key; no stronger consistency than "most
// recent successful write" is assumed.
type SnapshotRepository interface {
	Get(ctx context.Context, month string) (Snapshot, error)
	Put(ctx context.Context, snapshot Snapshot) error

	// ListRange returns snapshots for the inclusive month range, keyed by
	// month. Months without a snapshot are simply absent.
	ListRange(ctx context.Context, fromMonth, toMonth string) (map[string]Snapshot, error)

	SetConfirmed(ctx context.Context, month string, confirmed bool) error
}

// PayrollService runs the monthly computation and manages snapshots.
type PayrollService interface {
	// Run computes payroll for every active employee for the month and
	// snapshots the result set. It refuses to run while quarantine
	// entries are pending or when the month is confirmed.
	Run(ctx context.Context, req RunPayrollRequest) (SnapshotResponse, error)

	Get(ctx context.Context, month string) (SnapshotResponse, error)

	// Confirm locks a month against automated recompute; Unlock reverses
	// it. Both are explicit caller actions.
	Confirm(ctx context.Context, month string) error
	Unlock(ctx context.Context, month string) error

	// Regrade recomputes standard monthly remuneration grades from the
	// 3-month average of snapshotted gross pay.
	Regrade(ctx context.Context, req RegradeRequest) (RegradeResponse, error)
}
