package payroll

import "errors"

var (
	ErrSnapshotNotFound   = errors.New("payroll snapshot not found for month")
	ErrQuarantineNotEmpty = errors.New("unresolved quarantine entries block automatic payroll computation")
	ErrMonthConfirmed     = errors.New("month is confirmed; unlock it before recomputing")
	ErrZeroAverageHours   = errors.New("average monthly hours is zero; hourly rate is undefined")
	ErrNegativeHours      = errors.New("attendance hours must be non-negative")
	ErrInvalidMonth       = errors.New("month must be in YYYY-MM format")
)
