package attendance

import "errors"

var (
	ErrAggregateNotFound       = errors.New("attendance aggregate not found for month")
	ErrQuarantineEntryNotFound = errors.New("quarantine entry not found")
	ErrQuarantineAlreadyDone   = errors.New("quarantine entry already resolved")
	ErrInvalidMonth            = errors.New("month must be in YYYY-MM format")
)
