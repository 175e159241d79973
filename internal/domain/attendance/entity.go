package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalTimeRecord is one raw daily row from the timekeeping source,
// one per (time recorder id, day, segment). Values arrive as strings and
// may be "HH:MM", bare minutes, or blank. Records are ephemeral: they are
// consumed by normalization and only retained on the aggregate for audit.
type ExternalTimeRecord struct {
	TimeRecorderID         string `json:"time_recorder_id"`
	Name                   string `json:"name"`
	Date                   string `json:"date"` // YYYY-MM-DD
	Segment                string `json:"segment"`
	WorkedTime             string `json:"worked_time"`
	ScheduledTime          string `json:"scheduled_time"`
	StatutoryExcess        string `json:"statutory_excess"`         // weekday hours beyond the legal threshold
	NonStatutoryExcess     string `json:"non_statutory_excess"`     // beyond schedule, within the legal limit
	LateNight              string `json:"late_night"`
	HolidayStatutoryExcess string `json:"holiday_statutory_excess"` // excess of statutory worked on a holiday
	HolidayWorkedTime      string `json:"holiday_worked_time"`      // statutory hours worked inside a holiday
}

// MonthlyAggregate is the per-employee-per-month attendance aggregate.
// All time sums are kept at minute precision; conversion to hours happens
// only at the presentation boundary. The zero value is a valid all-zero
// month, so payroll computation is total over any employee.
type MonthlyAggregate struct {
	TimeRecorderID string
	Month          string // YYYY-MM

	WorkDays      int
	ScheduledDays int
	AbsenceDays   int
	PaidLeaveDays int

	WorkedMinutes            int
	ScheduledMinutes         int
	StatutoryOvertimeMinutes int
	WithinCompanyMinutes     int
	LateNightMinutes         int
	HolidayMinutes           int

	// Ad-hoc monthly adjustments entered by payroll staff.
	BasePayAdjustment  decimal.Decimal
	OvertimeAdjustment decimal.Decimal
	OtherAllowance     decimal.Decimal

	// Raw daily rows retained for audit of lenient parsing.
	RawRecords []ExternalTimeRecord
}

// HoursFromMinutes converts a minute sum to hours rounded to one decimal
// place. Presentation-boundary rounding only; aggregation never uses it.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(1)
}

// StatutoryOvertimeHours returns the statutory overtime total in hours
// (exact, not presentation-rounded) for payroll computation.
func (a MonthlyAggregate) StatutoryOvertimeHours() decimal.Decimal {
	return minutesToHours(a.StatutoryOvertimeMinutes)
}

func (a MonthlyAggregate) WithinCompanyHours() decimal.Decimal {
	return minutesToHours(a.WithinCompanyMinutes)
}

func (a MonthlyAggregate) LateNightHours() decimal.Decimal {
	return minutesToHours(a.LateNightMinutes)
}

func (a MonthlyAggregate) HolidayHours() decimal.Decimal {
	return minutesToHours(a.HolidayMinutes)
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}

// MatchType classifies how a normalized aggregate was reconciled against
// the roster.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchFallback  MatchType = "fallback"
	MatchUnmatched MatchType = "unmatched"
)

// MatchResult is the reconciliation outcome for one aggregate.
type MatchResult struct {
	TimeRecorderID string
	Name           string
	Type           MatchType
	EmployeeID     *string
	Reason         string
}

// QuarantineStatus is the lifecycle of a quarantined record key.
type QuarantineStatus string

const (
	QuarantinePending  QuarantineStatus = "pending"
	QuarantineResolved QuarantineStatus = "resolved"
)

// QuarantineEntry is an unmatched external record held for manual
// resolution. Pending entries block automatic payroll computation for
// their month. Entries are persisted independently of the roster so
// partial resolution survives a restart.
type QuarantineEntry struct {
	Key                string
	Month              string
	TimeRecorderID     string
	Name               string
	Reason             string
	Status             QuarantineStatus
	AssignedEmployeeID *string

	// The normalized aggregate behind the entry, retained so a manual
	// assignment can attach the month's hours without a re-sync.
	Aggregate MonthlyAggregate

	// Fingerprint of the underlying raw records. A changed fingerprint
	// invalidates any prior manual assignment.
	Fingerprint string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuarantineKey builds the stable per-record key for an aggregate.
func QuarantineKey(month, timeRecorderID string) string {
	return fmt.Sprintf("%s|%s", month, timeRecorderID)
}

// DroppedRecord is a raw record excluded from aggregation, retained in a
// side channel so a legitimately misconfigured identifier can still be
// reviewed later.
type DroppedRecord struct {
	Record ExternalTimeRecord
	Reason string
}
