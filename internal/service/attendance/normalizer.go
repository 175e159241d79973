package attendance

import (
	"strconv"
	"strings"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
)

// Segment label keywords. Labels come from the timekeeping source
// verbatim, so both Japanese and English variants are recognized.
var (
	holidayKeywords   = []string{"休日", "公休", "振休", "振替休日", "代休", "休業", "holiday", "furlough"}
	absenceKeywords   = []string{"欠勤", "absence", "absent"}
	paidLeaveKeywords = []string{"有給", "有休", "年休", "paid leave"}
)

func segmentContainsAny(segment string, keywords []string) bool {
	s := strings.ToLower(segment)
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// ParseTimeToMinutes converts a raw time value to minutes. "H:MM" becomes
// H*60+MM; blank, "0" and "0:00" become 0; anything else is parsed as a
// decimal number of minutes. Malformed values coerce to 0 — ingestion
// never fails on a single bad field; the raw rows stay on the aggregate
// for audit.
func ParseTimeToMinutes(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(strings.TrimSpace(h))
		minutes, err2 := strconv.Atoi(strings.TrimSpace(m))
		if err1 != nil || err2 != nil || hours < 0 || minutes < 0 {
			return 0
		}
		return hours*60 + minutes
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return int(v + 0.5)
}

// NormalizedMonth is the output of normalization: one aggregate per time
// recorder id, plus the names seen on the raw rows and the records that
// were dropped before aggregation.
type NormalizedMonth struct {
	Aggregates map[string]*attendance.MonthlyAggregate
	Names      map[string]string
	Dropped    []attendance.DroppedRecord
}

// NormalizeMonth folds raw daily records into per-employee monthly
// aggregates. Aggregation keeps minute precision throughout; hour
// rounding happens only at the presentation boundary.
func NormalizeMonth(records []attendance.ExternalTimeRecord, month string) NormalizedMonth {
	out := NormalizedMonth{
		Aggregates: make(map[string]*attendance.MonthlyAggregate),
		Names:      make(map[string]string),
	}

	// Day-level counters are deduplicated by date so a day split into
	// multiple segments is not counted twice.
	workDates := make(map[string]map[string]bool)
	scheduledDates := make(map[string]map[string]bool)
	absenceDates := make(map[string]map[string]bool)
	paidLeaveDates := make(map[string]map[string]bool)

	markDate := func(set map[string]map[string]bool, id, date string) bool {
		if set[id] == nil {
			set[id] = make(map[string]bool)
		}
		if set[id][date] {
			return false
		}
		set[id][date] = true
		return true
	}

	for _, rec := range records {
		id := strings.TrimSpace(rec.TimeRecorderID)
		if id == "" {
			// Unassigned or provisional identities must never block or
			// pollute aggregation.
			out.Dropped = append(out.Dropped, attendance.DroppedRecord{
				Record: rec,
				Reason: "blank time recorder id",
			})
			continue
		}

		agg := out.Aggregates[id]
		if agg == nil {
			agg = &attendance.MonthlyAggregate{TimeRecorderID: id, Month: month}
			out.Aggregates[id] = agg
		}
		if rec.Name != "" {
			out.Names[id] = rec.Name
		}
		agg.RawRecords = append(agg.RawRecords, rec)

		workedMin := ParseTimeToMinutes(rec.WorkedTime)
		scheduledMin := ParseTimeToMinutes(rec.ScheduledTime)
		holidaySegment := segmentContainsAny(rec.Segment, holidayKeywords)

		agg.WorkedMinutes += workedMin
		agg.ScheduledMinutes += scheduledMin

		// Holiday-coded attendance with hours present must not inflate
		// the work-day counter.
		if workedMin > 0 && !holidaySegment {
			if markDate(workDates, id, rec.Date) {
				agg.WorkDays++
			}
		}
		if scheduledMin > 0 {
			if markDate(scheduledDates, id, rec.Date) {
				agg.ScheduledDays++
			}
		}
		if segmentContainsAny(rec.Segment, absenceKeywords) {
			if markDate(absenceDates, id, rec.Date) {
				agg.AbsenceDays++
			}
		}
		if segmentContainsAny(rec.Segment, paidLeaveKeywords) {
			if markDate(paidLeaveDates, id, rec.Date) {
				agg.PaidLeaveDays++
			}
		}

		// Statutory overtime accumulates from both the weekday and the
		// holiday excess-of-statutory fields.
		agg.StatutoryOvertimeMinutes += ParseTimeToMinutes(rec.StatutoryExcess)
		agg.StatutoryOvertimeMinutes += ParseTimeToMinutes(rec.HolidayStatutoryExcess)
		agg.WithinCompanyMinutes += ParseTimeToMinutes(rec.NonStatutoryExcess)
		agg.LateNightMinutes += ParseTimeToMinutes(rec.LateNight)

		// Zero-hour holiday placeholder rows carry no holiday pay.
		if holidaySegment && workedMin > 0 {
			agg.HolidayMinutes += ParseTimeToMinutes(rec.HolidayWorkedTime)
		}
	}

	return out
}
