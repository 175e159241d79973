package attendance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
)

// normalizeID strips all whitespace and casefolds, so "A-100 " and
// "a-100" compare equal.
func normalizeID(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// normalizeName removes whitespace entirely: the timekeeping source and
// the roster disagree on spacing inside names.
func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// MatchAggregates reconciles normalized aggregates against the roster.
// Exact id matches are tried against every roster row, active or not;
// the name fallback only considers active employees.
func MatchAggregates(norm NormalizedMonth, roster []employee.Employee) []attendance.MatchResult {
	// Active rows win id collisions: a separated employee's id may have
	// been reassigned to a successor, and the successor owns the month.
	byID := make(map[string]employee.Employee)
	for _, emp := range roster {
		id := normalizeID(emp.TimeRecorderID)
		if id == "" {
			continue
		}
		if prev, ok := byID[id]; ok && prev.IsActive() && !emp.IsActive() {
			continue
		}
		byID[id] = emp
	}

	byName := make(map[string][]employee.Employee)
	for _, emp := range roster {
		if !emp.IsActive() {
			continue
		}
		if name := normalizeName(emp.FullName); name != "" {
			byName[name] = append(byName[name], emp)
		}
	}

	// Deterministic order for responses and logs.
	ids := make([]string, 0, len(norm.Aggregates))
	for id := range norm.Aggregates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make([]attendance.MatchResult, 0, len(ids))
	for _, id := range ids {
		name := norm.Names[id]
		result := attendance.MatchResult{TimeRecorderID: id, Name: name}

		if emp, ok := byID[normalizeID(id)]; ok {
			empID := emp.ID
			result.Type = attendance.MatchExact
			result.EmployeeID = &empID
			results = append(results, result)
			continue
		}

		candidates := byName[normalizeName(name)]
		switch {
		case name == "":
			result.Type = attendance.MatchUnmatched
			result.Reason = "no candidate: record carries no name for fallback matching"
		case len(candidates) == 1:
			empID := candidates[0].ID
			result.Type = attendance.MatchFallback
			result.EmployeeID = &empID
			if strings.TrimSpace(candidates[0].TimeRecorderID) == "" {
				result.Reason = fmt.Sprintf("employee %q has no time recorder id on file; matched by name", candidates[0].FullName)
			} else {
				result.Reason = fmt.Sprintf("time recorder id %q unknown; matched uniquely by name to %q", id, candidates[0].FullName)
			}
		case len(candidates) > 1:
			result.Type = attendance.MatchUnmatched
			result.Reason = fmt.Sprintf("ambiguous name match: %d active employees named %q", len(candidates), name)
		default:
			result.Type = attendance.MatchUnmatched
			result.Reason = fmt.Sprintf("no candidate: no roster entry for id %q or name %q", id, name)
		}
		results = append(results, result)
	}

	return results
}
