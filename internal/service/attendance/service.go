package attendance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/timekeeping"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	source         timekeeping.Source
	employeeRepo   employee.EmployeeRepository
	aggregateRepo  attendance.AggregateRepository
	quarantineRepo attendance.QuarantineRepository
}

func NewAttendanceService(
	source timekeeping.Source,
	employeeRepo employee.EmployeeRepository,
	aggregateRepo attendance.AggregateRepository,
	quarantineRepo attendance.QuarantineRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		source:         source,
		employeeRepo:   employeeRepo,
		aggregateRepo:  aggregateRepo,
		quarantineRepo: quarantineRepo,
	}
}

// fingerprint identifies the raw record content behind an aggregate. A
// changed fingerprint invalidates prior manual quarantine assignments.
func fingerprint(agg *attendance.MonthlyAggregate) string {
	h := sha256.New()
	for _, rec := range agg.RawRecords {
		fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s|%s\n",
			rec.Date, rec.Segment, rec.WorkedTime, rec.ScheduledTime,
			rec.StatutoryExcess, rec.NonStatutoryExcess, rec.LateNight, rec.HolidayWorkedTime)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (s *AttendanceServiceImpl) SyncMonth(ctx context.Context, req attendance.SyncRequest) (attendance.SyncResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SyncResponse{}, err
	}

	// Drain the source fully before normalization; a partial fetch aborts
	// the whole sync and commits nothing.
	data, err := s.source.FetchMonth(ctx, req.Month)
	if err != nil {
		var syncErr *timekeeping.SyncError
		if errors.As(err, &syncErr) {
			slog.Error("attendance sync aborted",
				"month", req.Month,
				"op", syncErr.Op,
				"page", syncErr.Page,
				"records_retrieved", syncErr.RecordsRetrieved,
			)
		}
		return attendance.SyncResponse{}, fmt.Errorf("sync month %s: %w", req.Month, err)
	}

	norm := NormalizeMonth(data.Records, req.Month)

	roster, err := s.employeeRepo.List(ctx, false)
	if err != nil {
		return attendance.SyncResponse{}, fmt.Errorf("load roster: %w", err)
	}

	results := MatchAggregates(norm, roster)

	resp := attendance.SyncResponse{
		Month:          req.Month,
		PagesFetched:   data.Pages,
		RecordsFetched: len(data.Records),
		Aggregates:     len(norm.Aggregates),
	}
	for _, d := range norm.Dropped {
		resp.DroppedRecords = append(resp.DroppedRecords, attendance.DroppedRecordDetail{
			Date:    d.Record.Date,
			Segment: d.Record.Segment,
			Reason:  d.Reason,
		})
	}

	matched := make(map[string]attendance.MonthlyAggregate)
	for _, result := range results {
		detail := attendance.MatchDetail{
			TimeRecorderID: result.TimeRecorderID,
			Name:           result.Name,
			Type:           string(result.Type),
			EmployeeID:     result.EmployeeID,
			Reason:         result.Reason,
		}
		resp.Matches = append(resp.Matches, detail)

		agg := norm.Aggregates[result.TimeRecorderID]

		switch result.Type {
		case attendance.MatchExact:
			resp.ExactMatches++
			matched[*result.EmployeeID] = *agg
		case attendance.MatchFallback:
			resp.FallbackMatches++
			matched[*result.EmployeeID] = *agg
		case attendance.MatchUnmatched:
			employeeID, err := s.quarantine(ctx, req.Month, result, agg)
			if err != nil {
				return attendance.SyncResponse{}, err
			}
			if employeeID != "" {
				// A prior manual assignment still covers this record.
				matched[employeeID] = *agg
				resp.ExactMatches++
				continue
			}
			resp.Unmatched++
		}
	}

	if err := s.aggregateRepo.ReplaceMonth(ctx, req.Month, matched); err != nil {
		return attendance.SyncResponse{}, fmt.Errorf("store aggregates for %s: %w", req.Month, err)
	}

	pending, err := s.quarantineRepo.CountPending(ctx, req.Month)
	if err != nil {
		return attendance.SyncResponse{}, fmt.Errorf("count pending quarantine: %w", err)
	}
	resp.PendingQuarantine = pending

	slog.Info("attendance sync complete",
		"month", req.Month,
		"pages", data.Pages,
		"records", len(data.Records),
		"aggregates", len(norm.Aggregates),
		"unmatched", resp.Unmatched,
		"dropped", len(norm.Dropped),
	)
	return resp, nil
}

// quarantine upserts a quarantine entry for an unmatched aggregate. It
// returns a non-empty employee id when a prior manual assignment is
// still valid for the unchanged record, in which case the aggregate is
// routed to that employee instead of blocking.
func (s *AttendanceServiceImpl) quarantine(ctx context.Context, month string, result attendance.MatchResult, agg *attendance.MonthlyAggregate) (string, error) {
	key := attendance.QuarantineKey(month, result.TimeRecorderID)
	fp := fingerprint(agg)

	entry := attendance.QuarantineEntry{
		Key:            key,
		Month:          month,
		TimeRecorderID: result.TimeRecorderID,
		Name:           result.Name,
		Reason:         result.Reason,
		Status:         attendance.QuarantinePending,
		Aggregate:      *agg,
		Fingerprint:    fp,
	}

	existing, err := s.quarantineRepo.GetByKey(ctx, key)
	switch {
	case err == nil:
		if existing.Fingerprint == fp && existing.AssignedEmployeeID != nil {
			// Underlying record unchanged: the manual assignment stands.
			if existing.Status == attendance.QuarantineResolved {
				return *existing.AssignedEmployeeID, nil
			}
			entry.Status = existing.Status
			entry.AssignedEmployeeID = existing.AssignedEmployeeID
		}
	case errors.Is(err, attendance.ErrQuarantineEntryNotFound):
		// First time this record key has been seen.
	default:
		return "", fmt.Errorf("load quarantine entry %s: %w", key, err)
	}

	if _, err := s.quarantineRepo.Upsert(ctx, entry); err != nil {
		return "", fmt.Errorf("upsert quarantine entry %s: %w", key, err)
	}
	return "", nil
}

func (s *AttendanceServiceImpl) GetMonth(ctx context.Context, month string) (attendance.ListAggregateResponse, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return attendance.ListAggregateResponse{}, attendance.ErrInvalidMonth
	}

	aggregates, err := s.aggregateRepo.GetMonth(ctx, month)
	if err != nil {
		return attendance.ListAggregateResponse{}, err
	}

	resp := attendance.ListAggregateResponse{Month: month}
	employeeIDs := make([]string, 0, len(aggregates))
	for id := range aggregates {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	for _, id := range employeeIDs {
		agg := aggregates[id]
		resp.Data = append(resp.Data, attendance.AggregateResponse{
			TimeRecorderID:         agg.TimeRecorderID,
			EmployeeID:             id,
			Month:                  agg.Month,
			WorkDays:               agg.WorkDays,
			ScheduledDays:          agg.ScheduledDays,
			AbsenceDays:            agg.AbsenceDays,
			PaidLeaveDays:          agg.PaidLeaveDays,
			WorkedHours:            attendance.HoursFromMinutes(agg.WorkedMinutes),
			ScheduledHours:         attendance.HoursFromMinutes(agg.ScheduledMinutes),
			StatutoryOvertimeHours: attendance.HoursFromMinutes(agg.StatutoryOvertimeMinutes),
			WithinCompanyHours:     attendance.HoursFromMinutes(agg.WithinCompanyMinutes),
			LateNightHours:         attendance.HoursFromMinutes(agg.LateNightMinutes),
			HolidayHours:           attendance.HoursFromMinutes(agg.HolidayMinutes),
			BasePayAdjustment:      agg.BasePayAdjustment,
			OvertimeAdjustment:     agg.OvertimeAdjustment,
			OtherAllowance:         agg.OtherAllowance,
		})
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) UpdateAdjustments(ctx context.Context, req attendance.MonthlyAdjustmentRequest) error {
	if _, ok := validator.IsValidMonth(req.Month); !ok {
		return attendance.ErrInvalidMonth
	}
	return s.aggregateRepo.UpdateAdjustments(ctx, req.Month, req.EmployeeID, req)
}

func (s *AttendanceServiceImpl) ListQuarantine(ctx context.Context, month string) (attendance.ListQuarantineResponse, error) {
	entries, err := s.quarantineRepo.List(ctx, month)
	if err != nil {
		return attendance.ListQuarantineResponse{}, err
	}

	resp := attendance.ListQuarantineResponse{}
	for _, e := range entries {
		if e.Status == attendance.QuarantinePending {
			resp.PendingCount++
		}
		resp.Data = append(resp.Data, attendance.QuarantineEntryResponse{
			Key:                e.Key,
			Month:              e.Month,
			TimeRecorderID:     e.TimeRecorderID,
			Name:               e.Name,
			Reason:             e.Reason,
			Status:             string(e.Status),
			AssignedEmployeeID: e.AssignedEmployeeID,
		})
	}
	return resp, nil
}

// AssignQuarantine resolves one entry by hand: the chosen employee gains
// the record's time recorder id so the next sync matches exactly, the
// quarantined month's hours are attached to that employee, and the entry
// leaves the blocking set without a full re-sync.
func (s *AttendanceServiceImpl) AssignQuarantine(ctx context.Context, req attendance.AssignQuarantineRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	entry, err := s.quarantineRepo.GetByKey(ctx, req.Key)
	if err != nil {
		return err
	}
	if entry.Status == attendance.QuarantineResolved {
		return attendance.ErrQuarantineAlreadyDone
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return err
	}

	if normalized := entry.TimeRecorderID; emp.TimeRecorderID != normalized {
		emp.TimeRecorderID = normalized
		if _, err := s.employeeRepo.Update(ctx, emp); err != nil {
			return fmt.Errorf("record time recorder id on employee %s: %w", emp.ID, err)
		}
	}

	// Attach the quarantined hours before clearing the blocking entry, so
	// a payroll run right after assignment never sees a zero month for the
	// assigned employee.
	if err := s.aggregateRepo.Upsert(ctx, entry.Month, req.EmployeeID, entry.Aggregate); err != nil {
		return fmt.Errorf("attach aggregate for employee %s: %w", req.EmployeeID, err)
	}

	if err := s.quarantineRepo.Resolve(ctx, req.Key, req.EmployeeID); err != nil {
		return err
	}

	slog.Info("quarantine entry resolved", "key", req.Key, "employee_id", req.EmployeeID)
	return nil
}
