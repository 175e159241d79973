package response

import (
	"errors"
	"net/http"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/employee"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/timekeeping"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrTimeRecorderIDExists):
		Conflict(w, "Time recorder ID already in use by an active employee")
	case errors.Is(err, employee.ErrOfficerEmploymentInsurance):
		BadRequest(w, "Officers are not eligible for employment insurance", nil)
	case errors.Is(err, employee.ErrEmployeeAlreadySeparated):
		Conflict(w, "Employee is already separated")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAggregateNotFound):
		NotFound(w, "Attendance aggregate not found")
	case errors.Is(err, attendance.ErrQuarantineEntryNotFound):
		NotFound(w, "Quarantine entry not found")
	case errors.Is(err, attendance.ErrQuarantineAlreadyDone):
		Conflict(w, "Quarantine entry already resolved")
	case errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, "Month must be in YYYY-MM format", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSnapshotNotFound):
		NotFound(w, "No payroll snapshot for month")
	case errors.Is(err, payroll.ErrQuarantineNotEmpty):
		Conflict(w, "Unresolved quarantine entries block payroll computation")
	case errors.Is(err, payroll.ErrMonthConfirmed):
		Conflict(w, "Month is confirmed; unlock it before recomputing")
	case errors.Is(err, payroll.ErrZeroAverageHours):
		BadRequest(w, "Average monthly hours must be positive", nil)
	case errors.Is(err, payroll.ErrNegativeHours):
		BadRequest(w, "Attendance hours must be non-negative", nil)
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, "Month must be in YYYY-MM format", nil)

	// Rate configuration errors
	case errors.Is(err, rates.ErrGradeNotOnTable):
		BadRequest(w, "Standard monthly remuneration is not on the grade table", nil)
	case errors.Is(err, rates.ErrEmptyGradeTable), errors.Is(err, rates.ErrEmptyTaxBrackets):
		InternalServerError(w, "Rate configuration is incomplete")

	// Timekeeping source errors
	case errors.Is(err, timekeeping.ErrAuthentication):
		BadGateway(w, "Timekeeping source rejected credentials")
	case errors.Is(err, timekeeping.ErrFetch):
		BadGateway(w, "Timekeeping source fetch failed; sync aborted")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
