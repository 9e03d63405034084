package salaryerrors

import (
	"net/http"

	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"
)

var (
	ErrSalaryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Salary record not found",
		http.StatusNotFound,
	)
	ErrPeriodExists = apperror.New(
		apperror.CodeConflict,
		"Salary record for this employee and period already exists",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Referenced employee does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidSalaryID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid salary record ID",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid payroll period",
		http.StatusBadRequest,
	)
	ErrOvertimeRateTooLow = apperror.New(
		apperror.CodeInvalidInput,
		"Overtime rate must be at least 1",
		http.StatusBadRequest,
	)
)

// ErrNegativeAmount rejects a monetary input below zero.
func ErrNegativeAmount(field string) *apperror.AppError {
	return apperror.Newf(apperror.CodeInvalidInput, http.StatusBadRequest,
		"%s must not be negative", field)
}

// ErrNotApprovable rejects approval of anything but a PENDING record.
func ErrNotApprovable(currentStatus string) *apperror.AppError {
	return apperror.Newf(apperror.CodeInvalidState, http.StatusConflict,
		"Can only approve PENDING records. Current status: %s", currentStatus)
}

// ErrNotPayable rejects payment of a terminal record.
func ErrNotPayable(currentStatus string) *apperror.AppError {
	return apperror.Newf(apperror.CodeInvalidState, http.StatusConflict,
		"Cannot mark a %s record as paid", currentStatus)
}

// ErrNotCancellable rejects cancellation once the record is terminal.
func ErrNotCancellable(currentStatus string) *apperror.AppError {
	return apperror.Newf(apperror.CodeInvalidState, http.StatusConflict,
		"Cannot cancel a %s record", currentStatus)
}

// ErrRecordLocked rejects monetary updates to PAID or CANCELLED records.
func ErrRecordLocked(currentStatus string) *apperror.AppError {
	return apperror.Newf(apperror.CodeInvalidState, http.StatusConflict,
		"Cannot update a %s salary record", currentStatus)
}
