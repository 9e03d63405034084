package benefiterrors

import (
	"net/http"

	"github.com/nateesoft/management-hrm-service/internal/shared/apperror"
)

var (
	ErrBenefitNotFound = apperror.New(
		apperror.CodeNotFound,
		"Benefit not found",
		http.StatusNotFound,
	)
	ErrBenefitCodeExists = apperror.New(
		apperror.CodeConflict,
		"Benefit with the same code already exists",
		http.StatusConflict,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee benefit assignment not found",
		http.StatusNotFound,
	)
	ErrAlreadyAssigned = apperror.New(
		apperror.CodeConflict,
		"Employee already has this benefit assigned",
		http.StatusConflict,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Referenced employee does not exist",
		http.StatusBadRequest,
	)
	ErrInvalidBenefitID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid benefit ID",
		http.StatusBadRequest,
	)
	ErrInvalidAssignmentID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee benefit ID",
		http.StatusBadRequest,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeInvalidInput,
		"Benefit amount must not be negative",
		http.StatusBadRequest,
	)
)
