package benefit

import (
	"errors"
	"strings"

	benefiterrors "github.com/nateesoft/management-hrm-service/internal/benefit/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapBenefitError(err error) error {
	return mapRepositoryError(err, benefiterrors.ErrBenefitNotFound)
}

func mapAssignmentError(err error) error {
	return mapRepositoryError(err, benefiterrors.ErrAssignmentNotFound)
}

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_benefits_code":
			return benefiterrors.ErrBenefitCodeExists
		case "uq_employee_benefits_pair":
			return benefiterrors.ErrAlreadyAssigned
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_benefits_code") {
			return benefiterrors.ErrBenefitCodeExists
		}
		if strings.Contains(errMsg, "uq_employee_benefits_pair") {
			return benefiterrors.ErrAlreadyAssigned
		}
	}

	return err
}
