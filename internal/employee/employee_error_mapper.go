package employee

import (
	"errors"
	"strings"

	employeeerrors "github.com/nateesoft/management-hrm-service/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueConstraints maps the employee table's unique indexes to their
// caller-facing conflict errors.
var uniqueConstraints = map[string]error{
	"uq_employees_code":                  employeeerrors.ErrEmployeeCodeExists,
	"uq_employees_email":                 employeeerrors.ErrEmailExists,
	"uq_employees_national_id":           employeeerrors.ErrNationalIDExists,
	"uq_employees_food_ordering_user_id": employeeerrors.ErrUserAlreadyLinked,
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if mapped, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return mapped
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		for constraint, mapped := range uniqueConstraints {
			if strings.Contains(errMsg, constraint) {
				return mapped
			}
		}
	}

	return err
}
