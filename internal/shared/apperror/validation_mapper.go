package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError converts a validator error into an AppError with a
// human-readable message built from the first failing field.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]

		fieldName := e.Field()
		humanReadableField := formatFieldName(fieldName)

		switch e.Tag() {
		case "required":
			return RequiredField(humanReadableField)
		case "email":
			return New(
				CodeInvalidInput,
				humanReadableField+" must be a valid email address",
				http.StatusBadRequest,
			)
		case "oneof":
			return New(
				CodeInvalidInput,
				humanReadableField+" must be one of: "+e.Param(),
				http.StatusBadRequest,
			)
		case "datetime":
			return New(
				CodeInvalidInput,
				humanReadableField+" must be a date in YYYY-MM-DD format",
				http.StatusBadRequest,
			)
		default:
			return InvalidField(humanReadableField)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
