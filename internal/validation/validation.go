// Package validation checks untrusted request input before it reaches a store.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"user-session-api/internal/apperror"
)

// SessionTokenLength is the exact length of a session token.
const SessionTokenLength = 96

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// sessionInput mirrors the cookie payload; tag order decides which failure
// is reported first.
type sessionInput struct {
	SessionID string `json:"session_id" validate:"len=96,alphanum"`
}

// SessionToken rejects anything that is not exactly 96 ASCII alphanumerics.
func SessionToken(token string) error {
	err := validate.Struct(sessionInput{SessionID: token})
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperror.NewInternalServerError(err)
	}

	return fieldError(validationErrors[0])
}

func fieldError(fe validator.FieldError) *apperror.Error {
	field := fe.Field()

	switch fe.Tag() {
	case "len":
		return apperror.NewValidationError(field, apperror.ValidationLength,
			fmt.Sprintf("\"%s\" deve possuir %s caracteres.", field, fe.Param()))
	case "alphanum":
		return apperror.NewValidationError(field, apperror.ValidationCharset,
			fmt.Sprintf("\"%s\" deve conter apenas caracteres alfanuméricos.", field))
	default:
		return apperror.NewValidationError(field, "",
			fmt.Sprintf("\"%s\" possui um valor inválido.", field))
	}
}
