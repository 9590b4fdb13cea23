// Package apperror defines the errors that cross the HTTP boundary and how
// they are rendered as JSON.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

const (
	NameValidation   = "ValidationError"
	NameUnauthorized = "UnauthorizedError"
	NameForbidden    = "ForbiddenError"
	NameInternal     = "InternalServerError"
)

const (
	LocationValidatorFinalSchema = "MODEL:VALIDATOR:FINAL_SCHEMA"
	LocationSessionNotActive     = "MODEL:AUTHENTICATION:INJECT_AUTHENTICATED_USER:SESSION_NOT_ACTIVE"
	LocationFeatureNotFound      = "MODEL:AUTHORIZATION:CAN_REQUEST:FEATURE_NOT_FOUND"
	LocationUserCantReadSession  = "MODEL:AUTHENTICATION:INJECT_AUTHENTICATED_USER:USER_CANT_READ_SESSION"
	LocationInternalServerError  = "INFRA:HTTP:UNEXPECTED_ERROR"
)

// ValidationKind tells which format check rejected the input.
type ValidationKind string

const (
	ValidationLength  ValidationKind = "length"
	ValidationCharset ValidationKind = "charset"
)

// ForbiddenCause distinguishes a principal that cannot be resolved to a user
// from an identified user that lacks the requested feature.
type ForbiddenCause string

const (
	CauseAnonymous      ForbiddenCause = "anonymous"
	CauseFeatureMissing ForbiddenCause = "feature_missing"
)

type Error struct {
	Name         string
	StatusCode   int
	Message      string
	Action       string
	LocationCode string
	Key          string
	ErrorID      uuid.UUID

	ValidationKind ValidationKind
	ForbiddenCause ForbiddenCause

	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(key string, kind ValidationKind, message string) *Error {
	return &Error{
		Name:           NameValidation,
		StatusCode:     http.StatusBadRequest,
		Message:        message,
		Action:         "Ajuste os dados enviados e tente novamente.",
		LocationCode:   LocationValidatorFinalSchema,
		Key:            key,
		ErrorID:        uuid.New(),
		ValidationKind: kind,
	}
}

func NewUnauthorizedError() *Error {
	return &Error{
		Name:         NameUnauthorized,
		StatusCode:   http.StatusUnauthorized,
		Message:      "Usuário não possui sessão ativa.",
		Action:       "Verifique se este usuário está logado.",
		LocationCode: LocationSessionNotActive,
		ErrorID:      uuid.New(),
	}
}

// NewForbiddenError builds the single forbidden variant; cause selects the
// wording and the location code.
func NewForbiddenError(cause ForbiddenCause, feature string) *Error {
	e := &Error{
		Name:           NameForbidden,
		StatusCode:     http.StatusForbidden,
		ErrorID:        uuid.New(),
		ForbiddenCause: cause,
	}
	switch cause {
	case CauseFeatureMissing:
		e.Message = "Você não possui permissão para executar esta ação."
		e.Action = fmt.Sprintf("Verifique se este usuário já ativou a sua conta e recebeu a feature \"%s\".", feature)
		e.LocationCode = LocationUserCantReadSession
	default:
		e.ForbiddenCause = CauseAnonymous
		e.Message = "Usuário não pode executar esta operação."
		e.Action = fmt.Sprintf("Verifique se este usuário possui a feature \"%s\".", feature)
		e.LocationCode = LocationFeatureNotFound
	}
	return e
}

func NewInternalServerError(err error) *Error {
	return &Error{
		Name:         NameInternal,
		StatusCode:   http.StatusInternalServerError,
		Message:      "Um erro interno não esperado aconteceu.",
		Action:       "Informe ao suporte o valor encontrado no campo \"error_id\".",
		LocationCode: LocationInternalServerError,
		ErrorID:      uuid.New(),
		Err:          err,
	}
}

// From returns err as *Error, wrapping anything else as an internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalServerError(err)
}

func IsForbidden(err error, cause ForbiddenCause) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Name == NameForbidden && appErr.ForbiddenCause == cause
}
