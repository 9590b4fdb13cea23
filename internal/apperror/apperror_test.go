package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewForbiddenError_Causes(t *testing.T) {
	anonymous := NewForbiddenError(CauseAnonymous, "read:session")
	require.Equal(t, http.StatusForbidden, anonymous.StatusCode)
	require.Equal(t, NameForbidden, anonymous.Name)
	require.Equal(t, LocationFeatureNotFound, anonymous.LocationCode)
	require.Equal(t, "Usuário não pode executar esta operação.", anonymous.Message)
	require.Equal(t, `Verifique se este usuário possui a feature "read:session".`, anonymous.Action)

	missing := NewForbiddenError(CauseFeatureMissing, "read:session")
	require.Equal(t, http.StatusForbidden, missing.StatusCode)
	require.Equal(t, LocationUserCantReadSession, missing.LocationCode)
	require.Equal(t, "Você não possui permissão para executar esta ação.", missing.Message)
	require.Equal(t, `Verifique se este usuário já ativou a sua conta e recebeu a feature "read:session".`, missing.Action)

	require.NotEqual(t, anonymous.ErrorID, missing.ErrorID)
	require.True(t, IsForbidden(missing, CauseFeatureMissing))
	require.False(t, IsForbidden(missing, CauseAnonymous))
}

func TestFrom(t *testing.T) {
	unauthorized := NewUnauthorizedError()
	wrapped := fmt.Errorf("resolving session: %w", unauthorized)
	require.Same(t, unauthorized, From(wrapped))

	plain := errors.New("connection refused")
	internal := From(plain)
	require.Equal(t, http.StatusInternalServerError, internal.StatusCode)
	require.Equal(t, NameInternal, internal.Name)
	require.ErrorIs(t, internal, plain)
}

func TestWrite(t *testing.T) {
	requestID := uuid.New()
	rr := httptest.NewRecorder()

	validationErr := NewValidationError("session_id", ValidationLength, `"session_id" deve possuir 96 caracteres.`)
	Write(rr, requestID, validationErr)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "ValidationError", body["name"])
	require.EqualValues(t, 400, body["status_code"])
	require.Equal(t, "session_id", body["key"])
	require.Equal(t, LocationValidatorFinalSchema, body["error_location_code"])
	require.Equal(t, requestID.String(), body["request_id"])

	errorID, err := uuid.Parse(body["error_id"].(string))
	require.NoError(t, err)
	require.Equal(t, uuid.Version(4), errorID.Version())
}

func TestWrite_OmitsKeyOutsideValidation(t *testing.T) {
	rr := httptest.NewRecorder()
	Write(rr, uuid.New(), NewUnauthorizedError())

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.NotContains(t, body, "key")
	require.Equal(t, "UnauthorizedError", body["name"])
}
