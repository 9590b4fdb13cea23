package apperror

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type Response struct {
	Name              string    `json:"name" example:"ForbiddenError"`
	Message           string    `json:"message"`
	Action            string    `json:"action"`
	StatusCode        int       `json:"status_code" example:"403"`
	ErrorID           uuid.UUID `json:"error_id"`
	RequestID         uuid.UUID `json:"request_id"`
	ErrorLocationCode string    `json:"error_location_code"`
	Key               string    `json:"key,omitempty"`
}

func (e *Error) Response(requestID uuid.UUID) Response {
	return Response{
		Name:              e.Name,
		Message:           e.Message,
		Action:            e.Action,
		StatusCode:        e.StatusCode,
		ErrorID:           e.ErrorID,
		RequestID:         requestID,
		ErrorLocationCode: e.LocationCode,
		Key:               e.Key,
	}
}

// Write renders err as the JSON error body. Errors that are not *Error are
// reported as InternalServerError.
func Write(w http.ResponseWriter, requestID uuid.UUID, err error) *Error {
	appErr := From(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(appErr.Response(requestID))

	return appErr
}
