package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// FieldMessages flattens the backend's field -> []message map to the first
// message per field, the shape forms render inline.
func (e *APIError) FieldMessages() map[string]string {
	if len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for field, messages := range e.Fields {
		if len(messages) > 0 {
			out[field] = messages[0]
		}
	}
	return out
}

// AsDomainError maps the backend failure onto the service error taxonomy.
func (e *APIError) AsDomainError() *apperrors.DomainError {
	message := e.Message
	switch {
	case e.Status == http.StatusUnprocessableEntity:
		if message == "" {
			message = "the given data was invalid"
		}
		details := map[string]any{}
		if fields := e.FieldMessages(); len(fields) > 0 {
			details["fields"] = fields
		}
		return &apperrors.DomainError{Code: "VALIDATION_FAILED", Message: message, HTTPStatus: e.Status, Details: details, Err: e}
	case e.Status == http.StatusUnauthorized:
		if message == "" {
			message = "unauthenticated"
		}
		return &apperrors.DomainError{Code: "UNAUTHORIZED", Message: message, HTTPStatus: e.Status, Err: e}
	case e.Status == http.StatusForbidden:
		if message == "" {
			message = "this action is unauthorized"
		}
		return &apperrors.DomainError{Code: "FORBIDDEN", Message: message, HTTPStatus: e.Status, Err: e}
	case e.Status == http.StatusNotFound:
		if message == "" {
			message = "resource not found"
		}
		return &apperrors.DomainError{Code: "NOT_FOUND", Message: message, HTTPStatus: e.Status, Err: e}
	case e.Status == http.StatusConflict:
		return &apperrors.DomainError{Code: "CONFLICT", Message: message, HTTPStatus: e.Status, Err: e}
	case e.Status == http.StatusTooManyRequests:
		return &apperrors.DomainError{Code: "RATE_LIMITED", Message: "too many requests, slow down", HTTPStatus: e.Status, Err: e}
	case e.Status >= http.StatusInternalServerError:
		return &apperrors.DomainError{Code: "BACKEND_ERROR", Message: "the booking service failed, please try again", HTTPStatus: http.StatusBadGateway, Err: e}
	default:
		if message == "" {
			message = http.StatusText(e.Status)
		}
		return &apperrors.DomainError{Code: "REQUEST_FAILED", Message: message, HTTPStatus: e.Status, Err: e}
	}
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	return HasStatus(err, http.StatusUnauthorized)
}

// HasStatus reports whether err is a backend error with the given status.
func HasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	if apiErr.Message == "" {
		apiErr.Message = body.Error
	}
	for field, rawMessages := range body.Errors {
		if apiErr.Fields == nil {
			apiErr.Fields = make(map[string][]string, len(body.Errors))
		}
		var messages []string
		if err := json.Unmarshal(rawMessages, &messages); err != nil {
			var single string
			if err := json.Unmarshal(rawMessages, &single); err != nil {
				continue
			}
			messages = []string{single}
		}
		apiErr.Fields[field] = messages
	}
	return apiErr
}
