// Package dto defines the request and response shapes of the quote API.
package dto

import "net/http"

// ErrorResponse is the envelope every failed request returns. Clients
// branch on Error.Code; Message and Details are for humans.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail is the payload inside the error envelope.
type ErrorDetail struct {
	// Code is machine-readable, one of the ErrorCode constants.
	Code string `json:"code"`

	// Message describes the failure for a human reader.
	Message string `json:"message"`

	// Details holds field-level messages for validation failures, for
	// example {"author": "author is required"}.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes returned by the quote API.
const (
	// ErrorCodeNotFound covers missing quotes and authors without a
	// Wikipedia article.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeConflict signals a state conflict.
	ErrorCodeConflict = "CONFLICT"

	// ErrorCodeValidation signals a quote payload that failed the
	// domain rules.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeForbidden signals a disallowed operation.
	ErrorCodeForbidden = "FORBIDDEN"

	// ErrorCodeUnavailable signals a down dependency, typically the
	// quote store or the Wikipedia API.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal signals an unexpected server fault.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout signals that the request deadline expired.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest signals a request the server could not parse.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse builds an envelope with a code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails builds an envelope carrying field-level
// details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID attaches a trace ID and returns the same envelope.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode returns the HTTP status matching an error code.
// Unknown codes map to 500.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
