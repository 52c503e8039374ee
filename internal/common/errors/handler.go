// internal/common/errors/handler.go
package errors

import "net/http"

// ==========================
// HTTP Status Integration
// ==========================

// httpStatusMapping maps internal error codes to response status codes.
var httpStatusMapping = map[ErrorCode]int{
	ErrCodeMalformedRequest:        http.StatusBadRequest,
	ErrCodeRequestValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeUnsupportedMarket:       http.StatusUnprocessableEntity,
	ErrCodeMethodNotAllowed:        http.StatusMethodNotAllowed,

	ErrCodeGenerationFailed:      http.StatusBadGateway,
	ErrCodeGenerationUnavailable: http.StatusBadGateway,
	ErrCodeGenerationNoContent:   http.StatusBadGateway,
	ErrCodeOutputMalformed:       http.StatusBadGateway,
	ErrCodeOutputSchemaViolation: http.StatusBadGateway,

	ErrCodePersistenceFailed: http.StatusInternalServerError,
	ErrCodeDuplicateArtifact: http.StatusConflict,
	ErrCodeArtifactNotFound:  http.StatusNotFound,

	ErrCodeDeadlineExceeded: http.StatusGatewayTimeout,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// HTTPStatus returns the response status for an error code.
func HTTPStatus(code ErrorCode) int {
	if status, ok := httpStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// StatusFor normalizes any error and returns its response status.
func StatusFor(err error) int {
	return HTTPStatus(AsStandard(err).Code)
}
