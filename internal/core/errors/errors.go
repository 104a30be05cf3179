package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidRequestError  = "invalid_request"
	HttpParseError           = "parse_error"
	HttpEmptyResultError     = "empty_result"
	HttpPayloadTooLargeError = "payload_too_large"
	HttpNotFoundError        = "not_found"
	HttpNoRowsError          = "no_rows"
	HttpNoDatasetError       = "no_dataset"
)

// ErrorResponse is the error response body shared by every API handler.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
