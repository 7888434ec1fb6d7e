package models

// ErrorResponse is the error envelope returned by every endpoint. The
// request id travels in the X-Request-ID response header.
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// NewError builds an ErrorResponse
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: Error{Code: code, Message: message}}
}

// NewFieldError builds an ErrorResponse pointing at a request field
func NewFieldError(code, message, field string) ErrorResponse {
	return ErrorResponse{Success: false, Error: Error{Code: code, Message: message, Field: field}}
}
