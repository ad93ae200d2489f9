package transport

import "net/http"

// ErrorResponse is the uniform error body: {statusCode, error, message?}.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StatusResponse is returned by GET /auth/cookie/status.
type StatusResponse struct {
	Email string `json:"email"`
}

// NewError builds an error body whose label is derived from status.
func NewError(status int, message string) ErrorResponse {
	return ErrorResponse{
		StatusCode: status,
		Error:      ErrorLabel(status),
		Message:    message,
	}
}

// NotFound is the body of every missing-task response.
func NotFound() ErrorResponse {
	return ErrorResponse{StatusCode: http.StatusNotFound, Error: "Not found"}
}

// ErrorLabel maps a status code to its fixed error label. Unknown codes are
// reported as "Bad Request".
func ErrorLabel(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	default:
		return "Bad Request"
	}
}
