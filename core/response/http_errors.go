package response

import (
	"net/http"
	"strings"
)

// HTTPError is the wire shape of a failed request. It implements the
// error interface so handlers can return it through response.Error and
// middleware can wrap it like any other error.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError builds a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    codeForStatus(http.StatusInternalServerError),
		Message: message,
	}
}

// ErrorFromStatus builds an HTTPError for any status code, deriving
// the machine-readable code from the standard status text
// ("Not Found" becomes "not_found"). Unknown codes fall back to
// "unknown_error".
func ErrorFromStatus(status int) HTTPError {
	msg := http.StatusText(status)
	if msg == "" {
		msg = "Unknown Error"
	}
	return HTTPError{Status: status, Code: codeForStatus(status), Message: msg}
}

// codeForStatus lowercases and underscores the standard status text.
func codeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "unknown_error"
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode exposes the status for handlers that classify errors by
// the statusCode interface.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy with the message replaced.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy with the details replaced.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy carrying err's message under the "cause"
// detail key. The copy gets its own map so the shared predefined
// values below stay immutable.
func (e HTTPError) WithError(err error) HTTPError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

// Predefined errors for the statuses handlers actually return. Anything
// rarer comes from ErrorFromStatus.
var (
	ErrBadRequest            = ErrorFromStatus(http.StatusBadRequest)
	ErrUnauthorized          = ErrorFromStatus(http.StatusUnauthorized)
	ErrForbidden             = ErrorFromStatus(http.StatusForbidden)
	ErrNotFound              = ErrorFromStatus(http.StatusNotFound)
	ErrMethodNotAllowed      = ErrorFromStatus(http.StatusMethodNotAllowed)
	ErrRequestTimeout        = ErrorFromStatus(http.StatusRequestTimeout)
	ErrConflict              = ErrorFromStatus(http.StatusConflict)
	ErrGone                  = ErrorFromStatus(http.StatusGone)
	ErrRequestEntityTooLarge = ErrorFromStatus(http.StatusRequestEntityTooLarge)
	ErrUnsupportedMediaType  = ErrorFromStatus(http.StatusUnsupportedMediaType)
	ErrUnprocessableEntity   = ErrorFromStatus(http.StatusUnprocessableEntity)
	ErrTooManyRequests       = ErrorFromStatus(http.StatusTooManyRequests)
	ErrInternalServerError   = ErrorFromStatus(http.StatusInternalServerError)
	ErrNotImplemented        = ErrorFromStatus(http.StatusNotImplemented)
	ErrBadGateway            = ErrorFromStatus(http.StatusBadGateway)
	ErrServiceUnavailable    = ErrorFromStatus(http.StatusServiceUnavailable)
	ErrGatewayTimeout        = ErrorFromStatus(http.StatusGatewayTimeout)
)
