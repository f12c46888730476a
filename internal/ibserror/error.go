package ibserror

import "net/http"

// Error tags rendered to clients. Clients branch on the tag to pick a
// specific message, anything else is treated as a generic failure.
const (
	// TagInvalidAuth is used when credentials or tokens are rejected.
	TagInvalidAuth = "invalid-auth"
	// TagNoPermission is used when a trial session attempts a write.
	TagNoPermission = "no-permission"
	// TagValidation is used when params are rejected before any database access.
	TagValidation = "validation"
)

type (
	// An Error represents the error format that can be rendered by the impulsestop server.
	Error struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if e, ok := err.(*Error); ok {
		return e.HTTPCode
	}
	return http.StatusInternalServerError
}

// Tag returns the error tag, if any.
func Tag(err error) string {
	if e, ok := err.(*Error); ok {
		return e.FieldError.Tag
	}
	return ""
}

// New returns a new Error with the given message.
func New(message string) *Error {
	return &Error{FieldError: err{Message: message}}
}

// NewWithTagCode returns a new Error with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *Error {
	return &Error{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// NoPermission returns the error rendered when a trial session attempts a write.
func NoPermission() *Error {
	return NewWithTagCode(http.StatusForbidden, TagNoPermission, "Trial mode does not permit modifying data.")
}

// Error implements error interface.
func (e *Error) Error() string {
	return e.FieldError.Message
}
