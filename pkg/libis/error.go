package libis

import (
	"encoding/json"
	"io"
)

// An Error represents an HTTP error returned by an impulsestop server.
type Error struct {
	StatusCode int
	Err        FieldError `json:"error"`
}

// A FieldError is the rendered error payload.
type FieldError struct {
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func parseError(r io.Reader, code int) error {
	var e Error
	dec := json.NewDecoder(r)
	if err := dec.Decode(&e); err != nil {
		return err
	}
	e.StatusCode = code
	return &e
}

func (e *Error) Error() string {
	return e.Err.Message
}

// IsNoPermission returns true if err is the server's trial-mode write
// rejection. Callers use it to render the specific permission message.
func IsNoPermission(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Err.Tag == "no-permission"
	}
	return false
}
