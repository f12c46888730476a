package client

import "github.com/mdouchement/impulsestop/pkg/libis"

// A Session is the authenticated state handed explicitly to every
// component instead of being read from a global.
type Session struct {
	User    libis.User
	Session libis.Session
}

// Present returns true when a user is currently authenticated.
func (s *Session) Present() bool {
	return s != nil && s.User.ID != ""
}

// Anonymous returns true for trial sessions, which are read-only.
func (s *Session) Anonymous() bool {
	return s != nil && s.User.Anonymous
}
