package model

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Email    string `msgpack:"email"    storm:"unique"`
	Password string `msgpack:"password,omitempty"`

	// Anonymous users belong to the trial mode. They carry no password
	// and every read they perform is served from the sample scope.
	Anonymous bool `msgpack:"anonymous"`

	// Used to revoke tokens generated before the last password change.
	PasswordUpdatedAt int64 `msgpack:"password_updated_at"`
}

// NewUser returns a new user with default params.
func NewUser() *User {
	return &User{}
}
