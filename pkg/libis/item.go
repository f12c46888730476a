package libis

import "time"

// An Item is one entry of a user's impulse-buy list as rendered by the server.
type Item struct {
	ID        string     `json:"uuid"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	UserID    string     `json:"user_uuid"`
	BodyText  string     `json:"body_text"`
	Priority  int        `json:"priority"`
}

// A Priority is an enabled entry of the priority catalog.
type Priority struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// A User is the rendered account of the authenticated user.
type User struct {
	ID        string `json:"uuid"`
	Email     string `json:"email"`
	Anonymous bool   `json:"anonymous"`
}

// A Session is the refreshable token pair bound to one login.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpireAt     time.Time `json:"expire_at"`
}

// Defined returns true when the session carries a token pair.
func (s Session) Defined() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// AccessExpiredAt returns true when the session is expired at the given time.
func (s Session) AccessExpiredAt(t time.Time) bool {
	return s.ExpireAt.Before(t)
}

// Credentials is everything the server hands back on a successful
// authentication.
type Credentials struct {
	User    User    `json:"user"`
	Token   string  `json:"token"`
	Session Session `json:"session"`
}

// A Tombstone is the cancellation audit record.
type Tombstone struct {
	ID        string     `json:"uuid"`
	CreatedAt *time.Time `json:"created_at"`
	UserID    string     `json:"user_uuid"`
	Email     string     `json:"email"`
}
