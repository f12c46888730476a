package model

// A Tombstone is the audit record written before an account is deleted.
// It survives the account so that cancellations stay traceable.
type Tombstone struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID string `json:"user_uuid" msgpack:"user_id" storm:"unique"`
	Email  string `json:"email"     msgpack:"email"`
}
