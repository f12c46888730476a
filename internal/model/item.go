package model

// An Item represents a database record and the rendered API response.
// One entry of a user's impulse-buy list.
type Item struct {
	Base `msgpack:",inline" storm:"inline"`

	UserID   string `json:"user_uuid" msgpack:"user_id"   storm:"index"`
	BodyText string `json:"body_text" msgpack:"body_text"`
	Priority int    `json:"priority"  msgpack:"priority"  storm:"index"`
}
