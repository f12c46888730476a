package model

import (
	"time"
)

type (
	// A Model is any record the database client can persist.
	Model interface {
		// GetID returns the record's ID.
		GetID() string
		// SetID defines the record's ID.
		SetID(string)
		// GetCreatedAt returns the record's creation date.
		GetCreatedAt() *time.Time
		// SetCreatedAt defines the record's creation date.
		SetCreatedAt(time.Time)
		// GetUpdatedAt returns the record's last update date.
		GetUpdatedAt() *time.Time
		// SetUpdatedAt defines the record's last update date.
		SetUpdatedAt(time.Time)
	}

	// A Base contains the fields shared by every record.
	// UpdatedAt is indexed because it drives the default list ordering.
	Base struct {
		ID        string     `json:"uuid"       msgpack:"id"         storm:"id"`
		CreatedAt *time.Time `json:"created_at" msgpack:"created_at" storm:"index"`
		UpdatedAt *time.Time `json:"updated_at" msgpack:"updated_at" storm:"index"`
	}
)

// GetID returns the record's ID.
func (m *Base) GetID() string {
	return m.ID
}

// SetID defines the record's ID.
func (m *Base) SetID(id string) {
	m.ID = id
}

// GetCreatedAt returns the record's creation date.
func (m *Base) GetCreatedAt() *time.Time {
	return m.CreatedAt
}

// SetCreatedAt defines the record's creation date.
func (m *Base) SetCreatedAt(t time.Time) {
	m.CreatedAt = &t
}

// GetUpdatedAt returns the record's last update date.
func (m *Base) GetUpdatedAt() *time.Time {
	return m.UpdatedAt
}

// SetUpdatedAt defines the record's last update date.
func (m *Base) SetUpdatedAt(t time.Time) {
	m.UpdatedAt = &t
}
