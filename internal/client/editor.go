package client

import (
	"strings"

	"github.com/mdouchement/impulsestop/pkg/libis"
)

// An Editor fills and saves a single item. With an id it overwrites the
// existing record, without one it creates a new record.
type Editor struct {
	client libis.Client
	alert  Alerter

	ID       string
	BodyText string
	Priority int
}

// NewEditor returns an editor in create mode.
func NewEditor(client libis.Client, alert Alerter) *Editor {
	return &Editor{
		client:   client,
		alert:    alert,
		Priority: 1,
	}
}

// Load switches to edit mode by pre-populating the fields from the
// existing record. It returns false when the record could not be read,
// the caller then goes back to the list.
func (e *Editor) Load(id string) bool {
	item, err := e.client.Item(id)
	if err != nil {
		e.alert.Alert("Could not fetch the item", err.Error())
		return false
	}

	e.ID = item.ID
	e.BodyText = item.BodyText
	e.Priority = item.Priority
	return true
}

// Valid reports whether the current fields would pass server validation.
func (e *Editor) Valid() bool {
	return strings.TrimSpace(e.BodyText) != ""
}

// Save performs exactly one write: a create without an id, an overwrite
// with one. Invalid input is alerted locally and no request is issued.
// It returns true when the write succeeded and the caller can go back
// to the list.
func (e *Editor) Save() bool {
	if !e.Valid() {
		e.alert.Alert("Body text can't be empty", "Fill in what you are about to buy.")
		return false
	}

	var err error
	if e.ID == "" {
		_, err = e.client.CreateItem(e.BodyText, e.Priority)
	} else {
		_, err = e.client.OverwriteItem(e.ID, e.BodyText, e.Priority)
	}

	if err != nil {
		if libis.IsNoPermission(err) {
			e.alert.Alert("Trial mode does not permit modifying data", "Sign up to save your own items.")
		} else {
			e.alert.Alert("Could not save the item", err.Error())
		}
		return false
	}

	return true
}
