package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestDeleteConfirms(t *testing.T) {
	var deleted []string
	ui := &TUI{hooks: Hooks{Delete: func(id string) { deleted = append(deleted, id) }}}

	// The first press only arms the row, nothing is deleted.
	ui.requestDelete("a")
	assert.Empty(t, deleted)

	ui.requestDelete("a")
	assert.Equal(t, []string{"a"}, deleted)

	// A confirmed delete disarms, the next press arms again.
	ui.requestDelete("a")
	assert.Equal(t, []string{"a"}, deleted)
}

func TestRequestDeleteRearmsOnAnotherRow(t *testing.T) {
	var deleted []string
	ui := &TUI{hooks: Hooks{Delete: func(id string) { deleted = append(deleted, id) }}}

	ui.requestDelete("a")
	ui.requestDelete("b")
	assert.Empty(t, deleted)

	ui.requestDelete("b")
	assert.Equal(t, []string{"b"}, deleted)
}
