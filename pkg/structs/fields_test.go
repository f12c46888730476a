package structs_test

import (
	"testing"

	"github.com/mdouchement/impulsestop/pkg/structs"
	"github.com/stretchr/testify/assert"
)

type record struct {
	ID       string
	BodyText string
	Priority int
}

func TestGetField(t *testing.T) {
	r := &record{ID: "42", BodyText: "a drone", Priority: 1}

	assert.Equal(t, "42", structs.GetField(r, "ID"))
	assert.Equal(t, 1, structs.GetField(r, "Priority"))
}

func TestHasField(t *testing.T) {
	r := &record{}

	assert.True(t, structs.HasField(r, "BodyText"))
	assert.False(t, structs.HasField(r, "Nope"))
}

func TestProject(t *testing.T) {
	r := &record{ID: "42", BodyText: "a drone", Priority: 1}

	assert.Equal(t, map[string]any{
		"ID":       "42",
		"Priority": 1,
	}, structs.Project(r, "ID", "Priority"))

	// Unresolvable names are left out.
	assert.Equal(t, map[string]any{
		"ID": "42",
	}, structs.Project(r, "ID", "Nope"))

	// No names means every exported field.
	assert.Equal(t, map[string]any{
		"ID":       "42",
		"BodyText": "a drone",
		"Priority": 1,
	}, structs.Project(r))
}
