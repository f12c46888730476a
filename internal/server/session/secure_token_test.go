package session_test

import (
	"testing"

	"github.com/mdouchement/impulsestop/internal/server/session"
	"github.com/stretchr/testify/assert"
)

func TestSecureToken(t *testing.T) {
	t1 := session.SecureToken(24)
	t2 := session.SecureToken(24)

	assert.Len(t, t1, 24)
	assert.Len(t, t2, 24)
	assert.NotEqual(t, t1, t2)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, session.SecureCompare("AAAA", "AAAA"))
	assert.False(t, session.SecureCompare("AAAA", "AAAB"))
	assert.False(t, session.SecureCompare("AAAA", "AAAAA"))
}
