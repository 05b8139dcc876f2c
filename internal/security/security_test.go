package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSRFTokenIsOneShot(t *testing.T) {
	ts := NewTokenStore(time.Hour)

	token := ts.GenerateCSRFToken("s1")
	assert.NotEmpty(t, token)
	assert.True(t, ts.ValidateCSRFToken(token, "s1"))
	assert.False(t, ts.ValidateCSRFToken(token, "s1"), "token must be consumed")
}

func TestCSRFTokenBoundToSession(t *testing.T) {
	ts := NewTokenStore(time.Hour)

	token := ts.GenerateCSRFToken("s1")
	assert.False(t, ts.ValidateCSRFToken(token, "s2"))
	assert.False(t, ts.ValidateCSRFToken("made-up", "s1"))
}

func TestCSRFTokenExpiry(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	ts := NewTokenStore(time.Minute)
	ts.now = func() time.Time { return now }

	stale := ts.GenerateCSRFToken("s1")
	fresh := ts.GenerateCSRFToken("s1")

	now = now.Add(2 * time.Minute)
	assert.False(t, ts.ValidateCSRFToken(stale, "s1"))

	assert.Equal(t, 1, ts.CleanExpired())
	assert.False(t, ts.ValidateCSRFToken(fresh, "s1"))
}
