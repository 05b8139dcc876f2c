// internal/security/security.go
package security

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"poscounter/internal/logger"
)

type csrfEntry struct {
	sessionID string
	expiry    time.Time
}

// TokenStore issues one-shot CSRF tokens bound to a session.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]csrfEntry
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		tokens: make(map[string]csrfEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// GenerateCSRFToken generates a new CSRF token for sessionID.
func (ts *TokenStore) GenerateCSRFToken(sessionID string) string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// Can't securely continue if randomness fails
		panic("Failed to generate CSRF token: " + err.Error())
	}
	token := base64.URLEncoding.EncodeToString(b)

	ts.mu.Lock()
	ts.tokens[token] = csrfEntry{sessionID: sessionID, expiry: ts.now().Add(ts.ttl)}
	ts.mu.Unlock()

	return token
}

// ValidateCSRFToken consumes token and reports whether it was issued to
// sessionID and is still fresh.
func (ts *TokenStore) ValidateCSRFToken(token, sessionID string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	entry, ok := ts.tokens[token]
	if !ok {
		return false
	}
	delete(ts.tokens, token) // Consume the token
	return entry.sessionID == sessionID && !ts.now().After(entry.expiry)
}

// CleanExpired drops expired tokens and returns how many were removed.
func (ts *TokenStore) CleanExpired() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	now := ts.now()
	removed := 0
	for token, entry := range ts.tokens {
		if now.After(entry.expiry) {
			delete(ts.tokens, token)
			removed++
		}
	}
	return removed
}

// CleanExpiredTokens periodically cleans up expired CSRF tokens until stop
// is closed.
func (ts *TokenStore) CleanExpiredTokens(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := ts.CleanExpired(); n > 0 {
				logger.LogInfo("CSRF token cleanup removed %d tokens", n)
			}
		}
	}
}
