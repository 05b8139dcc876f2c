package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"poscounter/internal/cart"
	"poscounter/internal/catalog"
	"poscounter/internal/logger"
	"poscounter/internal/order"
)

// CookieName carries the session id.
const CookieName = "pos_session"

// Flash kinds, matching the page's alert styles.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

type Flash struct {
	Kind string
	Text string
}

// Session is the state one browser works against. Callers hold Lock for
// the duration of a request.
type Session struct {
	sync.Mutex

	ID     string
	Cart   *cart.Cart
	Nav    Navigator
	Mode   catalog.Mode
	Search string

	// LastReceipt is shown once after a successful checkout.
	LastReceipt *order.Receipt

	flashes  []Flash
	lastSeen time.Time
}

func newSession(now time.Time) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Cart:     cart.New(),
		Mode:     catalog.DineIn,
		lastSeen: now,
	}
}

func (s *Session) AddFlash(kind, text string) {
	s.flashes = append(s.flashes, Flash{Kind: kind, Text: text})
}

// TakeFlashes returns pending messages and clears them.
func (s *Session) TakeFlashes() []Flash {
	out := s.flashes
	s.flashes = nil
	return out
}

// TakeReceipt returns the pending receipt, if any, and clears it.
func (s *Session) TakeReceipt() *order.Receipt {
	r := s.LastReceipt
	s.LastReceipt = nil
	return r
}

// Store keeps sessions in memory, keyed by cookie value.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the request's session, starting a new one (and setting the
// cookie) when the cookie is missing, unknown or expired.
func (st *Store) Get(w http.ResponseWriter, r *http.Request) *Session {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	if c, err := r.Cookie(CookieName); err == nil {
		if s, ok := st.sessions[c.Value]; ok && now.Sub(s.lastSeen) < st.ttl {
			s.lastSeen = now
			return s
		}
	}

	s := newSession(now)
	st.sessions[s.ID] = s
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.LogInfo("Started session %s for %s", s.ID, logger.GetClientIP(r))
	return s
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) >= st.ttl {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until stop is closed.
func (st *Store) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if n := st.Sweep(st.now()); n > 0 {
					logger.LogInfo("Session cleanup removed %d idle sessions", n)
				}
			}
		}
	}()
}
