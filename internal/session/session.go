// Package session tracks per-visitor shopping state. Each session owns one
// cart and one checkout so concurrent visitors never share mutable state.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LucasAlvarez99/LA-PICADA/internal/notify"
	"github.com/LucasAlvarez99/LA-PICADA/internal/payment"
	"github.com/LucasAlvarez99/LA-PICADA/internal/service"
)

// DefaultTTL is how long an idle session survives before Prune reclaims it.
const DefaultTTL = 24 * time.Hour

// Session is one visitor's shopping state.
type Session struct {
	ID        string
	Cart      *service.Cart
	Checkout  *service.Checkout
	CreatedAt time.Time
	LastSeen  time.Time
}

// Registry holds all live sessions behind a mutex. It constructs checkouts
// with the shared collaborators it was configured with.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	notifier notify.Notifier
	payments payment.Provider
	shop     notify.ShopInfo
	logger   *slog.Logger
	ttl      time.Duration

	now   func() time.Time
	newID func() string
}

// NewRegistry creates an empty session registry.
func NewRegistry(notifier notify.Notifier, payments payment.Provider, shop notify.ShopInfo, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		notifier: notifier,
		payments: payments,
		shop:     shop,
		logger:   logger,
		ttl:      DefaultTTL,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Get returns a live session by ID, or nil if it does not exist or has
// expired. A hit refreshes the session's LastSeen time.
func (r *Registry) Get(id string) *Session {
	if id == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil
	}
	if r.now().Sub(s.LastSeen) > r.ttl {
		delete(r.sessions, id)
		return nil
	}
	s.LastSeen = r.now()
	return s
}

// GetOrCreate returns the session for the given ID, creating a fresh one
// when the ID is empty, unknown, or expired. The second return reports
// whether a new session was created (so the handler can reissue the cookie).
func (r *Registry) GetOrCreate(id string) (*Session, bool) {
	if s := r.Get(id); s != nil {
		return s, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cart := service.NewCart()
	s := &Session{
		ID:        r.newID(),
		Cart:      cart,
		Checkout:  service.NewCheckout(cart, r.notifier, r.payments, r.shop, r.logger),
		CreatedAt: now,
		LastSeen:  now,
	}
	r.sessions[s.ID] = s

	r.logger.Debug("session created", "session_id", s.ID)
	return s, true
}

// Delete removes a session. Missing IDs are a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Prune removes every session idle longer than the TTL and returns how many
// were reclaimed.
func (r *Registry) Prune() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("sessions pruned", "count", removed)
	}
	return removed
}
