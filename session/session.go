// Package session keeps per-operator filter state. Each browser session owns
// its own selections, toggles, and aggregation mode — two operators looking
// at the same dataset never share mutable state.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tessera-analytics/tessera/engine"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Session is one operator's dashboard state. The zero state — no selections,
// Volume mode, toggles off — renders the full dataset.
type Session struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Input     engine.PassInput `json:"input"`
}

// Registry is a mutex-guarded session store.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxAge   time.Duration
}

// NewRegistry creates a registry. Sessions idle longer than maxAge are
// dropped opportunistically on access; 0 disables expiry.
func NewRegistry(maxAge time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
	}
}

// Create starts a new session with the zero dashboard state.
func (r *Registry) Create() Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Input: engine.PassInput{
			Selections: make(map[string][]string),
			Mode:       engine.Volume,
		},
	}
	r.mu.Lock()
	r.evictLocked(now)
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return snapshot(s)
}

// Get returns a copy of the session state; mutating the copy never touches
// the stored session.
func (r *Registry) Get(id string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return snapshot(s), nil
}

// Update applies fn to the session's pass input under the registry lock and
// returns the updated copy.
func (r *Registry) Update(id string, fn func(*engine.PassInput)) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	fn(&s.Input)
	s.UpdatedAt = time.Now()
	return snapshot(s), nil
}

func snapshot(s *Session) Session {
	out := *s
	out.Input.Selections = make(map[string][]string, len(s.Input.Selections))
	for dim, vals := range s.Input.Selections {
		out.Input.Selections[dim] = append([]string(nil), vals...)
	}
	out.Input.GroupBy = append([]string(nil), s.Input.GroupBy...)
	return out
}

// Delete removes a session.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) evictLocked(now time.Time) {
	if r.maxAge <= 0 {
		return
	}
	for id, s := range r.sessions {
		if now.Sub(s.UpdatedAt) > r.maxAge {
			delete(r.sessions, id)
		}
	}
}
