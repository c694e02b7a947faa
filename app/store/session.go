package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobylevd/team-balancer/app/balance"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found or expired")

// DefaultSessionTTL is how long suggestions are kept after the last change.
const DefaultSessionTTL = 48 * time.Hour

// Session is a suggestion set kept between requests so that admins can
// rearrange the teams before the match.
type Session struct {
	ID          string
	TeamCount   int
	Suggestions []balance.Suggestion
	UpdatedAt   time.Time
}

func (s Session) clone() Session {
	suggestions := make([]balance.Suggestion, len(s.Suggestions))
	for i, sg := range s.Suggestions {
		suggestions[i] = balance.Suggestion{Strategy: sg.Strategy, Partition: sg.Partition.Clone()}
	}
	s.Suggestions = suggestions
	return s
}

type sessionEntry struct {
	mu      sync.Mutex // serializes edits of one session
	session Session
}

// Sessions keeps suggestion sets in memory. Edits of a single session are
// applied one after another, different sessions don't block each other.
type Sessions struct {
	TTL time.Duration

	// OnPrune, if set, gets the number of live sessions after expired ones
	// were dropped. It is called with the registry locked.
	OnPrune func(live int)

	mu    sync.Mutex
	items map[string]*sessionEntry
	now   func() time.Time
}

// NewSessions makes an empty session registry.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{TTL: ttl, items: map[string]*sessionEntry{}, now: time.Now}
}

// Add stores a new suggestion set and returns its session.
func (s *Sessions) Add(teamCount int, suggestions []balance.Suggestion) Session {
	sess := Session{
		ID:          uuid.NewString(),
		TeamCount:   teamCount,
		Suggestions: suggestions,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	sess.UpdatedAt = s.now()
	s.items[sess.ID] = &sessionEntry{session: sess.clone()}
	return sess
}

// Get returns a copy of the session.
func (s *Sessions) Get(id string) (Session, error) {
	e, err := s.entry(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone(), nil
}

// Update applies fn to the session while holding the session's lock. The
// change is kept only if fn returns nil.
func (s *Sessions) Update(id string, fn func(*Session) error) (Session, error) {
	e, err := s.entry(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session.clone()
	if err := fn(&sess); err != nil {
		return e.session.clone(), err
	}

	s.mu.Lock()
	sess.UpdatedAt = s.now()
	s.mu.Unlock()

	e.session = sess
	return sess.clone(), nil
}

// Delete forgets the session. Unknown and expired sessions give ErrSessionNotFound.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	if _, ok := s.items[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.items)
}

func (s *Sessions) entry(id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()
	e, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// pruneLocked drops expired sessions. Entries being edited are skipped.
func (s *Sessions) pruneLocked() {
	now := s.now()
	pruned := 0
	for id, e := range s.items {
		if !e.mu.TryLock() {
			continue
		}
		expired := now.Sub(e.session.UpdatedAt) > s.TTL
		e.mu.Unlock()

		if expired {
			delete(s.items, id)
			pruned++
		}
	}

	if pruned > 0 && s.OnPrune != nil {
		s.OnPrune(len(s.items))
	}
}
