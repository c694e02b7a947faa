package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/metrics"
)

// Service wraps the database store and the suggestion sessions.
type Service struct {
	Store         *Store
	Sessions      *Sessions
	Metrics       *metrics.Metrics
	DefaultRating int

	once sync.Once
}

// ErrNotEnoughPlayers is issued when the pool can't fill the requested teams.
var ErrNotEnoughPlayers = errors.New("not enough players to fill the teams")

// ErrMissing indicates that certain players were not found in the database and
// are required to be registered.
type ErrMissing []string

// Error returns the error message.
func (e ErrMissing) Error() string {
	return fmt.Sprintf("missing players are required to register: %s",
		strings.Join(e, ", "))
}

// SuggestRequest is a request to split players into teams.
type SuggestRequest struct {
	PlayerIDs []string             // looked up in the store
	Pool      []balance.Competitor // added as is, e.g. guests without a profile
	TeamCount int
}

// MoveRequest moves a competitor between two teams of one suggestion.
type MoveRequest struct {
	SessionID    string
	Suggestion   int
	CompetitorID string
	From, To     int
}

// Suggest builds the suggestion set for the requested players and keeps it
// as a session for later moves.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (Session, error) {
	pool, err := s.Pool(ctx, req.PlayerIDs)
	if err != nil {
		return Session{}, fmt.Errorf("load pool: %w", err)
	}
	pool = appendUnique(pool, req.Pool...)

	if req.TeamCount < 1 || len(pool) < req.TeamCount {
		s.Metrics.ObserveRejected()
		return Session{}, ErrNotEnoughPlayers
	}

	start := time.Now()
	suggestions := balance.Suggest(pool, req.TeamCount)
	s.Metrics.ObserveSuggest(time.Since(start), len(pool), suggestions)

	sess := s.sessions().Add(req.TeamCount, suggestions)
	s.Metrics.SetSessions(s.sessions().Len())

	log.Printf("[DEBUG] session %s: %d competitors in %d teams", sess.ID, len(pool), req.TeamCount)
	return sess, nil
}

// Session returns a kept suggestion set.
func (s *Service) Session(id string) (Session, error) {
	return s.sessions().Get(id)
}

// Discard forgets a suggestion set.
func (s *Service) Discard(id string) error {
	if err := s.sessions().Delete(id); err != nil {
		return err
	}
	s.Metrics.SetSessions(s.sessions().Len())
	return nil
}

// Move applies a manual move to one suggestion of a session. Moves of one
// session are serialized. A no-op move returns an error wrapping balance.ErrNoop.
func (s *Service) Move(req MoveRequest) (balance.Suggestion, error) {
	var moved balance.Suggestion
	_, err := s.sessions().Update(req.SessionID, func(sess *Session) error {
		if req.Suggestion < 0 || req.Suggestion >= len(sess.Suggestions) {
			return fmt.Errorf("%w: no suggestion %d", balance.ErrNoop, req.Suggestion+1)
		}

		sg := &sess.Suggestions[req.Suggestion]
		p, err := balance.Move(sg.Partition, req.CompetitorID, req.From, req.To)
		if err != nil {
			return err
		}

		sg.Partition = p
		moved = *sg
		return nil
	})

	switch {
	case err == nil:
		s.Metrics.ObserveMove(metrics.MoveApplied)
	case errors.Is(err, balance.ErrNoop):
		s.Metrics.ObserveMove(metrics.MoveNoop)
	default:
		s.Metrics.ObserveMove(metrics.MoveFailed)
	}
	if err != nil {
		return balance.Suggestion{}, err
	}

	log.Printf("[DEBUG] session %s: moved %s from team %d to team %d",
		req.SessionID, req.CompetitorID, req.From+1, req.To+1)
	return moved, nil
}

// Pool loads the players and converts them into competitors. Duplicated IDs
// are added once, players without a rating get the default one.
func (s *Service) Pool(ctx context.Context, ids []string) ([]balance.Competitor, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	players, err := s.List(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Player, len(players))
	for _, pl := range players {
		byID[pl.ID] = pl
	}

	// keep the requested order, it breaks rating ties in the draft
	pool := make([]balance.Competitor, 0, len(players))
	for _, id := range ids {
		c, err := byID[id].Competitor(s.FallbackRating())
		if err != nil {
			return nil, err
		}
		pool = appendUnique(pool, c)
	}
	return pool, nil
}

// List returns a list of players with the given IDs.
func (s *Service) List(ctx context.Context, ids []string) ([]Player, error) {
	players, err := s.Store.List(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	var e ErrMissing
	for _, id := range ids {
		if !s.containsID(players, id) && !s.contains(e, id) {
			e = append(e, id)
		}
	}
	if len(e) > 0 {
		return nil, e
	}

	return players, nil
}

// Register registers a new player or renames an existing one. A nil rating
// keeps the stored one.
func (s *Service) Register(ctx context.Context, id, name string, elo *int) error {
	if elo != nil && *elo < 0 {
		return fmt.Errorf("register %s: %w", id, balance.ErrInvalidRating)
	}

	players, err := s.Store.List(ctx, []string{id})
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}

	pl := Player{ID: id, Name: name}
	if len(players) > 0 {
		pl = players[0]
		pl.Name = name
	}
	if elo != nil {
		pl.ELO = sql.NullInt64{Int64: int64(*elo), Valid: true}
	}

	if len(players) == 0 {
		return s.Store.Create(ctx, pl)
	}
	return s.Store.Update(ctx, pl)
}

// Find returns the player with the given name, case-insensitive.
func (s *Service) Find(ctx context.Context, name string) (Player, error) {
	pl, err := s.Store.Get(ctx, name)
	if err != nil {
		return Player{}, fmt.Errorf("find %q: %w", name, err)
	}
	return pl, nil
}

// Remove deletes a registered player.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	return nil
}

// SetAnswers stores the survey answers of a registered player.
func (s *Service) SetAnswers(ctx context.Context, id string, a balance.Answers) error {
	a = a.WithDefaults()
	if err := a.Validate(); err != nil {
		return err
	}

	players, err := s.List(ctx, []string{id})
	if err != nil {
		return err
	}

	pl := players[0]
	pl.SetAnswers(a)
	return s.Store.Update(ctx, pl)
}

// Import stores the given competitors, overwriting the known ones.
func (s *Service) Import(ctx context.Context, pool []balance.Competitor) error {
	players := make([]Player, len(pool))
	for i, c := range pool {
		players[i] = Player{
			ID:   c.ID,
			Name: c.Name,
			ELO:  sql.NullInt64{Int64: int64(c.BaseRating), Valid: true},
		}
		players[i].SetAnswers(c.Answers)
	}
	return s.Store.Upsert(ctx, players...)
}

func (s *Service) sessions() *Sessions {
	s.once.Do(func() {
		if s.Sessions == nil {
			s.Sessions = NewSessions(DefaultSessionTTL)
		}
		if s.Sessions.OnPrune == nil {
			s.Sessions.OnPrune = s.Metrics.SetSessions
		}
	})
	return s.Sessions
}

// FallbackRating is the rating of players who never got one.
func (s *Service) FallbackRating() int {
	if s.DefaultRating <= 0 {
		return balance.DefaultRating
	}
	return s.DefaultRating
}

// contains checks whether the slice contains the specified string,
// case-insensitive.
func (s *Service) contains(strs []string, str string) bool {
	for _, s := range strs {
		if strings.EqualFold(s, str) {
			return true
		}
	}
	return false
}

// containsID checks whether the slice contains the player with the given ID.
func (s *Service) containsID(players []Player, id string) bool {
	for _, pl := range players {
		if pl.ID == id {
			return true
		}
	}
	return false
}

func appendUnique(pool []balance.Competitor, cs ...balance.Competitor) []balance.Competitor {
	for _, c := range cs {
		dup := false
		for _, p := range pool {
			if p.ID == c.ID {
				dup = true
				break
			}
		}
		if !dup {
			pool = append(pool, c)
		}
	}
	return pool
}
