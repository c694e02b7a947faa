package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/report"
	"github.com/bobylevd/team-balancer/app/roster"
	"github.com/bobylevd/team-balancer/app/store"
)

// Suggest is a command to print suggestions once, for a roster file or for
// stored players.
type Suggest struct {
	StoreOpts
	Roster    string   `long:"roster" env:"ROSTER" description:"YAML roster file, the store is used when empty"`
	PlayerIDs []string `long:"player"              description:"Stored player ID, repeatable"`
	Teams     int      `long:"teams"  env:"TEAMS"  description:"Number of teams" default:"2"`

	CommonOpts

	out io.Writer
}

// Execute runs the command.
func (s *Suggest) Execute([]string) error {
	if s.out == nil {
		s.out = os.Stdout
	}

	var (
		suggestions []balance.Suggestion
		err         error
	)
	if s.Roster != "" {
		suggestions, err = s.fromRoster()
	} else {
		suggestions, err = s.fromStore()
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(s.out, report.Set(suggestions))
	return err
}

func (s *Suggest) fromRoster() ([]balance.Suggestion, error) {
	ros, err := roster.Load(s.Roster)
	if err != nil {
		return nil, err
	}
	pool, err := ros.Competitors(s.DefaultRating)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	suggestions := balance.Suggest(pool, s.Teams)
	if suggestions == nil {
		return nil, fmt.Errorf("%d players for %d teams: %w", len(pool), s.Teams, store.ErrNotEnoughPlayers)
	}
	return suggestions, nil
}

func (s *Suggest) fromStore() ([]balance.Suggestion, error) {
	if len(s.PlayerIDs) == 0 {
		return nil, fmt.Errorf("either --roster or --player is required")
	}

	svc, closeStore, err := s.service(nil)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	sess, err := svc.Suggest(context.Background(), store.SuggestRequest{PlayerIDs: s.PlayerIDs, TeamCount: s.Teams})
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return sess.Suggestions, nil
}
