// Package roster reads competitor pools from YAML files.
package roster

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bobylevd/team-balancer/app/balance"
)

// Entry is one competitor of the roster file. Answers are kept as written
// and parsed on conversion, so both "strong" and "IYI" are accepted.
type Entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	ELO         *int   `yaml:"elo"`
	EarlyGame   string `yaml:"early_game"`
	PrefersBoom string `yaml:"prefers_boom"`
	LateGame    string `yaml:"late_game"`
}

// Roster is the content of a roster file.
type Roster struct {
	Players []Entry `yaml:"players"`
}

// Load reads the roster file at path.
func Load(path string) (Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return Roster{}, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	r, err := Parse(f)
	if err != nil {
		return Roster{}, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a roster. Entries without an id get a random one.
func Parse(r io.Reader) (Roster, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ros Roster
	if err := dec.Decode(&ros); err != nil && !errors.Is(err, io.EOF) {
		return Roster{}, fmt.Errorf("decode: %w", err)
	}

	for i := range ros.Players {
		if ros.Players[i].ID == "" {
			ros.Players[i].ID = uuid.NewString()
		}
	}
	return ros, nil
}

// Answers parses the survey answers of the entry.
func (e Entry) Answers() (balance.Answers, error) {
	early, err := balance.ParseStrength(e.EarlyGame)
	if err != nil {
		return balance.Answers{}, err
	}
	boom, err := balance.ParseYesNo(e.PrefersBoom)
	if err != nil {
		return balance.Answers{}, err
	}
	late, err := balance.ParseStrength(e.LateGame)
	if err != nil {
		return balance.Answers{}, err
	}
	return balance.Answers{EarlyGame: early, PrefersBoom: boom, LateGame: late}, nil
}

// Competitors converts the roster into a pool. Entries without a rating get
// defaultRating. Duplicated ids are rejected.
func (r Roster) Competitors(defaultRating int) ([]balance.Competitor, error) {
	seen := make(map[string]bool, len(r.Players))
	pool := make([]balance.Competitor, 0, len(r.Players))
	for _, e := range r.Players {
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate player id %q", e.ID)
		}
		seen[e.ID] = true

		a, err := e.Answers()
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", e.Name, err)
		}

		elo := defaultRating
		if e.ELO != nil {
			elo = *e.ELO
		}

		c, err := balance.NewCompetitor(e.ID, e.Name, elo, a)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", e.Name, err)
		}
		pool = append(pool, c)
	}
	return pool, nil
}
