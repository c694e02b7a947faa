package store

import (
	"database/sql"
	"fmt"

	"github.com/bobylevd/team-balancer/app/balance"
)

// Player is a league member as kept in the roster.
type Player struct {
	ID          string        `db:"id"`
	Name        string        `db:"name"`
	ELO         sql.NullInt64 `db:"elo"`
	EarlyGame   string        `db:"early_game"`
	PrefersBoom bool          `db:"prefers_boom"`
	LateGame    string        `db:"late_game"`
}

// DiscordRef returns the Discord mention of the player.
func (p Player) DiscordRef() string {
	return fmt.Sprintf("<@%s>", p.ID)
}

// Rating returns the stored rating or fallback if the rating is unknown.
func (p Player) Rating(fallback int) int {
	if !p.ELO.Valid {
		return fallback
	}
	return int(p.ELO.Int64)
}

// Answers returns the player's survey answers, neutral ones if never answered.
func (p Player) Answers() balance.Answers {
	return balance.Answers{
		EarlyGame:   balance.Strength(p.EarlyGame),
		PrefersBoom: p.PrefersBoom,
		LateGame:    balance.Strength(p.LateGame),
	}.WithDefaults()
}

// SetAnswers stores the survey answers on the player.
func (p *Player) SetAnswers(a balance.Answers) {
	p.EarlyGame = string(a.EarlyGame)
	p.PrefersBoom = a.PrefersBoom
	p.LateGame = string(a.LateGame)
}

// Competitor converts the player into a pool member.
func (p Player) Competitor(fallbackRating int) (balance.Competitor, error) {
	c, err := balance.NewCompetitor(p.ID, p.Name, p.Rating(fallbackRating), p.Answers())
	if err != nil {
		return balance.Competitor{}, fmt.Errorf("player %s: %w", p.ID, err)
	}
	return c, nil
}
