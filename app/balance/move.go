package balance

import (
	"errors"
	"fmt"
)

// ErrNoop is wrapped by every reason a move leaves the partition unchanged.
var ErrNoop = errors.New("move is a no-op")

// Reasons for a no-op move.
var (
	ErrSameTeam           = fmt.Errorf("%w: source and destination team are the same", ErrNoop)
	ErrTeamIndex          = fmt.Errorf("%w: team index out of range", ErrNoop)
	ErrCompetitorNotFound = fmt.Errorf("%w: competitor is not in the source team", ErrNoop)
)

// Move takes the competitor out of team from and appends it to team to.
// Only the two affected teams are recomputed: their totals and bonus, and
// their win chances. Those come from scoring the whole new partition and are
// rescaled to the share the pair held before, so every other team is left as
// is and moving a competitor back restores the scored chances.
//
// On a no-op the original partition is returned with an error wrapping ErrNoop.
func Move(p Partition, id string, from, to int) (Partition, error) {
	if from < 0 || from >= len(p.Teams) || to < 0 || to >= len(p.Teams) {
		return p, ErrTeamIndex
	}
	if from == to {
		return p, ErrSameTeam
	}
	idx := p.Teams[from].Index(id)
	if idx < 0 {
		return p, ErrCompetitorNotFound
	}

	out := Partition{Teams: make([]Team, len(p.Teams))}
	copy(out.Teams, p.Teams)

	src, dst := p.Teams[from].clone(), p.Teams[to].clone()
	c := src.Members[idx]
	src.Members = append(src.Members[:idx], src.Members[idx+1:]...)
	dst.Members = append(dst.Members, c)

	out.Teams[from], out.Teams[to] = src, dst

	lo, hi := min(from, to), max(from, to)
	out.Teams[lo].recalc()
	out.Teams[hi].recalc()

	// the pair takes its values from scoring the whole partition, rescaled
	// to the share it held before, so every other team keeps its chance
	full := distribute(strengths(out.Teams), 100)
	share := max(src.winChance+dst.winChance, 2) // never scored: no share yet
	chances := distribute([]int{full[lo], full[hi]}, share)
	out.Teams[lo].winChance, out.Teams[hi].winChance = chances[0], chances[1]
	return out, nil
}
