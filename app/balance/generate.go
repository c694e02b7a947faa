package balance

import (
	"cmp"
	"fmt"
	"slices"
)

// FiftyFiftyRounds bounds the extra highest/lowest swaps of the 50-50 strategy.
const FiftyFiftyRounds = 3

// Strategy names a way of generating a partition.
type Strategy int

// Strategies, in the order Suggest returns them.
const (
	StrategySnake Strategy = iota
	StrategyOffset
	StrategyFiftyFifty
)

// Strategies lists every strategy.
var Strategies = []Strategy{StrategySnake, StrategyOffset, StrategyFiftyFifty}

// String returns a short machine friendly name.
func (s Strategy) String() string {
	switch s {
	case StrategySnake:
		return "snake"
	case StrategyOffset:
		return "offset"
	case StrategyFiftyFifty:
		return "fifty-fifty"
	default:
		return "unknown"
	}
}

// Label returns the name shown to league admins.
func (s Strategy) Label() string {
	switch s {
	case StrategySnake:
		return "Dengeli"
	case StrategyOffset:
		return "Alternatif"
	case StrategyFiftyFifty:
		return "50-50"
	default:
		return s.String()
	}
}

// Suggestion is one labeled partition of a suggestion set.
type Suggestion struct {
	Strategy  Strategy
	Partition Partition
}

// Name returns "Öneri <n> (<label>)".
func (s Suggestion) Name() string {
	return fmt.Sprintf("Öneri %d (%s)", int(s.Strategy)+1, s.Strategy.Label())
}

// Suggest runs the whole pipeline: every strategy generates a partition which
// is balanced and scored. The 50-50 suggestion starts from the balanced snake.
// Returns nil if the pool can't fill teamCount teams.
func Suggest(pool []Competitor, teamCount int) []Suggestion {
	snake, ok := SnakeDraft(pool, teamCount)
	if !ok {
		return nil
	}
	offset, _ := OffsetDraft(pool, teamCount)

	balanced := Balance(snake)
	return []Suggestion{
		{Strategy: StrategySnake, Partition: Score(balanced)},
		{Strategy: StrategyOffset, Partition: Score(Balance(offset))},
		{Strategy: StrategyFiftyFifty, Partition: FiftyFifty(balanced)},
	}
}

// SnakeDraft deals the pool, best first, in serpentine order: 0..n-1, n-1..0.
func SnakeDraft(pool []Competitor, teamCount int) (Partition, bool) {
	return draft(pool, teamCount, func(k int) int {
		round, pos := k/teamCount, k%teamCount
		if round%2 == 1 {
			return teamCount - 1 - pos
		}
		return pos
	})
}

// OffsetDraft deals the pool, best first, to slot (k+1) mod n.
func OffsetDraft(pool []Competitor, teamCount int) (Partition, bool) {
	return draft(pool, teamCount, func(k int) int { return (k + 1) % teamCount })
}

// draft assigns the sorted pool following slotAt. A slot that already reached
// its target size is skipped by following the order further, so team sizes
// always match TargetSizes.
func draft(pool []Competitor, teamCount int, slotAt func(k int) int) (Partition, bool) {
	if teamCount < 1 || len(pool) < teamCount {
		return Partition{}, false
	}

	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b Competitor) int {
		return cmp.Compare(b.Adjusted(), a.Adjusted())
	})

	sizes := TargetSizes(len(sorted), teamCount)
	members := make([][]Competitor, teamCount)
	for i := range members {
		members[i] = make([]Competitor, 0, sizes[i])
	}

	step := 0
	for _, c := range sorted {
		slot := slotAt(step)
		for len(members[slot]) == sizes[slot] {
			step++
			slot = slotAt(step)
		}
		members[slot] = append(members[slot], c)
		step++
	}
	return newPartition(members), true
}

// FiftyFifty takes a balanced partition and swaps between the highest and the
// lowest team for up to FiftyFiftyRounds rounds. Win chances are an even split:
// the result is presented as a coin flip.
func FiftyFifty(p Partition) Partition {
	out := p.Clone()
	for round := 0; round < FiftyFiftyRounds; round++ {
		out = Balance(out)
		hi, lo := extremes(out.Teams)
		if hi == lo || !bestSwap(&out.Teams[hi], &out.Teams[lo]) {
			break
		}
	}

	for i := range out.Teams {
		out.Teams[i].recalc()
	}
	for i, c := range evenSplit(len(out.Teams), 100) {
		out.Teams[i].winChance = c
	}
	return out
}

// extremes returns the first slots holding the highest and the lowest total.
func extremes(teams []Team) (hi, lo int) {
	for i, t := range teams {
		if t.Total() > teams[hi].Total() {
			hi = i
		}
		if t.Total() < teams[lo].Total() {
			lo = i
		}
	}
	return hi, lo
}
