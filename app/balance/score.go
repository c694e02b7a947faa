package balance

import "math"

// compositionBonus rewards teams stacking attacking players.
func compositionBonus(attackers int) int {
	switch {
	case attackers >= 3:
		return 100
	case attackers == 2:
		return 50
	default:
		return 0
	}
}

// Score fills in the bonus and win chance of every team. Membership and
// totals are unchanged, win chances sum to exactly 100.
func Score(p Partition) Partition {
	out := p.Clone()
	for i := range out.Teams {
		out.Teams[i].recalc()
	}

	chances := distribute(strengths(out.Teams), 100)
	for i := range out.Teams {
		out.Teams[i].winChance = chances[i]
	}
	return out
}

// strengths returns the raw heuristic score of every team.
func strengths(teams []Team) []int {
	scores := make([]int, len(teams))
	if len(teams) == 0 {
		return scores
	}

	lo, hi := teams[0].Total(), teams[0].Total()
	for i, t := range teams {
		scores[i] = compositionScore(t)
		lo, hi = min(lo, t.Total()), max(hi, t.Total())
	}

	if len(teams) < 2 || lo == hi {
		return scores
	}

	for i, t := range teams {
		switch t.Total() {
		case hi:
			scores[i] += 10
		case lo:
			scores[i] -= 10
		}
	}
	return scores
}

func compositionScore(t Team) int {
	s := 50
	passive, attacking := t.Count(Passive), t.Count(Attacking)
	aggressive, breaker := t.Count(Aggressive), t.Count(Breaker)

	if aggressive >= 2 {
		s += 10
	}
	if attacking >= 2 && aggressive >= 1 && breaker >= 1 {
		s += 20
	}
	switch {
	case passive >= 3:
		s -= 20
	case passive == 2:
		s -= 10
	}
	if aggressive >= 1 && attacking >= 1 {
		s += 5
	}
	return s
}

// Raw team scores are clamped to this range before they are normalized.
const (
	minScore = 1
	maxScore = 99
)

// distribute scales scores proportionally to total, clamps every share to
// [1, total-1] (for more than one team) and hands the rounding residual out one
// point at a time from the first slot until the shares sum to total.
func distribute(scores []int, total int) []int {
	shares := make([]int, len(scores))
	if len(scores) == 0 {
		return shares
	}
	if len(scores) == 1 {
		shares[0] = total
		return shares
	}

	clamped := make([]int, len(scores))
	sum := 0
	for i, s := range scores {
		clamped[i] = min(maxScore, max(minScore, s))
		sum += clamped[i]
	}

	lo, hi := 1, total-1
	left := total
	for i, s := range clamped {
		v := int(math.Round(float64(s) / float64(sum) * float64(total)))
		shares[i] = min(hi, max(lo, v))
		left -= shares[i]
	}

	for left != 0 {
		moved := false
		for i := range shares {
			if left == 0 {
				break
			}
			switch {
			case left > 0 && shares[i] < hi:
				shares[i]++
				left--
				moved = true
			case left < 0 && shares[i] > lo:
				shares[i]--
				left++
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return shares
}

// evenSplit divides total into n shares differing by at most one.
func evenSplit(n, total int) []int {
	shares := make([]int, n)
	for i := range shares {
		shares[i] = total / n
		if i < total%n {
			shares[i]++
		}
	}
	return shares
}
