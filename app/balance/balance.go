// Package balance splits a pool of competitors into teams of similar
// strength. It classifies competitors by their survey answers, generates
// partitions with several strategies, improves them with a local search and
// estimates win chances. All functions are synchronous and work on values:
// a Partition must not be mutated by two callers at once.
package balance

// BalancePasses is the number of sweeps over adjacent team pairs. More passes
// barely help and start to oscillate.
const BalancePasses = 2

// Balance greedily swaps competitors between adjacent teams while a swap
// strictly narrows the gap between the two team totals. Membership is kept,
// the partition-wide gap never grows. Win chances are not touched, run Score
// afterwards.
func Balance(p Partition) Partition {
	out := p.Clone()
	for i := range out.Teams {
		out.Teams[i].recalc()
	}

	for pass := 0; pass < BalancePasses; pass++ {
		for i := 0; i+1 < len(out.Teams); i++ {
			balancePair(&out.Teams[i], &out.Teams[i+1])
		}
	}
	return out
}

// balancePair tries every one-for-one swap between a and b in order and
// applies the improving ones. Returns the number of swaps.
func balancePair(a, b *Team) int {
	swaps := 0
	for i := range a.Members {
		for j := range b.Members {
			if gapAfter, ok := evalSwap(a, b, i, j); ok && gapAfter < abs(a.Total()-b.Total()) {
				swap(a, b, i, j)
				swaps++
			}
		}
	}
	return swaps
}

// evalSwap returns the gap between a and b after exchanging a.Members[i] and
// b.Members[j]. ok is false when either new total would leave the interval
// spanned by the current totals, which would widen the partition's gap.
func evalSwap(a, b *Team, i, j int) (gap int, ok bool) {
	ca, cb := a.Members[i], b.Members[j]

	attA := a.counts[Attacking] - isAttacking(ca) + isAttacking(cb)
	attB := b.counts[Attacking] - isAttacking(cb) + isAttacking(ca)

	totalA := a.adjustedTotal - ca.Adjusted() + cb.Adjusted() + compositionBonus(attA)
	totalB := b.adjustedTotal - cb.Adjusted() + ca.Adjusted() + compositionBonus(attB)

	lo, hi := min(a.Total(), b.Total()), max(a.Total(), b.Total())
	if totalA < lo || totalA > hi || totalB < lo || totalB > hi {
		return 0, false
	}
	return abs(totalA - totalB), true
}

func swap(a, b *Team, i, j int) {
	a.Members[i], b.Members[j] = b.Members[j], a.Members[i]
	a.recalc()
	b.recalc()
}

// bestSwap applies the single swap between a and b that narrows their gap the
// most. Returns false if no swap narrows it.
func bestSwap(a, b *Team) bool {
	bestI, bestJ, best := -1, -1, abs(a.Total()-b.Total())
	for i := range a.Members {
		for j := range b.Members {
			if gap, ok := evalSwap(a, b, i, j); ok && gap < best {
				bestI, bestJ, best = i, j, gap
			}
		}
	}
	if bestI < 0 {
		return false
	}
	swap(a, b, bestI, bestJ)
	return true
}

func isAttacking(c Competitor) int {
	if c.Archetype() == Attacking {
		return 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
