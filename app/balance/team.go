package balance

import "slices"

// Team is one slot of a partition. Totals, bonus and win chance are derived
// from the members and only updated by the engine.
type Team struct {
	Slot    int
	Members []Competitor

	baseTotal     int
	adjustedTotal int
	counts        [numArchetypes]int
	bonus         int
	winChance     int
}

// BaseTotal returns the sum of the members' base ratings.
func (t Team) BaseTotal() int { return t.baseTotal }

// AdjustedTotal returns the sum of the members' adjusted ratings.
func (t Team) AdjustedTotal() int { return t.adjustedTotal }

// Bonus returns the composition bonus.
func (t Team) Bonus() int { return t.bonus }

// Total returns the adjusted total plus the composition bonus.
func (t Team) Total() int { return t.adjustedTotal + t.bonus }

// WinChance returns the estimated win chance in percent.
func (t Team) WinChance() int { return t.winChance }

// Count returns the number of members with the given archetype.
func (t Team) Count(a Archetype) int {
	if a >= numArchetypes {
		return 0
	}
	return t.counts[a]
}

// Index returns the position of the competitor in the team or -1.
func (t Team) Index(id string) int {
	return slices.IndexFunc(t.Members, func(c Competitor) bool { return c.ID == id })
}

func (t *Team) recalc() {
	t.baseTotal, t.adjustedTotal = 0, 0
	t.counts = [numArchetypes]int{}
	for _, c := range t.Members {
		t.baseTotal += c.BaseRating
		t.adjustedTotal += c.Adjusted()
		t.counts[c.Archetype()]++
	}
	t.bonus = compositionBonus(t.counts[Attacking])
}

func (t Team) clone() Team {
	t.Members = slices.Clone(t.Members)
	return t
}

// Partition divides the whole pool into teams, each competitor exactly once.
type Partition struct {
	Teams []Team
}

// newPartition builds a partition from member lists with totals computed.
func newPartition(members [][]Competitor) Partition {
	p := Partition{Teams: make([]Team, len(members))}
	for i, m := range members {
		p.Teams[i] = Team{Slot: i, Members: m}
		p.Teams[i].recalc()
	}
	return p
}

// Clone returns a deep copy; changes to the copy never leak into p.
func (p Partition) Clone() Partition {
	teams := make([]Team, len(p.Teams))
	for i, t := range p.Teams {
		teams[i] = t.clone()
	}
	return Partition{Teams: teams}
}

// Size returns the number of competitors in the partition.
func (p Partition) Size() int {
	n := 0
	for _, t := range p.Teams {
		n += len(t.Members)
	}
	return n
}

// Sizes returns the member count of every team.
func (p Partition) Sizes() []int {
	sizes := make([]int, len(p.Teams))
	for i, t := range p.Teams {
		sizes[i] = len(t.Members)
	}
	return sizes
}

// Gap returns the difference between the highest and the lowest team total.
func (p Partition) Gap() int {
	if len(p.Teams) == 0 {
		return 0
	}
	lo, hi := p.Teams[0].Total(), p.Teams[0].Total()
	for _, t := range p.Teams[1:] {
		lo, hi = min(lo, t.Total()), max(hi, t.Total())
	}
	return hi - lo
}

// Find returns the slot holding the competitor, or -1.
func (p Partition) Find(id string) int {
	for i, t := range p.Teams {
		if t.Index(id) >= 0 {
			return i
		}
	}
	return -1
}

// TargetSizes spreads n competitors over teamCount slots as evenly as possible,
// the first n%teamCount slots get one extra member.
func TargetSizes(n, teamCount int) []int {
	if teamCount < 1 {
		return nil
	}
	sizes := make([]int, teamCount)
	for i := range sizes {
		sizes[i] = n / teamCount
		if i < n%teamCount {
			sizes[i]++
		}
	}
	return sizes
}
