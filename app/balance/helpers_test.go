package balance

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func competitor(t *testing.T, id string, base int, a Answers) Competitor {
	t.Helper()
	c, err := NewCompetitor(id, "player "+id, base, a)
	require.NoError(t, err)
	return c
}

// randomPool builds n competitors with random ratings and answers.
func randomPool(t *testing.T, r *rand.Rand, n int) []Competitor {
	t.Helper()
	strengths := []Strength{StrengthWeak, StrengthAverage, StrengthStrong}
	pool := make([]Competitor, n)
	for i := range pool {
		a := Answers{
			EarlyGame:   strengths[r.Intn(3)],
			PrefersBoom: r.Intn(2) == 1,
			LateGame:    strengths[r.Intn(3)],
		}
		pool[i] = competitor(t, fmt.Sprintf("c%02d", i), 800+r.Intn(1200), a)
	}
	return pool
}

func poolIDs(pool []Competitor) []string {
	ids := make([]string, len(pool))
	for i, c := range pool {
		ids[i] = c.ID
	}
	slices.Sort(ids)
	return ids
}

func partitionIDs(p Partition) []string {
	var ids []string
	for _, team := range p.Teams {
		for _, c := range team.Members {
			ids = append(ids, c.ID)
		}
	}
	slices.Sort(ids)
	return ids
}

func sumWinChances(p Partition) int {
	sum := 0
	for _, team := range p.Teams {
		sum += team.WinChance()
	}
	return sum
}

func sizesWithin(t *testing.T, p Partition, n, teamCount int) {
	t.Helper()
	require.Len(t, p.Teams, teamCount)
	require.Equal(t, TargetSizes(n, teamCount), p.Sizes())
}
