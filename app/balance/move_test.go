package balance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeTeams(t *testing.T) Partition {
	return Score(newPartition([][]Competitor{
		{competitor(t, "a", 1800, aggressiveAnswers), competitor(t, "b", 1300, attackingAnswers)},
		{competitor(t, "c", 1600, attackingAnswers), competitor(t, "d", 1500, attackingAnswers)},
		{competitor(t, "e", 1400, passiveAnswers), competitor(t, "f", 1450, breakerAnswers)},
	}))
}

func TestMoveNoop(t *testing.T) {
	p := threeTeams(t)
	orig := p.Clone()

	tests := []struct {
		name     string
		id       string
		from, to int
		err      error
	}{
		{"same team", "a", 0, 0, ErrSameTeam},
		{"not in source", "c", 0, 1, ErrCompetitorNotFound},
		{"unknown id", "zz", 0, 1, ErrCompetitorNotFound},
		{"source out of range", "a", 3, 1, ErrTeamIndex},
		{"destination out of range", "a", 0, -1, ErrTeamIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Move(p, tt.id, tt.from, tt.to)
			require.ErrorIs(t, err, tt.err)
			assert.ErrorIs(t, err, ErrNoop)
			assert.Equal(t, orig, got)
		})
	}
}

func TestMoveUpdatesOnlyAffectedTeams(t *testing.T) {
	p := threeTeams(t)
	orig := p.Clone()

	moved, err := Move(p, "b", 0, 2)
	require.NoError(t, err)

	assert.Equal(t, orig, p, "input partition must not change")
	assert.Equal(t, p.Teams[1], moved.Teams[1], "untouched team must keep every value")

	require.Len(t, moved.Teams[0].Members, 1)
	require.Len(t, moved.Teams[2].Members, 3)
	assert.Equal(t, "b", moved.Teams[2].Members[2].ID, "moved competitor is appended")
	assert.Equal(t, 1940, moved.Teams[0].AdjustedTotal())
	assert.Equal(t, 1420+1540+1360, moved.Teams[2].AdjustedTotal())
	assert.Equal(t, 1300+1400+1450, moved.Teams[2].BaseTotal())

	assert.Equal(t, 100, sumWinChances(moved))
	assert.Equal(t, p.Teams[0].WinChance()+p.Teams[2].WinChance(),
		moved.Teams[0].WinChance()+moved.Teams[2].WinChance(), "pair keeps its share")
	assert.Equal(t, partitionIDs(p), partitionIDs(moved))
}

func TestMoveRecomputesBonus(t *testing.T) {
	p := threeTeams(t)
	require.Equal(t, 50, p.Teams[1].Bonus())

	moved, err := Move(p, "c", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, moved.Teams[1].Bonus())
	assert.Equal(t, 50, moved.Teams[0].Bonus())
}

func TestMoveRoundTripTwoTeams(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		pool := randomPool(t, r, 4+r.Intn(8))
		p := Suggest(pool, 2)[StrategySnake].Partition
		id := p.Teams[0].Members[0].ID

		there, err := Move(p, id, 0, 1)
		require.NoError(t, err)
		back, err := Move(there, id, 1, 0)
		require.NoError(t, err)

		assert.Equal(t, partitionIDs(p), partitionIDs(back))
		for slot := range p.Teams {
			assert.ElementsMatch(t, p.Teams[slot].Members, back.Teams[slot].Members)
			assert.Equal(t, p.Teams[slot].Total(), back.Teams[slot].Total())
			assert.Equal(t, p.Teams[slot].Bonus(), back.Teams[slot].Bonus())
			assert.Equal(t, p.Teams[slot].WinChance(), back.Teams[slot].WinChance())
		}
	}
}

func TestMoveRoundTripRestoresWinChances(t *testing.T) {
	p := threeTeams(t)

	there, err := Move(p, "e", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, sumWinChances(there))
	assert.Equal(t, p.Teams[0].WinChance(), there.Teams[0].WinChance())

	back, err := Move(there, "e", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, winChances(p), winChances(back))
	assert.Equal(t, p.Teams[2].Total(), back.Teams[2].Total())

	again, err := Move(back, "e", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, winChances(there), winChances(again))
}

func TestMoveRoundTripManyTeams(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for _, teams := range []int{3, 4} {
		for i := 0; i < 40; i++ {
			pool := randomPool(t, r, 2*teams+r.Intn(2*teams))
			p := Suggest(pool, teams)[StrategySnake].Partition
			from, to := r.Intn(teams), r.Intn(teams-1)
			if to >= from {
				to++
			}
			id := p.Teams[from].Members[r.Intn(len(p.Teams[from].Members))].ID

			there, err := Move(p, id, from, to)
			require.NoError(t, err)
			require.Equal(t, 100, sumWinChances(there))
			for slot := range p.Teams {
				if slot != from && slot != to {
					assert.Equal(t, p.Teams[slot], there.Teams[slot])
				}
			}

			back, err := Move(there, id, to, from)
			require.NoError(t, err)
			assert.Equal(t, winChances(p), winChances(back), "teams %d, move %s %d->%d", teams, id, from, to)
		}
	}
}

func TestMoveDoesNotLeakAcrossSuggestions(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	suggestions := Suggest(randomPool(t, r, 8), 2)
	require.Len(t, suggestions, 3)

	before := []Partition{suggestions[1].Partition.Clone(), suggestions[2].Partition.Clone()}

	first := suggestions[0].Partition
	moved, err := Move(first, first.Teams[0].Members[0].ID, 0, 1)
	require.NoError(t, err)
	moved.Teams[1].Members[0] = moved.Teams[0].Members[0]

	assert.Equal(t, before[0], suggestions[1].Partition)
	assert.Equal(t, before[1], suggestions[2].Partition)
}
