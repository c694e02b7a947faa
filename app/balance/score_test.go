package balance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositionBonus(t *testing.T) {
	assert.Equal(t, 0, compositionBonus(0))
	assert.Equal(t, 0, compositionBonus(1))
	assert.Equal(t, 50, compositionBonus(2))
	assert.Equal(t, 100, compositionBonus(3))
	assert.Equal(t, 100, compositionBonus(5))
}

func TestThreeAttackersGetFullBonus(t *testing.T) {
	p := Score(newPartition([][]Competitor{
		{
			competitor(t, "a1", 1500, attackingAnswers),
			competitor(t, "a2", 1400, attackingAnswers),
			competitor(t, "a3", 1300, attackingAnswers),
		},
		{
			competitor(t, "a4", 1600, attackingAnswers),
			competitor(t, "p1", 1500, passiveAnswers),
			competitor(t, "p2", 1400, passiveAnswers),
		},
	}))

	assert.Equal(t, 100, p.Teams[0].Bonus())
	assert.Equal(t, 4380, p.Teams[0].AdjustedTotal())
	assert.Equal(t, 4480, p.Teams[0].Total())
	assert.Equal(t, 0, p.Teams[1].Bonus())
	assert.Equal(t, 100, sumWinChances(p))
}

func TestDraftedAttackersGetFullBonus(t *testing.T) {
	// four attackers and two passive players, seeded so the snake order
	// deals three of the attackers to team 0
	pool := []Competitor{
		competitor(t, "p1", 1900, passiveAnswers),
		competitor(t, "a4", 1600, attackingAnswers),
		competitor(t, "a1", 1900, attackingAnswers),
		competitor(t, "a3", 1690, attackingAnswers),
		competitor(t, "p2", 1880, passiveAnswers),
		competitor(t, "a2", 1700, attackingAnswers),
	}

	snake, ok := SnakeDraft(pool, 2)
	require.True(t, ok)
	p := Score(snake)
	assert.ElementsMatch(t, []string{"a1", "a2", "a3"}, teamIDs(p.Teams[0]))
	assert.Equal(t, 3, p.Teams[0].Count(Attacking))
	assert.Equal(t, 100, p.Teams[0].Bonus())
	assert.Equal(t, 1960+1760+1750+100, p.Teams[0].Total())
	assert.Equal(t, 0, p.Teams[1].Bonus())

	for _, sg := range Suggest(pool, 2) {
		for slot, team := range sg.Partition.Teams {
			assert.Equal(t, compositionBonus(team.Count(Attacking)), team.Bonus(),
				"%s team %d", sg.Strategy, slot)
			if team.Count(Attacking) >= 3 {
				assert.Equal(t, 100, team.Bonus(), "%s team %d", sg.Strategy, slot)
			}
		}
	}
}

func teamIDs(t Team) []string {
	ids := make([]string, 0, len(t.Members))
	for _, c := range t.Members {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestCompositionScore(t *testing.T) {
	team := func(answers ...Answers) Team {
		var members []Competitor
		for i, a := range answers {
			members = append(members, competitor(t, string(rune('a'+i)), 1400, a))
		}
		return newPartition([][]Competitor{members}).Teams[0]
	}

	tests := []struct {
		name  string
		team  Team
		score int
	}{
		{"empty", Team{}, 50},
		{"two aggressive", team(aggressiveAnswers, aggressiveAnswers), 60},
		{"full combo", team(attackingAnswers, attackingAnswers, aggressiveAnswers, breakerAnswers), 75},
		{"three passive", team(passiveAnswers, passiveAnswers, passiveAnswers), 30},
		{"two passive", team(passiveAnswers, passiveAnswers, attackingAnswers), 40},
		{"aggressive and attacking", team(aggressiveAnswers, aggressiveAnswers, attackingAnswers), 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.score, compositionScore(tt.team))
		})
	}
}

func TestStrengthsHighestAndLowest(t *testing.T) {
	p := newPartition([][]Competitor{
		{competitor(t, "a", 1500, NeutralAnswers)},
		{competitor(t, "b", 1700, NeutralAnswers)},
		{competitor(t, "c", 1300, NeutralAnswers)},
		{competitor(t, "d", 1700, NeutralAnswers)},
	})
	assert.Equal(t, []int{50, 60, 40, 60}, strengths(p.Teams))

	even := newPartition([][]Competitor{
		{competitor(t, "a", 1500, NeutralAnswers)},
		{competitor(t, "b", 1500, NeutralAnswers)},
	})
	assert.Equal(t, []int{50, 50}, strengths(even.Teams))

	single := newPartition([][]Competitor{{competitor(t, "a", 1500, NeutralAnswers)}})
	assert.Equal(t, []int{50}, strengths(single.Teams))
}

func TestDistribute(t *testing.T) {
	assert.Equal(t, []int{71, 29}, distribute([]int{75, 30}, 100))
	assert.Equal(t, []int{34, 33, 33}, distribute([]int{50, 50, 50}, 100))
	assert.Equal(t, []int{99, 1}, distribute([]int{1000, 1}, 100))
	assert.Equal(t, []int{100}, distribute([]int{42}, 100))
	assert.Equal(t, []int{30, 30}, distribute([]int{50, 50}, 60))
	assert.Equal(t, []int{50, 50}, distribute([]int{0, 0}, 100))
	assert.Equal(t, []int{2, 98}, distribute([]int{-20, 50}, 100), "raw scores are clamped first")
	assert.Empty(t, distribute(nil, 100))
}

func TestScoreKeepsMembershipAndTotals(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		n := 2 + r.Intn(12)
		teamCount := 1 + r.Intn(4)
		if teamCount > n {
			continue
		}
		p, ok := OffsetDraft(randomPool(t, r, n), teamCount)
		require.True(t, ok)

		scored := Score(p)
		require.Len(t, scored.Teams, teamCount)
		assert.Equal(t, 100, sumWinChances(scored))
		for slot := range p.Teams {
			assert.Equal(t, p.Teams[slot].Members, scored.Teams[slot].Members)
			assert.Equal(t, p.Teams[slot].Total(), scored.Teams[slot].Total())
			assert.Equal(t, p.Teams[slot].BaseTotal(), scored.Teams[slot].BaseTotal())
			assert.Equal(t, 0, p.Teams[slot].WinChance(), "input must stay unscored")
		}
	}
}
