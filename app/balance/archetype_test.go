package balance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	attackingAnswers  = NeutralAnswers
	passiveAnswers    = Answers{EarlyGame: StrengthAverage, PrefersBoom: true, LateGame: StrengthAverage}
	aggressiveAnswers = Answers{EarlyGame: StrengthStrong, LateGame: StrengthAverage}
	breakerAnswers    = Answers{EarlyGame: StrengthAverage, LateGame: StrengthStrong}
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		base      int
		answers   Answers
		delta     int
		adjusted  int
		archetype Archetype
	}{
		{"neutral", 1400, NeutralAnswers, 60, 1460, Attacking},
		{"strong early weak late", 1400, Answers{StrengthStrong, false, StrengthWeak}, 90, 1490, Aggressive},
		{"strong late wins over strong early", 1000, Answers{StrengthStrong, true, StrengthStrong}, 130, 1130, Breaker},
		{"weak early boomer strong late", 1200, Answers{StrengthWeak, true, StrengthStrong}, 0, 1200, Breaker},
		{"boomer", 1500, passiveAnswers, 20, 1520, Passive},
		{"weak late", 1500, Answers{StrengthAverage, false, StrengthWeak}, 10, 1510, Passive},
		{"weak early only", 1500, Answers{StrengthWeak, false, StrengthAverage}, 10, 1510, Attacking},
		{"floored at zero", 50, Answers{StrengthWeak, true, StrengthWeak}, -80, 0, Passive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.base, tt.answers)
			assert.Equal(t, tt.delta, c.Delta)
			assert.Equal(t, tt.adjusted, c.Adjusted)
			assert.Equal(t, tt.archetype, c.Archetype)
			assert.Equal(t, c, Classify(tt.base, tt.answers), "classification must be deterministic")
		})
	}
}

func TestClassifyAdjustedNeverNegative(t *testing.T) {
	strengths := []Strength{StrengthWeak, StrengthAverage, StrengthStrong}
	for _, base := range []int{0, 1, 29, 80, 1400} {
		for _, early := range strengths {
			for _, late := range strengths {
				for _, boom := range []bool{false, true} {
					c := Classify(base, Answers{early, boom, late})
					assert.GreaterOrEqual(t, c.Adjusted, 0)
					assert.Equal(t, max(0, base+c.Delta), c.Adjusted)
				}
			}
		}
	}
}

func TestParseAnswers(t *testing.T) {
	for in, want := range map[string]Strength{
		"":        StrengthAverage,
		"weak":    StrengthWeak,
		"KOTU":    StrengthWeak,
		"Normal":  StrengthAverage,
		"average": StrengthAverage,
		"IYI":     StrengthStrong,
		" strong": StrengthStrong,
	} {
		got, err := ParseStrength(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStrength("great")
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	for in, want := range map[string]bool{"": false, "EVET": true, "yes": true, "hayir": false, "no": false} {
		got, err := ParseYesNo(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err = ParseYesNo("maybe")
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestAnswersDefaultsAndValidate(t *testing.T) {
	assert.Equal(t, NeutralAnswers, Answers{}.WithDefaults())
	assert.NoError(t, NeutralAnswers.Validate())
	assert.ErrorIs(t, Answers{EarlyGame: "meh", LateGame: StrengthAverage}.Validate(), ErrInvalidAnswer)
	assert.ErrorIs(t, Answers{EarlyGame: StrengthAverage, LateGame: "x"}.Validate(), ErrInvalidAnswer)
	assert.Equal(t, "average/yes/average", passiveAnswers.String())
}

func TestArchetypeText(t *testing.T) {
	for _, a := range []Archetype{Passive, Attacking, Aggressive, Breaker} {
		b, err := a.MarshalText()
		require.NoError(t, err)

		var got Archetype
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "YIKICI", Breaker.String())

	var a Archetype
	assert.Error(t, a.UnmarshalText([]byte("TANK")))
}

func TestAnswersJSON(t *testing.T) {
	var a Answers
	require.NoError(t, json.Unmarshal([]byte(`{"early_game":"IYI","prefers_boom":true,"late_game":"kotu"}`), &a))
	assert.Equal(t, Answers{EarlyGame: StrengthStrong, PrefersBoom: true, LateGame: StrengthWeak}, a)

	err := json.Unmarshal([]byte(`{"early_game":"superb"}`), &a)
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}
