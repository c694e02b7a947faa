package balance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAnswer is returned for survey answers outside of the fixed enumeration.
var ErrInvalidAnswer = errors.New("invalid survey answer")

// Strength is a self-reported strength in one phase of the game.
type Strength string

// Strength values.
const (
	StrengthWeak    Strength = "weak"
	StrengthAverage Strength = "average"
	StrengthStrong  Strength = "strong"
)

// ParseStrength parses a strength, accepting the league's Turkish labels
// (KOTU, NORMAL, IYI) as well. Empty input means "not answered" and yields
// the neutral value.
func ParseStrength(s string) (Strength, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StrengthAverage, nil
	case "weak", "kotu", "kötü":
		return StrengthWeak, nil
	case "average", "normal":
		return StrengthAverage, nil
	case "strong", "iyi":
		return StrengthStrong, nil
	}
	return "", fmt.Errorf("%w: strength %q", ErrInvalidAnswer, s)
}

// ParseYesNo parses the answer to a yes/no question, accepting EVET/HAYIR.
// Empty input yields "no", the neutral value.
func ParseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "n", "false", "hayir", "hayır":
		return false, nil
	case "yes", "y", "true", "evet":
		return true, nil
	}
	return false, fmt.Errorf("%w: yes/no %q", ErrInvalidAnswer, s)
}

// UnmarshalText accepts every spelling ParseStrength does.
func (s *Strength) UnmarshalText(b []byte) error {
	v, err := ParseStrength(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s Strength) valid() bool {
	return s == StrengthWeak || s == StrengthAverage || s == StrengthStrong
}

// Answers are the three play-style survey answers of a competitor.
type Answers struct {
	EarlyGame   Strength `json:"early_game" yaml:"early_game"`     // q1
	PrefersBoom bool     `json:"prefers_boom" yaml:"prefers_boom"` // q2, slow economic play
	LateGame    Strength `json:"late_game" yaml:"late_game"`       // q3
}

// NeutralAnswers is what a competitor gets when the survey was not filled in.
var NeutralAnswers = Answers{EarlyGame: StrengthAverage, LateGame: StrengthAverage}

// WithDefaults replaces unanswered strengths with the neutral value.
func (a Answers) WithDefaults() Answers {
	if a.EarlyGame == "" {
		a.EarlyGame = StrengthAverage
	}
	if a.LateGame == "" {
		a.LateGame = StrengthAverage
	}
	return a
}

// Validate checks that both strengths belong to the enumeration.
func (a Answers) Validate() error {
	if !a.EarlyGame.valid() {
		return fmt.Errorf("%w: early game %q", ErrInvalidAnswer, a.EarlyGame)
	}
	if !a.LateGame.valid() {
		return fmt.Errorf("%w: late game %q", ErrInvalidAnswer, a.LateGame)
	}
	return nil
}

// String returns answers in the "early/boom/late" form used by the bot.
func (a Answers) String() string {
	boom := "no"
	if a.PrefersBoom {
		boom = "yes"
	}
	return fmt.Sprintf("%s/%s/%s", a.EarlyGame, boom, a.LateGame)
}
