package balance

import (
	"errors"
	"fmt"
)

// DefaultRating is used for competitors whose rating is unknown.
const DefaultRating = 1400

// ErrInvalidRating is returned for negative base ratings.
var ErrInvalidRating = errors.New("invalid rating")

// Competitor is a member of the pool. Delta, adjusted rating and archetype
// are derived from the base rating and the answers and can't be set directly.
type Competitor struct {
	ID         string
	Name       string
	BaseRating int
	Answers    Answers

	class Classification
}

// NewCompetitor validates the input and classifies the competitor.
// Unanswered questions default to the neutral answers.
func NewCompetitor(id, name string, base int, answers Answers) (Competitor, error) {
	if base < 0 {
		return Competitor{}, fmt.Errorf("%w: %d", ErrInvalidRating, base)
	}
	answers = answers.WithDefaults()
	if err := answers.Validate(); err != nil {
		return Competitor{}, err
	}

	return Competitor{
		ID:         id,
		Name:       name,
		BaseRating: base,
		Answers:    answers,
		class:      Classify(base, answers),
	}, nil
}

// WithRating returns a copy of the competitor with a new base rating.
func (c Competitor) WithRating(base int) (Competitor, error) {
	return NewCompetitor(c.ID, c.Name, base, c.Answers)
}

// WithAnswers returns a copy of the competitor with new survey answers.
func (c Competitor) WithAnswers(a Answers) (Competitor, error) {
	return NewCompetitor(c.ID, c.Name, c.BaseRating, a)
}

// WithName returns a renamed copy of the competitor.
func (c Competitor) WithName(name string) Competitor {
	c.Name = name
	return c
}

// Delta returns the skill delta derived from the answers.
func (c Competitor) Delta() int { return c.class.Delta }

// Adjusted returns max(0, base rating + delta).
func (c Competitor) Adjusted() int { return c.class.Adjusted }

// Archetype returns the derived archetype.
func (c Competitor) Archetype() Archetype { return c.class.Archetype }

// Tier returns the display star tier (0-6) for the adjusted rating.
func (c Competitor) Tier() int {
	switch r := c.Adjusted(); {
	case r >= 1801:
		return 6
	case r >= 1499:
		return 5
	case r >= 1301:
		return 4
	case r >= 1201:
		return 3
	case r >= 1001:
		return 2
	case r >= 800:
		return 1
	default:
		return 0
	}
}

// String returns "name (adjusted, archetype)".
func (c Competitor) String() string {
	return fmt.Sprintf("%s (%d, %s)", c.Name, c.Adjusted(), c.Archetype())
}
