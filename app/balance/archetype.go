package balance

import "fmt"

// Archetype is a behavioral label derived from the survey answers.
type Archetype uint8

// Archetypes, in the order they are counted per team.
const (
	Passive    Archetype = iota // PASIF
	Attacking                   // ATAK
	Aggressive                  // AGRESIF
	Breaker                     // YIKICI

	numArchetypes = 4
)

var archetypeNames = [numArchetypes]string{"PASIF", "ATAK", "AGRESIF", "YIKICI"}

// String returns the league's label of the archetype.
func (a Archetype) String() string {
	if a < numArchetypes {
		return archetypeNames[a]
	}
	return fmt.Sprintf("Archetype(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Archetype) MarshalText() ([]byte, error) {
	if a >= numArchetypes {
		return nil, fmt.Errorf("unknown archetype %d", uint8(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Archetype) UnmarshalText(b []byte) error {
	for i, name := range archetypeNames {
		if name == string(b) {
			*a = Archetype(i)
			return nil
		}
	}
	return fmt.Errorf("unknown archetype %q", string(b))
}

// Classification is the outcome of classifying a competitor.
type Classification struct {
	Delta     int
	Adjusted  int
	Archetype Archetype
}

// Classify derives the skill delta, adjusted rating and archetype from a base
// rating and validated survey answers.
func Classify(base int, a Answers) Classification {
	delta := strengthDelta(a.EarlyGame, -30, 20, 100)
	if a.PrefersBoom {
		delta -= 20
	} else {
		delta += 20
	}
	delta += strengthDelta(a.LateGame, -30, 20, 50)

	return Classification{
		Delta:     delta,
		Adjusted:  max(0, base+delta),
		Archetype: archetypeOf(a),
	}
}

func strengthDelta(s Strength, weak, average, strong int) int {
	switch s {
	case StrengthWeak:
		return weak
	case StrengthStrong:
		return strong
	default:
		return average
	}
}

// archetypeOf checks late game first: a strong late game always wins over
// a strong early game.
func archetypeOf(a Answers) Archetype {
	switch {
	case a.LateGame == StrengthStrong:
		return Breaker
	case a.EarlyGame == StrengthStrong:
		return Aggressive
	case a.PrefersBoom || a.LateGame == StrengthWeak:
		return Passive
	default:
		return Attacking
	}
}
