package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobylevd/team-balancer/app/balance"
)

const sample = `
players:
  - id: "1"
    name: Kral
    elo: 1800
    early_game: IYI
    prefers_boom: hayir
    late_game: NORMAL
  - id: "2"
    name: Acemi
    late_game: strong
  - name: Misafir
    elo: 1100
    prefers_boom: "yes"
`

func TestParse(t *testing.T) {
	ros, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, ros.Players, 3)
	assert.NotEmpty(t, ros.Players[2].ID, "missing id is generated")

	pool, err := ros.Competitors(1400)
	require.NoError(t, err)
	require.Len(t, pool, 3)

	assert.Equal(t, 1800, pool[0].BaseRating)
	assert.Equal(t, balance.Aggressive, pool[0].Archetype())
	assert.Equal(t, 1940, pool[0].Adjusted())

	assert.Equal(t, 1400, pool[1].BaseRating)
	assert.Equal(t, balance.Breaker, pool[1].Archetype())

	assert.Equal(t, balance.Passive, pool[2].Archetype())
	assert.Equal(t, 1120, pool[2].Adjusted())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("players:\n  - nme: typo\n"))
	assert.Error(t, err, "unknown fields are rejected")

	ros, err := Parse(strings.NewReader("players:\n  - name: x\n    early_game: superb\n"))
	require.NoError(t, err)
	_, err = ros.Competitors(1400)
	assert.ErrorIs(t, err, balance.ErrInvalidAnswer)

	ros, err = Parse(strings.NewReader("players:\n  - name: x\n    elo: -3\n"))
	require.NoError(t, err)
	_, err = ros.Competitors(1400)
	assert.ErrorIs(t, err, balance.ErrInvalidRating)

	ros, err = Parse(strings.NewReader("players:\n  - id: a\n  - id: a\n"))
	require.NoError(t, err)
	_, err = ros.Competitors(1400)
	assert.Error(t, err)

	ros, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, ros.Players)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	ros, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, ros.Players, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
