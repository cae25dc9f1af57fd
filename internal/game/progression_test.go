package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
)

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 150, XPForLevel(2))
	assert.Equal(t, 225, XPForLevel(3))
	assert.Equal(t, 0, XPForLevel(0))
}

func TestXPForLevelMonotone(t *testing.T) {
	for level := 1; level < 40; level++ {
		assert.Greater(t, XPForLevel(level+1), XPForLevel(level), "level %d", level)
	}
}

func TestAddXPNoLevelUp(t *testing.T) {
	p := NewPlayer("Jin")
	res, err := AddXP(p, 50)
	require.NoError(t, err)

	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.Player.Level)
	assert.Equal(t, 50, res.Player.CurrentXP)
	assert.Less(t, res.Player.CurrentXP, res.Player.XPToNextLevel)
}

func TestAddXPLevelUp(t *testing.T) {
	p := domain.Player{Level: 1, CurrentXP: 90, XPToNextLevel: 100}

	res, err := AddXP(p, 20)
	require.NoError(t, err)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, 2, res.Player.Level)
	assert.Equal(t, 10, res.Player.CurrentXP)
	assert.Equal(t, XPForLevel(3), res.Player.XPToNextLevel)
}

func TestAddXPSingleLevelPerCall(t *testing.T) {
	// A huge grant crosses one threshold only; the remainder is not
	// re-checked against the new threshold.
	p := domain.Player{Level: 1, CurrentXP: 0, XPToNextLevel: 100}

	res, err := AddXP(p, 1000)
	require.NoError(t, err)

	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Player.Level)
	assert.Equal(t, 900, res.Player.CurrentXP)
}

func TestAddXPRejectsNegative(t *testing.T) {
	_, err := AddXP(NewPlayer("Jin"), -1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestAddXPLevelUpInvariant(t *testing.T) {
	p := NewPlayer("Jin")
	for _, amount := range []int{0, 1, 99, 100, 149, 151, 400} {
		res, err := AddXP(p, amount)
		require.NoError(t, err)
		if res.LeveledUp {
			assert.Equal(t, p.Level+1, res.Player.Level)
		} else {
			assert.Equal(t, p.Level, res.Player.Level)
		}
	}
}

func TestUpdateStatFloor(t *testing.T) {
	p := NewPlayer("Jin")

	p2, err := UpdateStat(p, domain.StatVitality, -1000)
	require.NoError(t, err)
	assert.Equal(t, 0, p2.Stats.Vitality)

	p3, err := UpdateStat(p2, domain.StatVitality, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p3.Stats.Vitality)

	// Pure: input snapshots untouched.
	assert.Equal(t, 10, p.Stats.Vitality)
	assert.Equal(t, 0, p2.Stats.Vitality)
}

func TestUpdateStatUnknown(t *testing.T) {
	_, err := UpdateStat(NewPlayer("Jin"), domain.StatName("luck"), 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidation))
}

func TestStatRank(t *testing.T) {
	cases := []struct {
		value int
		rank  string
	}{
		{0, "E"}, {19, "E"}, {20, "D"}, {40, "C"}, {60, "B"}, {80, "A"}, {100, "S"}, {250, "S"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.rank, StatRank(tc.value), "value %d", tc.value)
	}
}

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("Jin")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.CurrentXP)
	assert.Equal(t, XPForLevel(2), p.XPToNextLevel)
	assert.Equal(t, domain.Stats{Willpower: 10, Intelligence: 10, Vitality: 10, Wealth: 0}, p.Stats)
	assert.Equal(t, []string{StartingTitle}, p.Titles)
}

func TestLevelProgress(t *testing.T) {
	p := domain.Player{Level: 1, CurrentXP: 50, XPToNextLevel: 100}
	cur, next, pct := LevelProgress(p)
	assert.Equal(t, 50, cur)
	assert.Equal(t, 100, next)
	assert.InDelta(t, 50.0, pct, 0.001)

	p.CurrentXP = 300
	_, _, pct = LevelProgress(p)
	assert.InDelta(t, 100.0, pct, 0.001)
}

func TestLevelForTotalXP(t *testing.T) {
	assert.Equal(t, 1, LevelForTotalXP(0))
	assert.Equal(t, 1, LevelForTotalXP(99))
	assert.Equal(t, 2, LevelForTotalXP(100))
	assert.Equal(t, 3, LevelForTotalXP(100+150))
}

func TestTotalXPForLevelInvertsLevel(t *testing.T) {
	assert.Equal(t, 0, TotalXPForLevel(1))
	assert.Equal(t, 100, TotalXPForLevel(2))
	for level := 1; level <= 12; level++ {
		assert.Equal(t, level, LevelForTotalXP(TotalXPForLevel(level)), "level %d", level)
	}
}
