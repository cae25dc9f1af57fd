// Package game implements the progression engine: the XP curve, level
// transitions, stat mutation and habit streak derivation. Everything here is
// pure computation; functions take a snapshot and return a new snapshot,
// callers own persistence.
package game

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/solo-life/service_layer/internal/domain"
	"github.com/solo-life/service_layer/internal/errors"
)

const (
	// XPBase is the XP cost of the first level step.
	XPBase = 100.0

	// XPGrowth is the per-level multiplier of the curve:
	// XPForLevel(n) = floor(XPBase * XPGrowth^(n-1)).
	XPGrowth = 1.5

	// StartingTitle is granted on player creation.
	StartingTitle = "Novato"
)

// XPForLevel returns the XP cost of the step that ends at the given level.
// The curve is strictly increasing for level >= 1.
func XPForLevel(level int) int {
	if level < 1 {
		return 0
	}
	return int(math.Floor(XPBase * math.Pow(XPGrowth, float64(level-1))))
}

// LevelForTotalXP converts lifetime XP into a level by walking the curve.
func LevelForTotalXP(totalXP int) int {
	level := 1
	xpNeeded := 0

	for xpNeeded <= totalXP {
		xpNeeded += XPForLevel(level)
		if xpNeeded <= totalXP {
			level++
		}
	}
	return level
}

// TotalXPForLevel returns the lifetime XP accumulated by a player standing at
// the start of the given level, i.e. the sum of all prior level steps.
func TotalXPForLevel(level int) int {
	total := 0
	for l := 1; l < level; l++ {
		total += XPForLevel(l)
	}
	return total
}

// XPResult is the outcome of an AddXP call.
type XPResult struct {
	Player    domain.Player `json:"player"`
	LeveledUp bool          `json:"leveledUp"`
	NewLevel  int           `json:"newLevel,omitempty"`
}

// AddXP adds amount to the player's current XP. When the cached next-level
// threshold is crossed the level advances by exactly one, the remainder is
// carried over and the threshold is recomputed for the new level. A single
// call never advances more than one level. Negative amounts are rejected.
func AddXP(p domain.Player, amount int) (XPResult, error) {
	if amount < 0 {
		return XPResult{}, errors.Validation("xp amount must be non-negative").WithDetails("amount", amount)
	}

	newCurrent := p.CurrentXP + amount

	if p.XPToNextLevel > 0 && newCurrent >= p.XPToNextLevel {
		newLevel := p.Level + 1
		p.CurrentXP = newCurrent - p.XPToNextLevel
		p.Level = newLevel
		p.XPToNextLevel = XPForLevel(newLevel + 1)
		return XPResult{Player: p, LeveledUp: true, NewLevel: newLevel}, nil
	}

	p.CurrentXP = newCurrent
	return XPResult{Player: p}, nil
}

// UpdateStat adds delta (signed) to the named stat, clamped at a floor of
// zero. There is no ceiling.
func UpdateStat(p domain.Player, stat domain.StatName, delta int) (domain.Player, error) {
	if !stat.Valid() {
		return domain.Player{}, errors.Validation("unknown stat").WithDetails("stat", string(stat))
	}

	value := p.Stats.Get(stat) + delta
	if value < 0 {
		value = 0
	}
	p.Stats.Set(stat, value)
	return p, nil
}

// LevelProgress reports current XP against the next threshold as a capped
// percentage for display.
func LevelProgress(p domain.Player) (currentXP, xpToNextLevel int, percent float64) {
	if p.XPToNextLevel <= 0 {
		return p.CurrentXP, p.XPToNextLevel, 0
	}
	percent = float64(p.CurrentXP) / float64(p.XPToNextLevel) * 100
	if percent > 100 {
		percent = 100
	}
	return p.CurrentXP, p.XPToNextLevel, percent
}

// StatRank maps a stat value to its letter rank.
func StatRank(value int) string {
	switch {
	case value >= 100:
		return "S"
	case value >= 80:
		return "A"
	case value >= 60:
		return "B"
	case value >= 40:
		return "C"
	case value >= 20:
		return "D"
	default:
		return "E"
	}
}

// NewPlayer creates a fresh level-1 player record.
func NewPlayer(name string) domain.Player {
	now := time.Now().UTC()
	return domain.Player{
		ID:            uuid.NewString(),
		Name:          name,
		Level:         1,
		CurrentXP:     0,
		XPToNextLevel: XPForLevel(2),
		Stats: domain.Stats{
			Willpower:    10,
			Intelligence: 10,
			Vitality:     10,
			Wealth:       0,
		},
		Titles:     []string{StartingTitle},
		CreatedAt:  now,
		LastActive: now,
	}
}
