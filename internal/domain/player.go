// Package domain defines the entities persisted per user: the player
// progression record, habits, finances, achievements, media items, vices and
// workouts.
package domain

import "time"

// StatName identifies one of the four player attributes.
type StatName string

const (
	StatWillpower    StatName = "willpower"
	StatIntelligence StatName = "intelligence"
	StatVitality     StatName = "vitality"
	StatWealth       StatName = "wealth"
)

// StatNames lists all attributes in display order.
var StatNames = []StatName{StatWillpower, StatIntelligence, StatVitality, StatWealth}

// Valid reports whether s names a known attribute.
func (s StatName) Valid() bool {
	switch s {
	case StatWillpower, StatIntelligence, StatVitality, StatWealth:
		return true
	}
	return false
}

// Stats holds the four attribute values. Values never go below zero.
type Stats struct {
	Willpower    int `json:"willpower"`
	Intelligence int `json:"intelligence"`
	Vitality     int `json:"vitality"`
	Wealth       int `json:"wealth"`
}

// Get returns the value of the named attribute.
func (s Stats) Get(name StatName) int {
	switch name {
	case StatWillpower:
		return s.Willpower
	case StatIntelligence:
		return s.Intelligence
	case StatVitality:
		return s.Vitality
	case StatWealth:
		return s.Wealth
	}
	return 0
}

// Set overwrites the value of the named attribute.
func (s *Stats) Set(name StatName, value int) {
	switch name {
	case StatWillpower:
		s.Willpower = value
	case StatIntelligence:
		s.Intelligence = value
	case StatVitality:
		s.Vitality = value
	case StatWealth:
		s.Wealth = value
	}
}

// Player is the per-user progression record. CurrentXP counts toward the next
// level only, not lifetime total; XPToNextLevel is cached for display and kept
// consistent by the game package on every mutation.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Avatar        string    `json:"avatar,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Level         int       `json:"level"`
	CurrentXP     int       `json:"currentXP"`
	XPToNextLevel int       `json:"xpToNextLevel"`
	Stats         Stats     `json:"stats"`
	Titles        []string  `json:"titles"`
	CreatedAt     time.Time `json:"createdAt"`
	LastActive    time.Time `json:"lastActive"`
}

// HasTitle reports whether the player already unlocked the title.
func (p *Player) HasTitle(title string) bool {
	for _, t := range p.Titles {
		if t == title {
			return true
		}
	}
	return false
}

// AddTitle appends the title if not yet unlocked, preserving insertion order.
func (p *Player) AddTitle(title string) {
	if !p.HasTitle(title) {
		p.Titles = append(p.Titles, title)
	}
}
