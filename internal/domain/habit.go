package domain

import "time"

// HabitCategory groups habits for display and daily-mission filtering.
type HabitCategory string

const (
	CategoryHealth     HabitCategory = "health"
	CategoryStudy      HabitCategory = "study"
	CategoryCreativity HabitCategory = "creativity"
	CategoryFinance    HabitCategory = "finance"
	CategorySocial     HabitCategory = "social"
)

// HabitFrequency is how often a habit is expected to be completed.
type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
)

// StatReward is an attribute bonus granted on habit completion.
type StatReward struct {
	Stat   StatName `json:"stat"`
	Amount int      `json:"amount"`
}

// Penalty is applied when a habit is repeatedly missed.
type Penalty struct {
	Type   string   `json:"type"` // "xp" or "stat"
	Amount int      `json:"amount"`
	Stat   StatName `json:"stat,omitempty"`
}

// Habit is a recurring user commitment. CompletionHistory holds RFC 3339
// timestamps at date-only granularity: a habit counts as completed for a
// calendar day when any entry shares that day. Streak is derived and is
// recomputed from CompletionHistory after every history mutation.
type Habit struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Category          HabitCategory  `json:"category"`
	Frequency         HabitFrequency `json:"frequency"`
	XPReward          int            `json:"xpReward"`
	StatReward        *StatReward    `json:"statReward,omitempty"`
	Penalty           *Penalty       `json:"penalty,omitempty"`
	Streak            int            `json:"streak"`
	CompletionHistory []string       `json:"completionHistory"`
	CreatedAt         time.Time      `json:"createdAt"`
	Active            bool           `json:"active"`
}

// CompletedOn reports whether the habit has a history entry on the given
// calendar day. day must be formatted as 2006-01-02.
func (h *Habit) CompletedOn(day string) bool {
	for _, entry := range h.CompletionHistory {
		if len(entry) >= len(day) && entry[:len(day)] == day {
			return true
		}
	}
	return false
}

// DailyMission is the projection of an active daily habit onto today.
type DailyMission struct {
	ID         string        `json:"id"`
	HabitID    string        `json:"habitId"`
	Name       string        `json:"name"`
	Category   HabitCategory `json:"category"`
	Completed  bool          `json:"completed"`
	XPReward   int           `json:"xpReward"`
	StatReward *StatReward   `json:"statReward,omitempty"`
}
