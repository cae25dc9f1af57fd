package domain

import "time"

// SubTask is one step of a long-term achievement.
type SubTask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	XPReward  int    `json:"xpReward"`
}

// Achievement is a long-term goal tracked through sub-tasks. Progress is a
// 0-100 percentage derived from completed sub-tasks.
type Achievement struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	SubTasks      []SubTask `json:"subTasks"`
	TotalXPReward int       `json:"totalXPReward"`
	TitleReward   string    `json:"titleReward,omitempty"`
	Progress      int       `json:"progress"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	CompletedAt   string    `json:"completedAt,omitempty"`
}
