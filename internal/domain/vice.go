package domain

import "time"

// ViceSeverity grades how damaging a vice is.
type ViceSeverity string

const (
	SeverityLow    ViceSeverity = "low"
	SeverityMedium ViceSeverity = "medium"
	SeverityHigh   ViceSeverity = "high"
)

// Vice is a habit being quit. RelapseHistory holds RFC 3339 timestamps;
// DaysClean is counted from the most recent relapse (or creation when none).
type Vice struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description,omitempty"`
	Severity            ViceSeverity `json:"severity"`
	TriggerSituations   []string     `json:"triggerSituations,omitempty"`
	AlternativeBehavior string       `json:"alternativeBehavior,omitempty"`
	DaysClean           int          `json:"daysClean"`
	LastRelapse         string       `json:"lastRelapse,omitempty"`
	RelapseHistory      []string     `json:"relapseHistory"`
	CreatedAt           time.Time    `json:"createdAt"`
	Active              bool         `json:"active"`
}
