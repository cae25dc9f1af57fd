package domain

import "time"

// WorkoutType classifies a training session.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutSports      WorkoutType = "sports"
	WorkoutOther       WorkoutType = "other"
)

// WorkoutExercise is one exercise within a session template or log.
type WorkoutExercise struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Sets     int    `json:"sets,omitempty"`
	Reps     int    `json:"reps,omitempty"`
	Duration int    `json:"duration,omitempty"` // minutes
	Notes    string `json:"notes,omitempty"`
}

// WorkoutSession is a reusable training template.
type WorkoutSession struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Type      WorkoutType       `json:"type"`
	Exercises []WorkoutExercise `json:"exercises"`
	Duration  int               `json:"duration,omitempty"` // minutes
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// WorkoutLog records one performed session.
type WorkoutLog struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"sessionId"`
	SessionName string            `json:"sessionName"`
	Date        string            `json:"date"`
	Duration    int               `json:"duration"`
	Exercises   []WorkoutExercise `json:"exercises"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
