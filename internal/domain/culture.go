package domain

import "time"

// CultureType classifies a reading/media item.
type CultureType string

const (
	CultureBook   CultureType = "book"
	CultureSeries CultureType = "series"
	CultureAnime  CultureType = "anime"
	CultureManga  CultureType = "manga"
)

// CultureStatus tracks consumption state.
type CultureStatus string

const (
	CulturePlanning   CultureStatus = "planning"
	CultureInProgress CultureStatus = "in-progress"
	CultureCompleted  CultureStatus = "completed"
	CultureDropped    CultureStatus = "dropped"
	CultureOnHold     CultureStatus = "on-hold"
)

// CultureProgress tracks position within an item.
type CultureProgress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Unit    string `json:"unit"` // pages, episodes, chapters
}

// CultureItem is a book, series, anime or manga being consumed.
type CultureItem struct {
	ID        string           `json:"id"`
	Type      CultureType      `json:"type"`
	Title     string           `json:"title"`
	Author    string           `json:"author,omitempty"`
	Genre     string           `json:"genre,omitempty"`
	Status    CultureStatus    `json:"status"`
	Rating    int              `json:"rating,omitempty"` // 1-5
	Progress  *CultureProgress `json:"progress,omitempty"`
	StartDate string           `json:"startDate,omitempty"`
	EndDate   string           `json:"endDate,omitempty"`
	Notes     string           `json:"notes,omitempty"`
	CoverURL  string           `json:"coverUrl,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
