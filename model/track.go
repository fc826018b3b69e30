package model

import "time"

// MusicTrack represents a track on the public music page.
// DisplayOrder drives presentation ordering; PlayCount only ever grows and is
// incremented by play events, never by direct edits.
type MusicTrack struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	AudioURL     *string   `json:"audioUrl"` // null until audio is uploaded
	DisplayOrder int       `json:"displayOrder"`
	PlayCount    int64     `json:"playCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TrackOrder is one entry of a reorder request.
type TrackOrder struct {
	ID           int64 `json:"id"`
	DisplayOrder int   `json:"displayOrder"`
}
