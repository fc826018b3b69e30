package model

import "time"

// Album represents a featured album. Albums are system-owned: only admin
// sessions may mutate them, reads are public.
type Album struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Artist      string     `json:"artist"`
	CoverURL    string     `json:"coverUrl"`
	ReleaseDate *time.Time `json:"releaseDate"` // null when unknown
	Genre       string     `json:"genre"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
