package model

import "time"

// Favorite marks a track as favorited by a user. The (user_id, track_id)
// pair is unique at the storage layer; inserting a duplicate never creates a
// second row.
type Favorite struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"userId" gorm:"column:user_id;uniqueIndex:uq_user_track"`
	TrackID   int64     `json:"trackId" gorm:"column:track_id;uniqueIndex:uq_user_track"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName maps Favorite onto the favorites table created by db.InitDB.
func (Favorite) TableName() string {
	return "favorites"
}
