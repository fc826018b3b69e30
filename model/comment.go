package model

import "time"

// Comment belongs to exactly one post and one author. Deleting the post
// removes its comments in the same transaction.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PostID    int64     `json:"postId" gorm:"column:post_id"`
	AuthorID  int64     `json:"authorId" gorm:"column:author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName maps Comment onto the comments table created by db.InitDB.
func (Comment) TableName() string {
	return "comments"
}
