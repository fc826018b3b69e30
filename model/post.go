package model

import "time"

// Post represents a blog post. The author owns it: update and delete require
// the author or an admin.
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	AuthorID  int64     `json:"authorId" gorm:"column:author_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug" gorm:"uniqueIndex:uq_post_slug;size:255"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName maps Post onto the posts table created by db.InitDB.
func (Post) TableName() string {
	return "posts"
}
