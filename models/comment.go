package models

import "time"

// Comment is a reader's reply attached to a blog post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"index;not null" json:"post_id"`
	CommenterID uint      `gorm:"index;not null" json:"commenter_id"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommentWithCommenter pairs a comment with the user who wrote it.
type CommentWithCommenter struct {
	Comment
	Commenter User `json:"commenter"`
}
