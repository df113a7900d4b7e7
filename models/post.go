package models

import "time"

// PostDateLayout is the format of BlogPost.Date, e.g. "August 24, 2026".
const PostDateLayout = "January 02, 2006"

// BlogPost is an article published by the administrator.
type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `gorm:"size:250;not null;uniqueIndex" json:"title"`
	Subtitle  string    `gorm:"size:250;not null" json:"subtitle"`
	Date      string    `gorm:"size:250;not null" json:"date"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	ImgURL    string    `gorm:"column:img_url;size:250;not null" json:"img_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name used by the original deployment.
func (BlogPost) TableName() string {
	return "blog_posts"
}

// PostWithAuthor pairs a post with its author for listing and detail pages.
type PostWithAuthor struct {
	BlogPost
	Author User `json:"author"`
}
