package models

import "time"

// PageView counts successful GETs of one page path on one local calendar day.
type PageView struct {
	ID        uint      `gorm:"primaryKey"`
	Date      time.Time `gorm:"uniqueIndex:idx_page_views_day_path,priority:1;type:date;not null"`
	Path      string    `gorm:"uniqueIndex:idx_page_views_day_path,priority:2;index:idx_page_views_path;size:255;not null"`
	Count     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
