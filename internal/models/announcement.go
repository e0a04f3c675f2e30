package models

import "time"

// Announcement is a board post shown on the dashboard. Pinned announcements
// sort before everything else.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Priority  int       `gorm:"not null;default:0" json:"priority"`
	IsPinned  bool      `gorm:"not null;default:false" json:"is_pinned"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Author    Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
}
