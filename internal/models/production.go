package models

import "time"

// Production represents a staged show or concert season that events, songs,
// auditions and cast roles can attach to.
type Production struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Season      string     `gorm:"size:64" json:"season"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	PosterURL   string     `gorm:"size:512" json:"poster_url"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
