package models

import (
	"time"

	"gorm.io/datatypes"
)

// Song represents a repertoire entry with optional stored assets.
type Song struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Title           string                      `gorm:"size:255;not null" json:"title"`
	Composer        string                      `gorm:"size:255" json:"composer"`
	Arranger        string                      `gorm:"size:255" json:"arranger"`
	Genre           string                      `gorm:"size:128" json:"genre"`
	ProductionID    *uint                       `gorm:"index" json:"production_id"`
	VoiceParts      datatypes.JSONSlice[string] `json:"voice_parts"`
	DurationSeconds *int                        `json:"duration_seconds"`
	Difficulty      *int                        `json:"difficulty"`
	Lyrics          string                      `gorm:"type:text" json:"lyrics"`
	Notes           string                      `gorm:"type:text" json:"notes"`
	SheetMusicURL   string                      `gorm:"size:512" json:"sheet_music_url"`
	AudioURL        string                      `gorm:"size:512" json:"audio_url"`
	MidiURL         string                      `gorm:"size:512" json:"midi_url"`
	CreatedBy       uint                        `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}
