package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// SongCreateRequest describes the payload for adding a repertoire entry.
type SongCreateRequest struct {
	Title           string   `json:"title" validate:"required,min=1"`
	Composer        string   `json:"composer"`
	Arranger        string   `json:"arranger"`
	Genre           string   `json:"genre"`
	ProductionID    *uint    `json:"production_id"`
	VoiceParts      []string `json:"voice_parts"`
	DurationSeconds *int     `json:"duration_seconds" validate:"omitempty,min=1"`
	Difficulty      *int     `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Lyrics          string   `json:"lyrics"`
	Notes           string   `json:"notes"`
}

// SongUpdateRequest carries a partial repertoire update.
type SongUpdateRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=1"`
	Composer        *string   `json:"composer"`
	Arranger        *string   `json:"arranger"`
	Genre           *string   `json:"genre"`
	ProductionID    *uint     `json:"production_id"`
	VoiceParts      *[]string `json:"voice_parts"`
	DurationSeconds *int      `json:"duration_seconds" validate:"omitempty,min=1"`
	Difficulty      *int      `json:"difficulty" validate:"omitempty,min=1,max=5"`
	Lyrics          *string   `json:"lyrics"`
	Notes           *string   `json:"notes"`
}

// SongResponse is the serialized representation of a repertoire entry.
type SongResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Composer        string    `json:"composer"`
	Arranger        string    `json:"arranger"`
	Genre           string    `json:"genre"`
	ProductionID    *uint     `json:"production_id"`
	VoiceParts      []string  `json:"voice_parts"`
	DurationSeconds *int      `json:"duration_seconds"`
	Difficulty      *int      `json:"difficulty"`
	Lyrics          string    `json:"lyrics"`
	Notes           string    `json:"notes"`
	SheetMusicURL   string    `json:"sheet_music_url"`
	AudioURL        string    `json:"audio_url"`
	MidiURL         string    `json:"midi_url"`
	CreatedBy       uint      `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewSongResponse converts a model into a DTO.
func NewSongResponse(model models.Song) SongResponse {
	return SongResponse{
		ID:              model.ID,
		Title:           model.Title,
		Composer:        model.Composer,
		Arranger:        model.Arranger,
		Genre:           model.Genre,
		ProductionID:    model.ProductionID,
		VoiceParts:      model.VoiceParts,
		DurationSeconds: model.DurationSeconds,
		Difficulty:      model.Difficulty,
		Lyrics:          model.Lyrics,
		Notes:           model.Notes,
		SheetMusicURL:   model.SheetMusicURL,
		AudioURL:        model.AudioURL,
		MidiURL:         model.MidiURL,
		CreatedBy:       model.CreatedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewSongResponseSlice converts a slice of models into DTOs.
func NewSongResponseSlice(songs []models.Song) []SongResponse {
	responses := make([]SongResponse, 0, len(songs))
	for _, song := range songs {
		responses = append(responses, NewSongResponse(song))
	}

	return responses
}
