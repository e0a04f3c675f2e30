package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// TaskCreateRequest describes the payload for adding a board card.
type TaskCreateRequest struct {
	Title        string  `json:"title" validate:"required,min=2"`
	Description  string  `json:"description"`
	Category     string  `json:"category" validate:"omitempty,oneof=costume choreography staging lighting sound props marketing general"`
	Priority     int     `json:"priority" validate:"min=0,max=3"`
	ProductionID *uint   `json:"production_id"`
	AssignedTo   *uint   `json:"assigned_to"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// TaskUpdateRequest carries a partial board card update.
type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,oneof=costume choreography staging lighting sound props marketing general"`
	Priority    *int    `json:"priority" validate:"omitempty,min=0,max=3"`
	AssignedTo  *uint   `json:"assigned_to"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// TaskMoveRequest relocates a card to a column position on the board.
type TaskMoveRequest struct {
	Status   string `json:"status" validate:"required,oneof=todo in_progress review done"`
	Position int    `json:"position" validate:"min=0"`
}

// MeetingNoteCreateRequest describes the payload for recording minutes.
type MeetingNoteCreateRequest struct {
	Title        string   `json:"title" validate:"required,min=2"`
	Content      string   `json:"content" validate:"required"`
	ProductionID *uint    `json:"production_id"`
	MeetingDate  string   `json:"meeting_date" validate:"required,datetime=2006-01-02"`
	Attendees    []string `json:"attendees"`
	Tags         []string `json:"tags"`
}

// MeetingNoteUpdateRequest carries a partial meeting note update.
type MeetingNoteUpdateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=2"`
	Content     *string   `json:"content"`
	MeetingDate *string   `json:"meeting_date" validate:"omitempty,datetime=2006-01-02"`
	Attendees   *[]string `json:"attendees"`
	Tags        *[]string `json:"tags"`
}

// TaskResponse is the serialized representation of a board card.
type TaskResponse struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Status       string     `json:"status"`
	Priority     int        `json:"priority"`
	Position     int        `json:"position"`
	ProductionID *uint      `json:"production_id"`
	AssignedTo   *uint      `json:"assigned_to"`
	DueDate      *time.Time `json:"due_date"`
	CreatedBy    uint       `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MeetingNoteResponse is the serialized representation of meeting minutes.
type MeetingNoteResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ProductionID *uint     `json:"production_id"`
	MeetingDate  time.Time `json:"meeting_date"`
	Attendees    []string  `json:"attendees"`
	Tags         []string  `json:"tags"`
	CreatedBy    uint      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTaskResponse converts a model into a DTO.
func NewTaskResponse(model models.CreativeTask) TaskResponse {
	return TaskResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		Category:     model.Category,
		Status:       model.Status,
		Priority:     model.Priority,
		Position:     model.Position,
		ProductionID: model.ProductionID,
		AssignedTo:   model.AssignedTo,
		DueDate:      model.DueDate,
		CreatedBy:    model.CreatedBy,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewTaskResponseSlice converts a slice of models into DTOs.
func NewTaskResponseSlice(tasks []models.CreativeTask) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}

	return responses
}

// NewMeetingNoteResponse converts a model into a DTO.
func NewMeetingNoteResponse(model models.MeetingNote) MeetingNoteResponse {
	return MeetingNoteResponse{
		ID:           model.ID,
		Title:        model.Title,
		Content:      model.Content,
		ProductionID: model.ProductionID,
		MeetingDate:  model.MeetingDate,
		Attendees:    model.Attendees,
		Tags:         model.Tags,
		CreatedBy:    model.CreatedBy,
		CreatedAt:    model.CreatedAt,
	}
}

// NewMeetingNoteResponseSlice converts a slice of models into DTOs.
func NewMeetingNoteResponseSlice(notes []models.MeetingNote) []MeetingNoteResponse {
	responses := make([]MeetingNoteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, NewMeetingNoteResponse(note))
	}

	return responses
}
