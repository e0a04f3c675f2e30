package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// EventCreateRequest describes the payload for scheduling an event.
type EventCreateRequest struct {
	Title        string `json:"title" validate:"required,min=2"`
	Description  string `json:"description"`
	EventType    string `json:"event_type" validate:"omitempty,oneof=rehearsal performance audition meeting workshop social"`
	ProductionID *uint  `json:"production_id"`
	Location     string `json:"location"`
	StartTime    string `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime      string `json:"end_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	IsMandatory  bool   `json:"is_mandatory"`
}

// EventUpdateRequest carries a partial event update.
type EventUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	EventType   *string `json:"event_type" validate:"omitempty,oneof=rehearsal performance audition meeting workshop social"`
	Location    *string `json:"location"`
	StartTime   *string `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime     *string `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	IsMandatory *bool   `json:"is_mandatory"`
}

// MarkAttendanceRequest records a member's presence at an event.
type MarkAttendanceRequest struct {
	MemberID uint   `json:"member_id" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes    string `json:"notes"`
}

// EventResponse is the serialized representation of an event.
type EventResponse struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventType    string    `json:"event_type"`
	ProductionID *uint     `json:"production_id"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	IsMandatory  bool      `json:"is_mandatory"`
	CreatedBy    uint      `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// AttendanceResponse is the serialized representation of an attendance mark.
type AttendanceResponse struct {
	ID       uint              `json:"id"`
	EventID  uint              `json:"event_id"`
	MemberID uint              `json:"member_id"`
	Status   string            `json:"status"`
	Notes    string            `json:"notes"`
	MarkedBy *uint             `json:"marked_by"`
	Member   RespondentSummary `json:"member"`
}

// AttendanceStatsResponse aggregates a member's attendance history.
type AttendanceStatsResponse struct {
	MemberID       uint    `json:"member_id"`
	TotalEvents    int     `json:"total_events"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	LateCount      int     `json:"late_count"`
	ExcusedCount   int     `json:"excused_count"`
	AdherenceScore float64 `json:"adherence_score"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.Event) EventResponse {
	return EventResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		EventType:    model.EventType,
		ProductionID: model.ProductionID,
		Location:     model.Location,
		StartTime:    model.StartTime,
		EndTime:      model.EndTime,
		IsMandatory:  model.IsMandatory,
		CreatedBy:    model.CreatedBy,
		CreatedAt:    model.CreatedAt,
	}
}

// NewEventResponseSlice converts a slice of models into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}

	return responses
}

// NewAttendanceResponse converts a model into a DTO.
func NewAttendanceResponse(model models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:       model.ID,
		EventID:  model.EventID,
		MemberID: model.MemberID,
		Status:   model.Status,
		Notes:    model.Notes,
		MarkedBy: model.MarkedBy,
		Member:   NewRespondentSummary(model.Member),
	}
}
