package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidWindow = errors.New("event must end after it starts")
)

// EventService exposes schedule and attendance use cases.
type EventService interface {
	List(ctx context.Context, filter repository.EventFilter) ([]dto.EventResponse, error)
	ListUpcoming(ctx context.Context) ([]dto.EventResponse, error)
	Get(ctx context.Context, id uint) (dto.EventResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.EventCreateRequest) (dto.EventResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	MarkAttendance(ctx context.Context, actor Actor, eventID uint, payload dto.MarkAttendanceRequest) (dto.AttendanceResponse, error)
	ListAttendance(ctx context.Context, actor Actor, eventID uint) ([]dto.AttendanceResponse, error)
	MemberStats(ctx context.Context, memberID uint) (dto.AttendanceStatsResponse, error)
}

type eventService struct {
	events    repository.EventRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEventService builds the schedule service.
func NewEventService(events repository.EventRepository, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		events:    events,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
		now:       time.Now,
	}
}

func (s *eventService) List(ctx context.Context, filter repository.EventFilter) ([]dto.EventResponse, error) {
	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.events.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, err
	}

	return dto.NewEventResponseSlice(events), nil
}

func (s *eventService) Get(ctx context.Context, id uint) (dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}
		return dto.EventResponse{}, err
	}

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Create(ctx context.Context, actor Actor, payload dto.EventCreateRequest) (dto.EventResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.EventResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	startTime, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return dto.EventResponse{}, fmt.Errorf("invalid start_time: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return dto.EventResponse{}, fmt.Errorf("invalid end_time: %w", err)
	}
	if !endTime.After(startTime) {
		return dto.EventResponse{}, ErrInvalidWindow
	}

	event := models.Event{
		Title:        payload.Title,
		Description:  payload.Description,
		EventType:    payload.EventType,
		ProductionID: payload.ProductionID,
		Location:     payload.Location,
		StartTime:    startTime,
		EndTime:      endTime,
		IsMandatory:  payload.IsMandatory,
		CreatedBy:    actor.ID,
	}
	if event.EventType == "" {
		event.EventType = models.EventTypeRehearsal
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	s.logger.Info().Uint("event_id", event.ID).Str("type", event.EventType).Msg("event scheduled")
	return dto.NewEventResponse(event), nil
}

func (s *eventService) Update(ctx context.Context, actor Actor, id uint, payload dto.EventUpdateRequest) (dto.EventResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.EventResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EventResponse{}, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EventResponse{}, ErrEventNotFound
		}
		return dto.EventResponse{}, err
	}

	if payload.Title != nil {
		event.Title = *payload.Title
	}
	if payload.Description != nil {
		event.Description = *payload.Description
	}
	if payload.EventType != nil {
		event.EventType = *payload.EventType
	}
	if payload.Location != nil {
		event.Location = *payload.Location
	}
	if payload.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *payload.StartTime)
		if err != nil {
			return dto.EventResponse{}, fmt.Errorf("invalid start_time: %w", err)
		}
		event.StartTime = startTime
	}
	if payload.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *payload.EndTime)
		if err != nil {
			return dto.EventResponse{}, fmt.Errorf("invalid end_time: %w", err)
		}
		event.EndTime = endTime
	}
	if payload.IsMandatory != nil {
		event.IsMandatory = *payload.IsMandatory
	}

	if !event.EndTime.After(event.StartTime) {
		return dto.EventResponse{}, ErrInvalidWindow
	}

	if err := s.events.Update(ctx, &event); err != nil {
		return dto.EventResponse{}, err
	}

	return dto.NewEventResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.logger.Info().Uint("event_id", id).Msg("event deleted")
	return nil
}

// MarkAttendance records a member's presence at an event. Re-marking the
// same member overwrites the previous record.
func (s *eventService) MarkAttendance(ctx context.Context, actor Actor, eventID uint, payload dto.MarkAttendanceRequest) (dto.AttendanceResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.AttendanceResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttendanceResponse{}, ErrEventNotFound
		}
		return dto.AttendanceResponse{}, err
	}

	markedBy := actor.ID
	record := models.Attendance{
		EventID:  eventID,
		MemberID: payload.MemberID,
		Status:   payload.Status,
		Notes:    payload.Notes,
		MarkedBy: &markedBy,
	}

	if err := s.events.UpsertAttendance(ctx, &record); err != nil {
		return dto.AttendanceResponse{}, err
	}

	s.logger.Info().Uint("event_id", eventID).Uint("member_id", payload.MemberID).Str("status", payload.Status).Msg("attendance marked")
	return dto.NewAttendanceResponse(record), nil
}

func (s *eventService) ListAttendance(ctx context.Context, actor Actor, eventID uint) ([]dto.AttendanceResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	records, err := s.events.ListAttendance(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewAttendanceResponse(record))
	}

	return responses, nil
}

// MemberStats aggregates a member's attendance history. The adherence score
// counts present and late marks against the recorded total.
func (s *eventService) MemberStats(ctx context.Context, memberID uint) (dto.AttendanceStatsResponse, error) {
	records, err := s.events.ListMemberAttendance(ctx, memberID)
	if err != nil {
		return dto.AttendanceStatsResponse{}, err
	}

	stats := dto.AttendanceStatsResponse{MemberID: memberID, TotalEvents: len(records)}
	for _, record := range records {
		switch record.Status {
		case models.AttendancePresent:
			stats.PresentCount++
		case models.AttendanceAbsent:
			stats.AbsentCount++
		case models.AttendanceLate:
			stats.LateCount++
		case models.AttendanceExcused:
			stats.ExcusedCount++
		}
	}

	if stats.TotalEvents > 0 {
		stats.AdherenceScore = float64(stats.PresentCount+stats.LateCount) / float64(stats.TotalEvents) * 100
	}

	return stats, nil
}
