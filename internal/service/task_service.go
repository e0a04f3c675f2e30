package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNoteNotFound = errors.New("meeting note not found")
)

const meetingDateLayout = "2006-01-02"

// TaskService exposes the creative board and meeting minutes use cases.
type TaskService interface {
	ListTasks(ctx context.Context, productionID uint) ([]dto.TaskResponse, error)
	CreateTask(ctx context.Context, actor Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error)
	UpdateTask(ctx context.Context, actor Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error)
	MoveTask(ctx context.Context, actor Actor, id uint, payload dto.TaskMoveRequest) (dto.TaskResponse, error)
	DeleteTask(ctx context.Context, actor Actor, id uint) error

	ListNotes(ctx context.Context, productionID uint) ([]dto.MeetingNoteResponse, error)
	CreateNote(ctx context.Context, actor Actor, payload dto.MeetingNoteCreateRequest) (dto.MeetingNoteResponse, error)
	UpdateNote(ctx context.Context, actor Actor, id uint, payload dto.MeetingNoteUpdateRequest) (dto.MeetingNoteResponse, error)
	DeleteNote(ctx context.Context, actor Actor, id uint) error
}

type taskService struct {
	repo      repository.TaskRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewTaskService builds the creative board service.
func NewTaskService(repo repository.TaskRepository, validate *validator.Validate, logger zerolog.Logger) TaskService {
	return &taskService{
		repo:      repo,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "task_service").Logger(),
	}
}

func (s *taskService) ListTasks(ctx context.Context, productionID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.repo.ListTasks(ctx, productionID)
	if err != nil {
		return nil, err
	}

	return dto.NewTaskResponseSlice(tasks), nil
}

func (s *taskService) CreateTask(ctx context.Context, actor Actor, payload dto.TaskCreateRequest) (dto.TaskResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.TaskResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task := models.CreativeTask{
		Title:        payload.Title,
		Description:  s.sanitizer.Sanitize(payload.Description),
		Category:     payload.Category,
		Status:       models.TaskStatusTodo,
		Priority:     payload.Priority,
		ProductionID: payload.ProductionID,
		AssignedTo:   payload.AssignedTo,
		CreatedBy:    actor.ID,
	}
	if task.Category == "" {
		task.Category = models.TaskCategoryGeneral
	}

	if payload.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("invalid due_date: %w", err)
		}
		task.DueDate = &due
	}

	if err := s.repo.CreateTask(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Str("category", task.Category).Msg("board card created")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) UpdateTask(ctx context.Context, actor Actor, id uint, payload dto.TaskUpdateRequest) (dto.TaskResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.TaskResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	if payload.Title != nil {
		task.Title = *payload.Title
	}
	if payload.Description != nil {
		task.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Category != nil {
		task.Category = *payload.Category
	}
	if payload.Priority != nil {
		task.Priority = *payload.Priority
	}
	if payload.AssignedTo != nil {
		task.AssignedTo = payload.AssignedTo
	}
	if payload.DueDate != nil {
		due, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.TaskResponse{}, fmt.Errorf("invalid due_date: %w", err)
		}
		task.DueDate = &due
	}

	if err := s.repo.UpdateTask(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	return dto.NewTaskResponse(task), nil
}

// MoveTask relocates a card to a column and position on the board.
func (s *taskService) MoveTask(ctx context.Context, actor Actor, id uint, payload dto.TaskMoveRequest) (dto.TaskResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.TaskResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.TaskResponse{}, err
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TaskResponse{}, ErrTaskNotFound
		}
		return dto.TaskResponse{}, err
	}

	task.Status = payload.Status
	task.Position = payload.Position

	if err := s.repo.UpdateTask(ctx, &task); err != nil {
		return dto.TaskResponse{}, err
	}

	s.logger.Info().Uint("task_id", task.ID).Str("status", task.Status).Int("position", task.Position).Msg("board card moved")
	return dto.NewTaskResponse(task), nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (s *taskService) ListNotes(ctx context.Context, productionID uint) ([]dto.MeetingNoteResponse, error) {
	notes, err := s.repo.ListNotes(ctx, productionID)
	if err != nil {
		return nil, err
	}

	return dto.NewMeetingNoteResponseSlice(notes), nil
}

func (s *taskService) CreateNote(ctx context.Context, actor Actor, payload dto.MeetingNoteCreateRequest) (dto.MeetingNoteResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.MeetingNoteResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.MeetingNoteResponse{}, err
	}

	meetingDate, err := time.Parse(meetingDateLayout, payload.MeetingDate)
	if err != nil {
		return dto.MeetingNoteResponse{}, fmt.Errorf("invalid meeting_date: %w", err)
	}

	note := models.MeetingNote{
		Title:        payload.Title,
		Content:      s.sanitizer.Sanitize(payload.Content),
		ProductionID: payload.ProductionID,
		MeetingDate:  meetingDate,
		Attendees:    datatypes.NewJSONSlice(payload.Attendees),
		Tags:         datatypes.NewJSONSlice(payload.Tags),
		CreatedBy:    actor.ID,
	}

	if err := s.repo.CreateNote(ctx, &note); err != nil {
		return dto.MeetingNoteResponse{}, err
	}

	s.logger.Info().Uint("note_id", note.ID).Msg("meeting note recorded")
	return dto.NewMeetingNoteResponse(note), nil
}

func (s *taskService) UpdateNote(ctx context.Context, actor Actor, id uint, payload dto.MeetingNoteUpdateRequest) (dto.MeetingNoteResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.MeetingNoteResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.MeetingNoteResponse{}, err
	}

	note, err := s.repo.GetNote(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MeetingNoteResponse{}, ErrNoteNotFound
		}
		return dto.MeetingNoteResponse{}, err
	}

	if payload.Title != nil {
		note.Title = *payload.Title
	}
	if payload.Content != nil {
		note.Content = s.sanitizer.Sanitize(*payload.Content)
	}
	if payload.MeetingDate != nil {
		meetingDate, err := time.Parse(meetingDateLayout, *payload.MeetingDate)
		if err != nil {
			return dto.MeetingNoteResponse{}, fmt.Errorf("invalid meeting_date: %w", err)
		}
		note.MeetingDate = meetingDate
	}
	if payload.Attendees != nil {
		note.Attendees = datatypes.NewJSONSlice(*payload.Attendees)
	}
	if payload.Tags != nil {
		note.Tags = datatypes.NewJSONSlice(*payload.Tags)
	}

	if err := s.repo.UpdateNote(ctx, &note); err != nil {
		return dto.MeetingNoteResponse{}, err
	}

	return dto.NewMeetingNoteResponse(note), nil
}

func (s *taskService) DeleteNote(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.repo.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	return nil
}
