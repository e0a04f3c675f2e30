package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/observability"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

// Form engine sentinel errors.
var (
	ErrFormNotFound     = errors.New("form not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrFormNotOpen      = errors.New("form is not accepting responses")
	ErrNotTargeted      = errors.New("form does not target this member")
	ErrInvalidAnswers   = errors.New("invalid answers")
	ErrOptionsRequired  = errors.New("option-carrying questions require at least one option")
)

// FormNotifier receives form lifecycle events for fan-out.
type FormNotifier interface {
	FormActivated(ctx context.Context, form models.Form)
}

// FormService exposes the form engine use cases: form and question CRUD,
// response submission, pending-form resolution and completion statistics.
type FormService interface {
	List(ctx context.Context) ([]dto.FormResponse, error)
	Get(ctx context.Context, id uint) (dto.FormWithQuestionsResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.FormCreateRequest) (dto.FormResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.FormUpdateRequest) (dto.FormResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	AddQuestion(ctx context.Context, actor Actor, formID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, actor Actor, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, actor Actor, questionID uint) error

	Submit(ctx context.Context, actor Actor, formID uint, payload dto.SubmitResponseRequest) (dto.SubmissionResponse, error)
	ListResponses(ctx context.Context, actor Actor, formID uint) ([]dto.SubmissionResponse, error)
	PendingForms(ctx context.Context, actor Actor) ([]dto.FormResponse, error)
	Stats(ctx context.Context, actor Actor, formID uint) (dto.FormStatsResponse, error)
}

type formService struct {
	forms     repository.FormRepository
	members   repository.MemberRepository
	validator *validator.Validate
	notifier  FormNotifier
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewFormService builds the form engine service.
func NewFormService(forms repository.FormRepository, members repository.MemberRepository, validate *validator.Validate, notifier FormNotifier, logger zerolog.Logger) FormService {
	return &formService{
		forms:     forms,
		members:   members,
		validator: validate,
		notifier:  notifier,
		logger:    logger.With().Str("component", "form_service").Logger(),
		tracer:    otel.Tracer("github.com/chorushq/chorus-api/internal/service/form"),
		now:       time.Now,
	}
}

func (s *formService) List(ctx context.Context) ([]dto.FormResponse, error) {
	forms, err := s.forms.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewFormResponseSlice(forms), nil
}

func (s *formService) Get(ctx context.Context, id uint) (dto.FormWithQuestionsResponse, error) {
	form, err := s.forms.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormWithQuestionsResponse{}, ErrFormNotFound
		}
		return dto.FormWithQuestionsResponse{}, err
	}

	return dto.NewFormWithQuestionsResponse(form), nil
}

func (s *formService) Create(ctx context.Context, actor Actor, payload dto.FormCreateRequest) (dto.FormResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.FormResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.FormResponse{}, err
	}

	form := models.Form{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      payload.Status,
		Target:      payload.Target,
		TargetRoles: datatypes.NewJSONSlice(payload.TargetRoles),
		IsRequired:  payload.IsRequired,
		CreatedBy:   actor.ID,
	}
	if form.Status == "" {
		form.Status = models.FormStatusDraft
	}
	if form.Target == "" {
		form.Target = models.FormTargetAll
	}

	if payload.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *payload.Deadline)
		if err != nil {
			return dto.FormResponse{}, fmt.Errorf("invalid deadline: %w", err)
		}
		form.Deadline = &deadline
	}

	if err := s.forms.Create(ctx, &form); err != nil {
		return dto.FormResponse{}, err
	}

	s.logger.Info().Uint("form_id", form.ID).Str("target", form.Target).Msg("form created")

	if form.Status == models.FormStatusActive && form.IsRequired && s.notifier != nil {
		s.notifier.FormActivated(ctx, form)
	}

	return dto.NewFormResponse(form), nil
}

func (s *formService) Update(ctx context.Context, actor Actor, id uint, payload dto.FormUpdateRequest) (dto.FormResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.FormResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.FormResponse{}, err
	}

	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormResponse{}, ErrFormNotFound
		}
		return dto.FormResponse{}, err
	}

	wasActive := form.Status == models.FormStatusActive

	if payload.Title != nil {
		form.Title = *payload.Title
	}
	if payload.Description != nil {
		form.Description = *payload.Description
	}
	if payload.Status != nil {
		form.Status = *payload.Status
	}
	if payload.Target != nil {
		form.Target = *payload.Target
	}
	if payload.TargetRoles != nil {
		form.TargetRoles = datatypes.NewJSONSlice(*payload.TargetRoles)
	}
	if payload.IsRequired != nil {
		form.IsRequired = *payload.IsRequired
	}
	if payload.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *payload.Deadline)
		if err != nil {
			return dto.FormResponse{}, fmt.Errorf("invalid deadline: %w", err)
		}
		form.Deadline = &deadline
	}

	if err := s.forms.Update(ctx, &form); err != nil {
		return dto.FormResponse{}, err
	}

	s.logger.Info().Uint("form_id", form.ID).Str("status", form.Status).Msg("form updated")

	if !wasActive && form.Status == models.FormStatusActive && form.IsRequired && s.notifier != nil {
		s.notifier.FormActivated(ctx, form)
	}

	return dto.NewFormResponse(form), nil
}

func (s *formService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.forms.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFormNotFound
		}
		return err
	}

	s.logger.Info().Uint("form_id", id).Msg("form deleted")
	return nil
}

func (s *formService) AddQuestion(ctx context.Context, actor Actor, formID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.QuestionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if _, err := s.forms.GetByID(ctx, formID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrFormNotFound
		}
		return dto.QuestionResponse{}, err
	}

	question := models.FormQuestion{
		FormID:       formID,
		QuestionText: payload.QuestionText,
		QuestionType: payload.QuestionType,
		IsRequired:   payload.IsRequired,
		OrderIndex:   payload.OrderIndex,
	}
	if question.QuestionType == "" {
		question.QuestionType = models.QuestionTypeText
	}

	options := make([]models.QuestionOption, 0, len(payload.Options))
	for _, option := range payload.Options {
		options = append(options, models.QuestionOption{Value: option.Value, Label: option.Label})
	}
	question.Options = datatypes.NewJSONSlice(options)

	if question.HasOptions() && len(options) == 0 {
		return dto.QuestionResponse{}, fmt.Errorf("%w: %s", ErrOptionsRequired, question.QuestionType)
	}

	if err := s.forms.CreateQuestion(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *formService) UpdateQuestion(ctx context.Context, actor Actor, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.QuestionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.forms.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.QuestionText != nil {
		question.QuestionText = *payload.QuestionText
	}
	if payload.QuestionType != nil {
		question.QuestionType = *payload.QuestionType
	}
	if payload.Options != nil {
		options := make([]models.QuestionOption, 0, len(*payload.Options))
		for _, option := range *payload.Options {
			options = append(options, models.QuestionOption{Value: option.Value, Label: option.Label})
		}
		question.Options = datatypes.NewJSONSlice(options)
	}
	if payload.IsRequired != nil {
		question.IsRequired = *payload.IsRequired
	}
	if payload.OrderIndex != nil {
		question.OrderIndex = *payload.OrderIndex
	}

	if question.HasOptions() && len(question.Options) == 0 {
		return dto.QuestionResponse{}, fmt.Errorf("%w: %s", ErrOptionsRequired, question.QuestionType)
	}

	if err := s.forms.UpdateQuestion(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *formService) DeleteQuestion(ctx context.Context, actor Actor, questionID uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.forms.DeleteQuestion(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	return nil
}

// Submit validates the member's answers against the form's questions and
// upserts the response. Resubmission overwrites the previous answers; exactly
// one response row exists per (form, member) pair.
func (s *formService) Submit(ctx context.Context, actor Actor, formID uint, payload dto.SubmitResponseRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "form.submit")
	defer span.End()
	span.SetAttributes(attribute.Int("form.id", int(formID)))

	if err := s.validator.Struct(payload); err != nil {
		observability.FormSubmissions().WithLabelValues("invalid").Inc()
		return dto.SubmissionResponse{}, err
	}

	form, err := s.forms.GetWithQuestions(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrFormNotFound
		}
		observability.FormSubmissions().WithLabelValues("error").Inc()
		return dto.SubmissionResponse{}, err
	}

	if !form.IsOpen() {
		observability.FormSubmissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionResponse{}, ErrFormNotOpen
	}

	if !form.Targets(actor.Role) {
		observability.FormSubmissions().WithLabelValues("rejected").Inc()
		return dto.SubmissionResponse{}, ErrNotTargeted
	}

	if err := validateAnswers(form.Questions, payload.Answers); err != nil {
		observability.FormSubmissions().WithLabelValues("invalid").Inc()
		return dto.SubmissionResponse{}, err
	}

	response := models.FormResponse{
		FormID:      formID,
		MemberID:    actor.ID,
		Answers:     datatypes.JSONMap(payload.Answers),
		SubmittedAt: s.now(),
	}

	if err := s.forms.UpsertResponse(ctx, &response); err != nil {
		observability.FormSubmissions().WithLabelValues("error").Inc()
		return dto.SubmissionResponse{}, err
	}

	observability.FormSubmissions().WithLabelValues("ok").Inc()
	s.logger.Info().Uint("form_id", formID).Uint("member_id", actor.ID).Msg("form response submitted")

	return dto.NewSubmissionResponse(response), nil
}

func (s *formService) ListResponses(ctx context.Context, actor Actor, formID uint) ([]dto.SubmissionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.forms.GetByID(ctx, formID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	responses, err := s.forms.ListResponses(ctx, formID)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SubmissionResponse, 0, len(responses))
	for _, response := range responses {
		results = append(results, dto.NewSubmissionResponse(response))
	}

	return results, nil
}

// PendingForms resolves the forms the acting member must still complete:
// active, required, unanswered by the member, and targeting the member's
// role. Recomputed from live data on every call.
func (s *formService) PendingForms(ctx context.Context, actor Actor) ([]dto.FormResponse, error) {
	required, err := s.forms.ListActiveRequired(ctx)
	if err != nil {
		return nil, err
	}

	responses, err := s.forms.ListMemberResponses(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	completed := make(map[uint]struct{}, len(responses))
	for _, response := range responses {
		completed[response.FormID] = struct{}{}
	}

	pending := make([]models.Form, 0, len(required))
	for _, form := range required {
		if _, done := completed[form.ID]; done {
			continue
		}
		if !form.Targets(actor.Role) {
			continue
		}
		pending = append(pending, form)
	}

	return dto.NewFormResponseSlice(pending), nil
}
