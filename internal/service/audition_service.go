package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

var (
	ErrAuditionNotFound = errors.New("audition not found")
	ErrCastRoleNotFound = errors.New("cast role not found")
	ErrAuditionClosed   = errors.New("audition is not accepting signups")
	ErrAlreadySignedUp  = errors.New("member already signed up for this audition")
)

// AuditionService exposes audition and casting use cases.
type AuditionService interface {
	List(ctx context.Context, productionID uint) ([]dto.AuditionResponse, error)
	Get(ctx context.Context, id uint) (dto.AuditionResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.AuditionCreateRequest) (dto.AuditionResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.AuditionUpdateRequest) (dto.AuditionResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error

	SignUp(ctx context.Context, actor Actor, auditionID uint, payload dto.AuditionSignupRequest) (dto.AuditionSignupResponse, error)
	ListSignups(ctx context.Context, actor Actor, auditionID uint) ([]dto.AuditionSignupResponse, error)

	AssignCastRole(ctx context.Context, actor Actor, payload dto.CastRoleCreateRequest) (dto.CastRoleResponse, error)
	ListCastRoles(ctx context.Context, productionID uint) ([]dto.CastRoleResponse, error)
	RemoveCastRole(ctx context.Context, actor Actor, id uint) error
}

type auditionService struct {
	auditions   repository.AuditionRepository
	productions repository.ProductionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewAuditionService builds the audition and casting service.
func NewAuditionService(auditions repository.AuditionRepository, productions repository.ProductionRepository, validate *validator.Validate, logger zerolog.Logger) AuditionService {
	return &auditionService{
		auditions:   auditions,
		productions: productions,
		validator:   validate,
		logger:      logger.With().Str("component", "audition_service").Logger(),
	}
}

func (s *auditionService) List(ctx context.Context, productionID uint) ([]dto.AuditionResponse, error) {
	auditions, err := s.auditions.List(ctx, productionID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditionResponse, 0, len(auditions))
	for _, audition := range auditions {
		count, err := s.auditions.CountSignups(ctx, audition.ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, dto.NewAuditionResponse(audition, int(count)))
	}

	return responses, nil
}

func (s *auditionService) Get(ctx context.Context, id uint) (dto.AuditionResponse, error) {
	audition, err := s.auditions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditionResponse{}, ErrAuditionNotFound
		}
		return dto.AuditionResponse{}, err
	}

	count, err := s.auditions.CountSignups(ctx, id)
	if err != nil {
		return dto.AuditionResponse{}, err
	}

	return dto.NewAuditionResponse(audition, int(count)), nil
}

func (s *auditionService) Create(ctx context.Context, actor Actor, payload dto.AuditionCreateRequest) (dto.AuditionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.AuditionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AuditionResponse{}, err
	}

	if _, err := s.productions.GetByID(ctx, payload.ProductionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditionResponse{}, ErrProductionNotFound
		}
		return dto.AuditionResponse{}, err
	}

	audition := models.Audition{
		ProductionID:  payload.ProductionID,
		RoleName:      payload.RoleName,
		Description:   payload.Description,
		VoiceRequired: datatypes.NewJSONSlice(payload.VoiceRequired),
		Location:      payload.Location,
		Status:        models.AuditionStatusOpen,
		MaxSlots:      payload.MaxSlots,
		CreatedBy:     actor.ID,
	}

	if payload.AuditionDate != nil {
		date, err := time.Parse(time.RFC3339, *payload.AuditionDate)
		if err != nil {
			return dto.AuditionResponse{}, fmt.Errorf("invalid audition_date: %w", err)
		}
		audition.AuditionDate = &date
	}

	if err := s.auditions.Create(ctx, &audition); err != nil {
		return dto.AuditionResponse{}, err
	}

	s.logger.Info().Uint("audition_id", audition.ID).Str("role", audition.RoleName).Msg("audition opened")
	return dto.NewAuditionResponse(audition, 0), nil
}

func (s *auditionService) Update(ctx context.Context, actor Actor, id uint, payload dto.AuditionUpdateRequest) (dto.AuditionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.AuditionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AuditionResponse{}, err
	}

	audition, err := s.auditions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditionResponse{}, ErrAuditionNotFound
		}
		return dto.AuditionResponse{}, err
	}

	if payload.RoleName != nil {
		audition.RoleName = *payload.RoleName
	}
	if payload.Description != nil {
		audition.Description = *payload.Description
	}
	if payload.VoiceRequired != nil {
		audition.VoiceRequired = datatypes.NewJSONSlice(*payload.VoiceRequired)
	}
	if payload.AuditionDate != nil {
		date, err := time.Parse(time.RFC3339, *payload.AuditionDate)
		if err != nil {
			return dto.AuditionResponse{}, fmt.Errorf("invalid audition_date: %w", err)
		}
		audition.AuditionDate = &date
	}
	if payload.Location != nil {
		audition.Location = *payload.Location
	}
	if payload.Status != nil {
		audition.Status = *payload.Status
	}
	if payload.MaxSlots != nil {
		audition.MaxSlots = payload.MaxSlots
	}

	if err := s.auditions.Update(ctx, &audition); err != nil {
		return dto.AuditionResponse{}, err
	}

	count, err := s.auditions.CountSignups(ctx, id)
	if err != nil {
		return dto.AuditionResponse{}, err
	}

	return dto.NewAuditionResponse(audition, int(count)), nil
}

func (s *auditionService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.auditions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuditionNotFound
		}
		return err
	}

	s.logger.Info().Uint("audition_id", id).Msg("audition deleted")
	return nil
}

// SignUp applies the acting member to an audition. A member can sign up at
// most once per audition; closed or full auditions reject new signups.
func (s *auditionService) SignUp(ctx context.Context, actor Actor, auditionID uint, payload dto.AuditionSignupRequest) (dto.AuditionSignupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuditionSignupResponse{}, err
	}

	audition, err := s.auditions.GetByID(ctx, auditionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuditionSignupResponse{}, ErrAuditionNotFound
		}
		return dto.AuditionSignupResponse{}, err
	}

	exists, err := s.auditions.HasSignup(ctx, auditionID, actor.ID)
	if err != nil {
		return dto.AuditionSignupResponse{}, err
	}
	if exists {
		return dto.AuditionSignupResponse{}, ErrAlreadySignedUp
	}

	count, err := s.auditions.CountSignups(ctx, auditionID)
	if err != nil {
		return dto.AuditionSignupResponse{}, err
	}
	if !audition.AcceptsSignups(int(count)) {
		return dto.AuditionSignupResponse{}, ErrAuditionClosed
	}

	signup := models.AuditionSignup{
		AuditionID: auditionID,
		MemberID:   actor.ID,
		Notes:      payload.Notes,
		VideoURL:   payload.VideoURL,
	}

	if err := s.auditions.CreateSignup(ctx, &signup); err != nil {
		return dto.AuditionSignupResponse{}, err
	}

	s.logger.Info().Uint("audition_id", auditionID).Uint("member_id", actor.ID).Msg("audition signup recorded")
	return dto.NewAuditionSignupResponse(signup), nil
}

func (s *auditionService) ListSignups(ctx context.Context, actor Actor, auditionID uint) ([]dto.AuditionSignupResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return nil, ErrPermissionDenied
	}

	if _, err := s.auditions.GetByID(ctx, auditionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditionNotFound
		}
		return nil, err
	}

	signups, err := s.auditions.ListSignups(ctx, auditionID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditionSignupResponse, 0, len(signups))
	for _, signup := range signups {
		responses = append(responses, dto.NewAuditionSignupResponse(signup))
	}

	return responses, nil
}

func (s *auditionService) AssignCastRole(ctx context.Context, actor Actor, payload dto.CastRoleCreateRequest) (dto.CastRoleResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.CastRoleResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CastRoleResponse{}, err
	}

	if _, err := s.productions.GetByID(ctx, payload.ProductionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CastRoleResponse{}, ErrProductionNotFound
		}
		return dto.CastRoleResponse{}, err
	}

	role := models.CastRole{
		ProductionID: payload.ProductionID,
		MemberID:     payload.MemberID,
		RoleName:     payload.RoleName,
		RoleType:     payload.RoleType,
		Notes:        payload.Notes,
	}
	if role.RoleType == "" {
		role.RoleType = models.CastRoleEnsemble
	}

	if err := s.auditions.CreateCastRole(ctx, &role); err != nil {
		return dto.CastRoleResponse{}, err
	}

	s.logger.Info().Uint("production_id", role.ProductionID).Uint("member_id", role.MemberID).Str("role", role.RoleName).Msg("cast role assigned")
	return dto.NewCastRoleResponse(role), nil
}

func (s *auditionService) ListCastRoles(ctx context.Context, productionID uint) ([]dto.CastRoleResponse, error) {
	roles, err := s.auditions.ListCastRoles(ctx, productionID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CastRoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, dto.NewCastRoleResponse(role))
	}

	return responses, nil
}

func (s *auditionService) RemoveCastRole(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.auditions.DeleteCastRole(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCastRoleNotFound
		}
		return err
	}

	return nil
}
