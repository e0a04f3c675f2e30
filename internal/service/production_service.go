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

var ErrProductionNotFound = errors.New("production not found")

const productionDateLayout = "2006-01-02"

// ProductionService exposes production lifecycle use cases.
type ProductionService interface {
	List(ctx context.Context, activeOnly bool) ([]dto.ProductionResponse, error)
	Get(ctx context.Context, id uint) (dto.ProductionResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.ProductionCreateRequest) (dto.ProductionResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.ProductionUpdateRequest) (dto.ProductionResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type productionService struct {
	productions repository.ProductionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewProductionService builds the production service.
func NewProductionService(productions repository.ProductionRepository, validate *validator.Validate, logger zerolog.Logger) ProductionService {
	return &productionService{
		productions: productions,
		validator:   validate,
		logger:      logger.With().Str("component", "production_service").Logger(),
	}
}

func (s *productionService) List(ctx context.Context, activeOnly bool) ([]dto.ProductionResponse, error) {
	productions, err := s.productions.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	return dto.NewProductionResponseSlice(productions), nil
}

func (s *productionService) Get(ctx context.Context, id uint) (dto.ProductionResponse, error) {
	production, err := s.productions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductionResponse{}, ErrProductionNotFound
		}
		return dto.ProductionResponse{}, err
	}

	return dto.NewProductionResponse(production), nil
}

func (s *productionService) Create(ctx context.Context, actor Actor, payload dto.ProductionCreateRequest) (dto.ProductionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.ProductionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ProductionResponse{}, err
	}

	production := models.Production{
		Title:       payload.Title,
		Description: payload.Description,
		Season:      payload.Season,
		IsActive:    true,
		CreatedBy:   actor.ID,
	}

	startDate, err := parseProductionDate(payload.StartDate)
	if err != nil {
		return dto.ProductionResponse{}, err
	}
	production.StartDate = startDate

	endDate, err := parseProductionDate(payload.EndDate)
	if err != nil {
		return dto.ProductionResponse{}, err
	}
	production.EndDate = endDate

	if err := s.productions.Create(ctx, &production); err != nil {
		return dto.ProductionResponse{}, err
	}

	s.logger.Info().Uint("production_id", production.ID).Str("title", production.Title).Msg("production created")
	return dto.NewProductionResponse(production), nil
}

func (s *productionService) Update(ctx context.Context, actor Actor, id uint, payload dto.ProductionUpdateRequest) (dto.ProductionResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.ProductionResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.ProductionResponse{}, err
	}

	production, err := s.productions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProductionResponse{}, ErrProductionNotFound
		}
		return dto.ProductionResponse{}, err
	}

	if payload.Title != nil {
		production.Title = *payload.Title
	}
	if payload.Description != nil {
		production.Description = *payload.Description
	}
	if payload.Season != nil {
		production.Season = *payload.Season
	}
	if payload.StartDate != nil {
		startDate, err := parseProductionDate(payload.StartDate)
		if err != nil {
			return dto.ProductionResponse{}, err
		}
		production.StartDate = startDate
	}
	if payload.EndDate != nil {
		endDate, err := parseProductionDate(payload.EndDate)
		if err != nil {
			return dto.ProductionResponse{}, err
		}
		production.EndDate = endDate
	}
	if payload.IsActive != nil {
		production.IsActive = *payload.IsActive
	}

	if err := s.productions.Update(ctx, &production); err != nil {
		return dto.ProductionResponse{}, err
	}

	return dto.NewProductionResponse(production), nil
}

func (s *productionService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.productions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductionNotFound
		}
		return err
	}

	s.logger.Info().Uint("production_id", id).Msg("production deleted")
	return nil
}

func parseProductionDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	parsed, err := time.Parse(productionDateLayout, *value)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	return &parsed, nil
}
