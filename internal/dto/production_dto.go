package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// ProductionCreateRequest describes the payload for creating a production.
type ProductionCreateRequest struct {
	Title       string  `json:"title" validate:"required,min=2"`
	Description string  `json:"description"`
	Season      string  `json:"season"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// ProductionUpdateRequest carries a partial production update.
type ProductionUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2"`
	Description *string `json:"description"`
	Season      *string `json:"season"`
	StartDate   *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsActive    *bool   `json:"is_active"`
}

// ProductionResponse is the serialized representation of a production.
type ProductionResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Season      string     `json:"season"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	PosterURL   string     `json:"poster_url"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewProductionResponse converts a model into a DTO.
func NewProductionResponse(model models.Production) ProductionResponse {
	return ProductionResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Season:      model.Season,
		StartDate:   model.StartDate,
		EndDate:     model.EndDate,
		PosterURL:   model.PosterURL,
		IsActive:    model.IsActive,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
	}
}

// NewProductionResponseSlice converts a slice of models into DTOs.
func NewProductionResponseSlice(productions []models.Production) []ProductionResponse {
	responses := make([]ProductionResponse, 0, len(productions))
	for _, production := range productions {
		responses = append(responses, NewProductionResponse(production))
	}

	return responses
}
