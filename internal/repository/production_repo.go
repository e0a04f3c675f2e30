package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

// ProductionRepository persists productions.
type ProductionRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Production, error)
	GetByID(ctx context.Context, id uint) (models.Production, error)
	Create(ctx context.Context, production *models.Production) error
	Update(ctx context.Context, production *models.Production) error
	Delete(ctx context.Context, id uint) error
}

type productionRepository struct {
	db *gorm.DB
}

// NewProductionRepository instantiates a GORM-backed production repository.
func NewProductionRepository(db *gorm.DB) ProductionRepository {
	return &productionRepository{db: db}
}

func (r *productionRepository) List(ctx context.Context, activeOnly bool) ([]models.Production, error) {
	query := r.db.WithContext(ctx).Model(&models.Production{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var productions []models.Production
	if err := query.Order("created_at DESC").Find(&productions).Error; err != nil {
		return nil, err
	}

	return productions, nil
}

func (r *productionRepository) GetByID(ctx context.Context, id uint) (models.Production, error) {
	var production models.Production
	if err := r.db.WithContext(ctx).First(&production, id).Error; err != nil {
		return models.Production{}, err
	}

	return production, nil
}

func (r *productionRepository) Create(ctx context.Context, production *models.Production) error {
	return r.db.WithContext(ctx).Create(production).Error
}

func (r *productionRepository) Update(ctx context.Context, production *models.Production) error {
	return r.db.WithContext(ctx).Save(production).Error
}

func (r *productionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Production{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
