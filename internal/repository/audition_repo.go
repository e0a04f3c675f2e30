package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

// AuditionRepository persists auditions, signups and cast roles.
type AuditionRepository interface {
	List(ctx context.Context, productionID uint) ([]models.Audition, error)
	GetByID(ctx context.Context, id uint) (models.Audition, error)
	Create(ctx context.Context, audition *models.Audition) error
	Update(ctx context.Context, audition *models.Audition) error
	Delete(ctx context.Context, id uint) error

	CountSignups(ctx context.Context, auditionID uint) (int64, error)
	HasSignup(ctx context.Context, auditionID, memberID uint) (bool, error)
	CreateSignup(ctx context.Context, signup *models.AuditionSignup) error
	ListSignups(ctx context.Context, auditionID uint) ([]models.AuditionSignup, error)

	CreateCastRole(ctx context.Context, role *models.CastRole) error
	ListCastRoles(ctx context.Context, productionID uint) ([]models.CastRole, error)
	DeleteCastRole(ctx context.Context, id uint) error
}

type auditionRepository struct {
	db *gorm.DB
}

// NewAuditionRepository instantiates a GORM-backed audition repository.
func NewAuditionRepository(db *gorm.DB) AuditionRepository {
	return &auditionRepository{db: db}
}

func (r *auditionRepository) List(ctx context.Context, productionID uint) ([]models.Audition, error) {
	query := r.db.WithContext(ctx).Model(&models.Audition{})
	if productionID != 0 {
		query = query.Where("production_id = ?", productionID)
	}

	var auditions []models.Audition
	if err := query.Order("created_at DESC").Find(&auditions).Error; err != nil {
		return nil, err
	}

	return auditions, nil
}

func (r *auditionRepository) GetByID(ctx context.Context, id uint) (models.Audition, error) {
	var audition models.Audition
	if err := r.db.WithContext(ctx).First(&audition, id).Error; err != nil {
		return models.Audition{}, err
	}

	return audition, nil
}

func (r *auditionRepository) Create(ctx context.Context, audition *models.Audition) error {
	return r.db.WithContext(ctx).Create(audition).Error
}

func (r *auditionRepository) Update(ctx context.Context, audition *models.Audition) error {
	return r.db.WithContext(ctx).Save(audition).Error
}

func (r *auditionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Audition{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *auditionRepository) CountSignups(ctx context.Context, auditionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditionSignup{}).
		Where("audition_id = ?", auditionID).
		Count(&count).Error
	return count, err
}

func (r *auditionRepository) HasSignup(ctx context.Context, auditionID, memberID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditionSignup{}).
		Where("audition_id = ? AND member_id = ?", auditionID, memberID).
		Count(&count).Error
	return count > 0, err
}

func (r *auditionRepository) CreateSignup(ctx context.Context, signup *models.AuditionSignup) error {
	return r.db.WithContext(ctx).Create(signup).Error
}

func (r *auditionRepository) ListSignups(ctx context.Context, auditionID uint) ([]models.AuditionSignup, error) {
	var signups []models.AuditionSignup
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("audition_id = ?", auditionID).
		Order("created_at ASC").
		Find(&signups).Error
	if err != nil {
		return nil, err
	}

	return signups, nil
}

func (r *auditionRepository) CreateCastRole(ctx context.Context, role *models.CastRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *auditionRepository) ListCastRoles(ctx context.Context, productionID uint) ([]models.CastRole, error) {
	var roles []models.CastRole
	query := r.db.WithContext(ctx).Preload("Member")
	if productionID != 0 {
		query = query.Where("production_id = ?", productionID)
	}
	if err := query.Order("role_name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (r *auditionRepository) DeleteCastRole(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CastRole{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
