package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chorushq/chorus-api/internal/models"
)

// FormRepository exposes persistence helpers for forms, their questions and
// member responses.
type FormRepository interface {
	List(ctx context.Context) ([]models.Form, error)
	ListActiveRequired(ctx context.Context) ([]models.Form, error)
	GetByID(ctx context.Context, id uint) (models.Form, error)
	GetWithQuestions(ctx context.Context, id uint) (models.Form, error)
	Create(ctx context.Context, form *models.Form) error
	Update(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id uint) error

	GetQuestion(ctx context.Context, id uint) (models.FormQuestion, error)
	CreateQuestion(ctx context.Context, question *models.FormQuestion) error
	UpdateQuestion(ctx context.Context, question *models.FormQuestion) error
	DeleteQuestion(ctx context.Context, id uint) error

	UpsertResponse(ctx context.Context, response *models.FormResponse) error
	ListResponses(ctx context.Context, formID uint) ([]models.FormResponse, error)
	ListMemberResponses(ctx context.Context, memberID uint) ([]models.FormResponse, error)
}

type formRepository struct {
	db *gorm.DB
}

// NewFormRepository instantiates a GORM-backed form repository.
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) List(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&forms).Error; err != nil {
		return nil, err
	}

	return forms, nil
}

func (r *formRepository) ListActiveRequired(ctx context.Context) ([]models.Form, error) {
	var forms []models.Form
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_required = ?", models.FormStatusActive, true).
		Order("created_at DESC").
		Find(&forms).Error
	if err != nil {
		return nil, err
	}

	return forms, nil
}

func (r *formRepository) GetByID(ctx context.Context, id uint) (models.Form, error) {
	var form models.Form
	if err := r.db.WithContext(ctx).First(&form, id).Error; err != nil {
		return models.Form{}, err
	}

	return form, nil
}

func (r *formRepository) GetWithQuestions(ctx context.Context, id uint) (models.Form, error) {
	var form models.Form
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_questions.order_index ASC")
		}).
		First(&form, id).Error
	if err != nil {
		return models.Form{}, err
	}

	return form, nil
}

func (r *formRepository) Create(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *formRepository) Update(ctx context.Context, form *models.Form) error {
	return r.db.WithContext(ctx).Save(form).Error
}

func (r *formRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Form{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *formRepository) GetQuestion(ctx context.Context, id uint) (models.FormQuestion, error) {
	var question models.FormQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.FormQuestion{}, err
	}

	return question, nil
}

func (r *formRepository) CreateQuestion(ctx context.Context, question *models.FormQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *formRepository) UpdateQuestion(ctx context.Context, question *models.FormQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *formRepository) DeleteQuestion(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FormQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertResponse inserts or replaces the member's response keyed by the
// (form_id, member_id) uniqueness pair. Two near-simultaneous submissions by
// the same member resolve to a single row with the latest answers.
func (r *formRepository) UpsertResponse(ctx context.Context, response *models.FormResponse) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "form_id"}, {Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "submitted_at", "updated_at"}),
	}).Create(response).Error
}

func (r *formRepository) ListResponses(ctx context.Context, formID uint) ([]models.FormResponse, error) {
	var responses []models.FormResponse
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("form_id = ?", formID).
		Order("submitted_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *formRepository) ListMemberResponses(ctx context.Context, memberID uint) ([]models.FormResponse, error) {
	var responses []models.FormResponse
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Find(&responses).Error
	if err != nil {
		return nil, err
	}

	return responses, nil
}
