package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

// SongFilter narrows repertoire list queries.
type SongFilter struct {
	Search       string
	Genre        string
	ProductionID uint
}

// SongRepository persists repertoire entries.
type SongRepository interface {
	List(ctx context.Context, filter SongFilter) ([]models.Song, error)
	GetByID(ctx context.Context, id uint) (models.Song, error)
	Create(ctx context.Context, song *models.Song) error
	Update(ctx context.Context, song *models.Song) error
	Delete(ctx context.Context, id uint) error
}

type songRepository struct {
	db *gorm.DB
}

// NewSongRepository instantiates a GORM-backed song repository.
func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepository{db: db}
}

func (r *songRepository) List(ctx context.Context, filter SongFilter) ([]models.Song, error) {
	query := r.db.WithContext(ctx).Model(&models.Song{})

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(composer) LIKE ?", pattern, pattern)
	}
	if filter.Genre != "" {
		query = query.Where("genre = ?", filter.Genre)
	}
	if filter.ProductionID != 0 {
		query = query.Where("production_id = ?", filter.ProductionID)
	}

	var songs []models.Song
	if err := query.Order("title ASC").Find(&songs).Error; err != nil {
		return nil, err
	}

	return songs, nil
}

func (r *songRepository) GetByID(ctx context.Context, id uint) (models.Song, error) {
	var song models.Song
	if err := r.db.WithContext(ctx).First(&song, id).Error; err != nil {
		return models.Song{}, err
	}

	return song, nil
}

func (r *songRepository) Create(ctx context.Context, song *models.Song) error {
	return r.db.WithContext(ctx).Create(song).Error
}

func (r *songRepository) Update(ctx context.Context, song *models.Song) error {
	return r.db.WithContext(ctx).Save(song).Error
}

func (r *songRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Song{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
