package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

// MemberFilter describes roster list filtering options.
type MemberFilter struct {
	Role      string
	Status    string
	VoiceType string
	Search    string
	Page      int
	PageSize  int
}

// MemberRepository provides access to member profiles.
type MemberRepository interface {
	List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error)
	ListAll(ctx context.Context) ([]models.Member, error)
	GetByID(ctx context.Context, id uint) (models.Member, error)
	GetByEmail(ctx context.Context, email string) (models.Member, error)
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository instantiates a GORM-backed member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) List(ctx context.Context, filter MemberFilter) ([]models.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Member{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VoiceType != "" {
		query = query.Where("voice_type = ?", filter.VoiceType)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		offset := (page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var members []models.Member
	if err := query.Order("full_name ASC").Find(&members).Error; err != nil {
		return nil, 0, err
	}

	return members, total, nil
}

func (r *memberRepository) ListAll(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := r.db.WithContext(ctx).Order("full_name ASC").Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return models.Member{}, err
	}

	return member, nil
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&member).Error; err != nil {
		return models.Member{}, err
	}

	return member, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) Update(ctx context.Context, member *models.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}
