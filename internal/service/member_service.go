package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

// ErrMemberNotFound indicates the requested member does not exist.
var ErrMemberNotFound = errors.New("member not found")

// ErrPermissionDenied indicates the acting role may not perform the mutation.
var ErrPermissionDenied = errors.New("permission denied")

// ErrEmailTaken indicates a member with the email already exists.
var ErrEmailTaken = errors.New("email already registered")

const rosterCacheKey = "members:roster:v1"

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role string
}

// MemberService exposes roster use cases.
type MemberService interface {
	List(ctx context.Context, filter repository.MemberFilter) (dto.MemberListResponse, error)
	Get(ctx context.Context, id uint) (dto.MemberResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.MemberCreateRequest) (dto.MemberResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.MemberUpdateRequest) (dto.MemberResponse, error)
	Deactivate(ctx context.Context, actor Actor, id uint) error
}

type memberService struct {
	repo      repository.MemberRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewMemberService builds a new member service.
func NewMemberService(repo repository.MemberRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, logger zerolog.Logger) MemberService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &memberService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		logger:    logger.With().Str("component", "member_service").Logger(),
		now:       time.Now,
	}
}

func (s *memberService) List(ctx context.Context, filter repository.MemberFilter) (dto.MemberListResponse, error) {
	// Only the unfiltered roster is cached; filtered queries go to the store.
	cacheable := filter == (repository.MemberFilter{})

	if cacheable && s.cache != nil {
		if cached, err := s.cache.Get(ctx, rosterCacheKey).Result(); err == nil && cached != "" {
			var response dto.MemberListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read roster cache")
		}
	}

	members, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.MemberListResponse{}, err
	}

	pagination := dto.PaginationMeta{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalItems: total,
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	if filter.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(filter.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	response := dto.MemberListResponse{
		Items:      dto.NewMemberResponseSlice(members),
		Pagination: pagination,
	}

	if cacheable && s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, rosterCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache roster")
			}
		}
	}

	return response, nil
}

func (s *memberService) Get(ctx context.Context, id uint) (dto.MemberResponse, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MemberResponse{}, ErrMemberNotFound
		}
		return dto.MemberResponse{}, err
	}

	return dto.NewMemberResponse(member), nil
}

func (s *memberService) Create(ctx context.Context, actor Actor, payload dto.MemberCreateRequest) (dto.MemberResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.MemberResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.MemberResponse{}, err
	}

	role := payload.Role
	if role == "" {
		role = models.RoleMember
	}
	if role != models.RoleMember && !permissions.CanEditRole(actor.Role) {
		return dto.MemberResponse{}, ErrPermissionDenied
	}

	if payload.VoiceType != nil && !models.IsValidVoiceType(*payload.VoiceType) {
		return dto.MemberResponse{}, fmt.Errorf("invalid voice type: %s", *payload.VoiceType)
	}

	if _, err := s.repo.GetByEmail(ctx, payload.Email); err == nil {
		return dto.MemberResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.MemberResponse{}, err
	}

	member := models.Member{
		Email:     payload.Email,
		FullName:  payload.FullName,
		Phone:     payload.Phone,
		Role:      role,
		VoiceType: payload.VoiceType,
		Status:    models.StatusActive,
	}

	if payload.JoinedDate != nil {
		joined, err := time.Parse("2006-01-02", *payload.JoinedDate)
		if err != nil {
			return dto.MemberResponse{}, fmt.Errorf("invalid joined date: %w", err)
		}
		member.JoinedDate = &joined
	}

	if err := s.repo.Create(ctx, &member); err != nil {
		return dto.MemberResponse{}, err
	}

	s.invalidateRoster(ctx)
	s.logger.Info().Uint("member_id", member.ID).Str("role", member.Role).Msg("member created")

	return dto.NewMemberResponse(member), nil
}

func (s *memberService) Update(ctx context.Context, actor Actor, id uint, payload dto.MemberUpdateRequest) (dto.MemberResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MemberResponse{}, err
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MemberResponse{}, ErrMemberNotFound
		}
		return dto.MemberResponse{}, err
	}

	// Members may edit their own profile fields; editing someone else's
	// profile requires a content-management role.
	if actor.ID != member.ID && !permissions.CanManageContent(actor.Role) {
		return dto.MemberResponse{}, ErrPermissionDenied
	}

	if payload.Role != nil {
		if !permissions.CanEditRole(actor.Role) {
			return dto.MemberResponse{}, ErrPermissionDenied
		}
		member.Role = *payload.Role
	}

	if payload.Status != nil {
		if !permissions.CanEditMemberStatus(actor.Role) {
			return dto.MemberResponse{}, ErrPermissionDenied
		}
		member.Status = *payload.Status
	}

	if payload.VoiceType != nil {
		if !permissions.CanEditVoiceType(actor.Role) {
			return dto.MemberResponse{}, ErrPermissionDenied
		}
		if *payload.VoiceType == "" {
			member.VoiceType = nil
		} else {
			if !models.IsValidVoiceType(*payload.VoiceType) {
				return dto.MemberResponse{}, fmt.Errorf("invalid voice type: %s", *payload.VoiceType)
			}
			member.VoiceType = payload.VoiceType
		}
	}

	if payload.FullName != nil {
		member.FullName = *payload.FullName
	}
	if payload.DisplayName != nil {
		member.DisplayName = *payload.DisplayName
	}
	if payload.AvatarURL != nil {
		member.AvatarURL = *payload.AvatarURL
	}
	if payload.Phone != nil {
		member.Phone = *payload.Phone
	}
	if payload.Bio != nil {
		member.Bio = *payload.Bio
	}
	if payload.EmergencyContactName != nil {
		member.EmergencyContactName = *payload.EmergencyContactName
	}
	if payload.EmergencyContactPhone != nil {
		member.EmergencyContactPhone = *payload.EmergencyContactPhone
	}

	if err := s.repo.Update(ctx, &member); err != nil {
		return dto.MemberResponse{}, err
	}

	s.invalidateRoster(ctx)
	s.logger.Info().Uint("member_id", member.ID).Msg("member updated")

	return dto.NewMemberResponse(member), nil
}

// Deactivate moves the member to inactive status. Member rows are never hard
// deleted.
func (s *memberService) Deactivate(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanEditMemberStatus(actor.Role) {
		return ErrPermissionDenied
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	member.Status = models.StatusInactive
	if err := s.repo.Update(ctx, &member); err != nil {
		return err
	}

	s.invalidateRoster(ctx)
	s.logger.Info().Uint("member_id", id).Msg("member deactivated")
	return nil
}

func (s *memberService) invalidateRoster(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, rosterCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate roster cache")
	}
}
