package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/permissions"
	"github.com/chorushq/chorus-api/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

const announcementCachePrefix = "announcements:page:"

// AnnouncementNotifier receives announcement events for fan-out.
type AnnouncementNotifier interface {
	AnnouncementCreated(ctx context.Context, announcement models.Announcement)
}

// AnnouncementService exposes the announcement board use cases.
type AnnouncementService interface {
	List(ctx context.Context, filter repository.AnnouncementFilter) (dto.AnnouncementListResponse, error)
	Get(ctx context.Context, id uint) (dto.AnnouncementResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, actor Actor, id uint) error
}

type announcementService struct {
	repo      repository.AnnouncementRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	notifier  AnnouncementNotifier
	logger    zerolog.Logger
}

// NewAnnouncementService builds the announcement board service. Content is
// sanitized through a UGC policy before it is stored.
func NewAnnouncementService(repo repository.AnnouncementRepository, cache *redis.Client, ttl time.Duration, validate *validator.Validate, notifier AnnouncementNotifier, logger zerolog.Logger) AnnouncementService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &announcementService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  ttl,
		validator: validate,
		sanitizer: bluemonday.UGCPolicy(),
		notifier:  notifier,
		logger:    logger.With().Str("component", "announcement_service").Logger(),
	}
}

func announcementCacheKey(filter repository.AnnouncementFilter) string {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	return fmt.Sprintf("%s%d:%d", announcementCachePrefix, page, filter.PageSize)
}

func (s *announcementService) List(ctx context.Context, filter repository.AnnouncementFilter) (dto.AnnouncementListResponse, error) {
	key := announcementCacheKey(filter)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil && cached != "" {
			var response dto.AnnouncementListResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read announcement cache")
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AnnouncementListResponse{}, err
	}

	response := dto.AnnouncementListResponse{
		Items: make([]dto.AnnouncementResponse, 0, len(items)),
		Pagination: dto.PaginationMeta{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalItems: total,
		},
	}
	if response.Pagination.Page <= 0 {
		response.Pagination.Page = 1
	}
	if filter.PageSize > 0 {
		response.Pagination.TotalPages = int(math.Ceil(float64(total) / float64(filter.PageSize)))
	} else {
		response.Pagination.TotalPages = 1
	}
	for _, item := range items {
		response.Items = append(response.Items, dto.NewAnnouncementResponse(item))
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write announcement cache")
			}
		}
	}

	return response, nil
}

func (s *announcementService) Get(ctx context.Context, id uint) (dto.AnnouncementResponse, error) {
	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Create(ctx context.Context, actor Actor, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.AnnouncementResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement := models.Announcement{
		Title:    s.sanitizer.Sanitize(payload.Title),
		Content:  s.sanitizer.Sanitize(payload.Content),
		Priority: payload.Priority,
		IsPinned: payload.IsPinned,
		AuthorID: actor.ID,
	}

	if err := s.repo.Create(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidate(ctx)
	s.logger.Info().Uint("announcement_id", announcement.ID).Bool("pinned", announcement.IsPinned).Msg("announcement posted")

	if s.notifier != nil {
		s.notifier.AnnouncementCreated(ctx, announcement)
	}

	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Update(ctx context.Context, actor Actor, id uint, payload dto.AnnouncementUpdateRequest) (dto.AnnouncementResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.AnnouncementResponse{}, ErrPermissionDenied
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcement, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return dto.AnnouncementResponse{}, err
	}

	if payload.Title != nil {
		announcement.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Content != nil {
		announcement.Content = s.sanitizer.Sanitize(*payload.Content)
	}
	if payload.Priority != nil {
		announcement.Priority = *payload.Priority
	}
	if payload.IsPinned != nil {
		announcement.IsPinned = *payload.IsPinned
	}

	if err := s.repo.Update(ctx, &announcement); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	s.invalidate(ctx)
	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *announcementService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !permissions.CanManageContent(actor.Role) {
		return ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}

	s.invalidate(ctx)
	s.logger.Info().Uint("announcement_id", id).Msg("announcement deleted")
	return nil
}

// invalidate drops every cached announcement page.
func (s *announcementService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	iter := s.cache.Scan(ctx, 0, announcementCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", iter.Val()).Msg("failed to drop announcement cache key")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("announcement cache invalidation scan failed")
	}
}
