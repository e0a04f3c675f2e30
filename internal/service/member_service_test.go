package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/repository"
)

func newMemberService(repo *memoryMemberRepo, cache *redis.Client) MemberService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewMemberService(repo, cache, time.Minute, validate, testLogger())
}

func TestMemberServiceListCachesUnfilteredRoster(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	repo := newMemoryMemberRepo()
	seedActiveMember(repo, models.RoleMember)
	seedActiveMember(repo, models.RoleSectionLeader)
	svc := newMemberService(repo, cache)

	first, err := svc.List(context.Background(), repository.MemberFilter{})
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Len(t, first.Items, 2)

	seedActiveMember(repo, models.RoleMember)
	cached, err := svc.List(context.Background(), repository.MemberFilter{})
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Len(t, cached.Items, 2, "cached roster should be served until invalidated")

	filtered, err := svc.List(context.Background(), repository.MemberFilter{Role: models.RoleMember})
	require.NoError(t, err)
	require.False(t, filtered.CacheHit, "filtered queries bypass the cache")
	require.Len(t, filtered.Items, 2)
}

func TestMemberServiceCreateInvalidatesRoster(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	cache := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer cache.Close()

	repo := newMemoryMemberRepo()
	seedActiveMember(repo, models.RoleMember)
	svc := newMemberService(repo, cache)

	_, err = svc.List(context.Background(), repository.MemberFilter{})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.MemberCreateRequest{
		Email:    "new@example.com",
		FullName: "New Singer",
	})
	require.NoError(t, err)

	refreshed, err := svc.List(context.Background(), repository.MemberFilter{})
	require.NoError(t, err)
	require.False(t, refreshed.CacheHit)
	require.Len(t, refreshed.Items, 2)
}

func TestMemberServiceCreatePermissions(t *testing.T) {
	repo := newMemoryMemberRepo()
	svc := newMemberService(repo, nil)

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleMember}, dto.MemberCreateRequest{
		Email:    "a@example.com",
		FullName: "Anyone",
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Section leaders can add plain members but not privileged roles.
	_, err = svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleSectionLeader}, dto.MemberCreateRequest{
		Email:    "b@example.com",
		FullName: "Plain Member",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleSectionLeader}, dto.MemberCreateRequest{
		Email:    "c@example.com",
		FullName: "Would-be Admin",
		Role:     models.RoleAdmin,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestMemberServiceCreateRejectsDuplicateEmail(t *testing.T) {
	repo := newMemoryMemberRepo()
	svc := newMemberService(repo, nil)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.Create(context.Background(), actor, dto.MemberCreateRequest{
		Email:    "taken@example.com",
		FullName: "First",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), actor, dto.MemberCreateRequest{
		Email:    "taken@example.com",
		FullName: "Second",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestMemberServiceCreateRejectsUnknownVoiceType(t *testing.T) {
	svc := newMemberService(newMemoryMemberRepo(), nil)

	voice := "kazoo"
	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.MemberCreateRequest{
		Email:     "v@example.com",
		FullName:  "Voice Test",
		VoiceType: &voice,
	})
	require.Error(t, err)
}

func TestMemberServiceUpdateOwnProfile(t *testing.T) {
	repo := newMemoryMemberRepo()
	member := seedActiveMember(repo, models.RoleMember)
	other := seedActiveMember(repo, models.RoleMember)
	svc := newMemberService(repo, nil)

	name := "Self Edited"
	updated, err := svc.Update(context.Background(), Actor{ID: member.ID, Role: member.Role}, member.ID, dto.MemberUpdateRequest{FullName: &name})
	require.NoError(t, err)
	require.Equal(t, "Self Edited", updated.FullName)

	_, err = svc.Update(context.Background(), Actor{ID: member.ID, Role: member.Role}, other.ID, dto.MemberUpdateRequest{FullName: &name})
	require.ErrorIs(t, err, ErrPermissionDenied)

	role := models.RoleAdmin
	_, err = svc.Update(context.Background(), Actor{ID: member.ID, Role: member.Role}, member.ID, dto.MemberUpdateRequest{Role: &role})
	require.ErrorIs(t, err, ErrPermissionDenied, "members cannot change their own role")
}

func TestMemberServiceUpdateVoiceTypeRequiresSectionRole(t *testing.T) {
	repo := newMemoryMemberRepo()
	member := seedActiveMember(repo, models.RoleMember)
	svc := newMemberService(repo, nil)

	voice := "alto"
	_, err := svc.Update(context.Background(), Actor{ID: member.ID, Role: models.RoleMember}, member.ID, dto.MemberUpdateRequest{VoiceType: &voice})
	require.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(context.Background(), Actor{ID: 99, Role: models.RoleSectionLeader}, member.ID, dto.MemberUpdateRequest{VoiceType: &voice})
	require.NoError(t, err)
	require.NotNil(t, updated.VoiceType)
	require.Equal(t, "alto", *updated.VoiceType)
}

func TestMemberServiceDeactivateKeepsRow(t *testing.T) {
	repo := newMemoryMemberRepo()
	member := seedActiveMember(repo, models.RoleMember)
	svc := newMemberService(repo, nil)

	err := svc.Deactivate(context.Background(), Actor{ID: 99, Role: models.RoleSectionLeader}, member.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Deactivate(context.Background(), Actor{ID: 99, Role: models.RoleAdmin}, member.ID)
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), member.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusInactive, stored.Status)
}

func TestMemberServiceGetMissing(t *testing.T) {
	svc := newMemberService(newMemoryMemberRepo(), nil)

	_, err := svc.Get(context.Background(), 404)
	require.ErrorIs(t, err, ErrMemberNotFound)
}
