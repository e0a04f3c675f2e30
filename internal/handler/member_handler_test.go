package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/handler"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/repository"
	"github.com/chorushq/chorus-api/internal/service"
)

type mockMemberService struct {
	lastFilter repository.MemberFilter
	lastActor  service.Actor
	list       dto.MemberListResponse
	member     dto.MemberResponse
	err        error
}

func (m *mockMemberService) List(_ context.Context, filter repository.MemberFilter) (dto.MemberListResponse, error) {
	m.lastFilter = filter
	if m.err != nil {
		return dto.MemberListResponse{}, m.err
	}
	return m.list, nil
}

func (m *mockMemberService) Get(_ context.Context, id uint) (dto.MemberResponse, error) {
	if m.err != nil {
		return dto.MemberResponse{}, m.err
	}
	member := m.member
	member.ID = id
	return member, nil
}

func (m *mockMemberService) Create(_ context.Context, actor service.Actor, payload dto.MemberCreateRequest) (dto.MemberResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return dto.MemberResponse{}, m.err
	}
	return dto.MemberResponse{ID: 1, Email: payload.Email, FullName: payload.FullName}, nil
}

func (m *mockMemberService) Update(_ context.Context, actor service.Actor, id uint, _ dto.MemberUpdateRequest) (dto.MemberResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return dto.MemberResponse{}, m.err
	}
	return dto.MemberResponse{ID: id}, nil
}

func (m *mockMemberService) Deactivate(_ context.Context, actor service.Actor, _ uint) error {
	m.lastActor = actor
	return m.err
}

func newMemberApp(svc service.MemberService, actor service.Actor) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("member_id", actor.ID)
		c.Locals("member_role", actor.Role)
		return c.Next()
	})
	handler.NewMemberHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/members"))
	return app
}

func TestMemberHandler_ListPassesFiltersAndCacheHeader(t *testing.T) {
	svc := &mockMemberService{list: dto.MemberListResponse{
		Items:      []dto.MemberResponse{{ID: 1, FullName: "Alto One", Role: models.RoleMember}},
		Pagination: dto.PaginationMeta{Page: 2, PageSize: 10, TotalItems: 11, TotalPages: 2},
		CacheHit:   true,
	}}
	app := newMemberApp(svc, service.Actor{ID: 1, Role: models.RoleMember})

	req := httptest.NewRequest(http.MethodGet, "/api/members?role=member&voiceType=alto&search=an&page=2&pageSize=10", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "true", resp.Header.Get("X-Cache-Hit"))

	var body struct {
		Success bool                   `json:"success"`
		Data    dto.MemberListResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "members retrieved", body.Message)
	require.Len(t, body.Data.Items, 1)
	require.Equal(t, "member", svc.lastFilter.Role)
	require.Equal(t, "alto", svc.lastFilter.VoiceType)
	require.Equal(t, "an", svc.lastFilter.Search)
	require.Equal(t, 2, svc.lastFilter.Page)
	require.Equal(t, 10, svc.lastFilter.PageSize)
}

func TestMemberHandler_ListCacheMissHeader(t *testing.T) {
	svc := &mockMemberService{list: dto.MemberListResponse{CacheHit: false}}
	app := newMemberApp(svc, service.Actor{ID: 1, Role: models.RoleMember})

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "false", resp.Header.Get("X-Cache-Hit"))
}

func TestMemberHandler_ListInvalidPage(t *testing.T) {
	svc := &mockMemberService{}
	app := newMemberApp(svc, service.Actor{ID: 1, Role: models.RoleMember})

	req := httptest.NewRequest(http.MethodGet, "/api/members?page=oops", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMemberHandler_CreateForwardsActor(t *testing.T) {
	svc := &mockMemberService{}
	app := newMemberApp(svc, service.Actor{ID: 3, Role: models.RoleSectionLeader})

	req := jsonRequest(t, http.MethodPost, "/api/members", dto.MemberCreateRequest{
		Email:    "soprano@example.com",
		FullName: "Soprano One",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(3), svc.lastActor.ID)
	require.Equal(t, models.RoleSectionLeader, svc.lastActor.Role)
}

func TestMemberHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"missing member", service.ErrMemberNotFound, fiber.StatusNotFound},
		{"permission denied", service.ErrPermissionDenied, fiber.StatusForbidden},
		{"duplicate email", service.ErrEmailTaken, fiber.StatusConflict},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockMemberService{err: tc.err}
			app := newMemberApp(svc, service.Actor{ID: 1, Role: models.RoleAdmin})

			req := jsonRequest(t, http.MethodPost, "/api/members", dto.MemberCreateRequest{
				Email:    "soprano@example.com",
				FullName: "Soprano One",
			})
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestMemberHandler_CreateGuardRejectsPlainMember(t *testing.T) {
	svc := &mockMemberService{}
	app := newMemberApp(svc, service.Actor{ID: 5, Role: models.RoleMember})

	req := jsonRequest(t, http.MethodPost, "/api/members", dto.MemberCreateRequest{
		Email:    "soprano@example.com",
		FullName: "Soprano One",
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, svc.lastActor, "guard must reject before the service is reached")
}

func TestMemberHandler_DeactivateGuardRejectsSectionLeader(t *testing.T) {
	svc := &mockMemberService{}
	app := newMemberApp(svc, service.Actor{ID: 3, Role: models.RoleSectionLeader})

	req := httptest.NewRequest(http.MethodDelete, "/api/members/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Zero(t, svc.lastActor)
}

func TestMemberHandler_DeactivateSuccess(t *testing.T) {
	svc := &mockMemberService{}
	app := newMemberApp(svc, service.Actor{ID: 1, Role: models.RoleAdmin})

	req := httptest.NewRequest(http.MethodDelete, "/api/members/7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "member deactivated", body.Message)
}
