package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
)

type memoryProductionRepo struct {
	productions map[uint]models.Production
	nextID      uint
}

func newMemoryProductionRepo() *memoryProductionRepo {
	return &memoryProductionRepo{productions: make(map[uint]models.Production), nextID: 1}
}

func (m *memoryProductionRepo) List(ctx context.Context, activeOnly bool) ([]models.Production, error) {
	productions := make([]models.Production, 0, len(m.productions))
	for _, production := range m.productions {
		if activeOnly && !production.IsActive {
			continue
		}
		productions = append(productions, production)
	}
	sort.Slice(productions, func(i, j int) bool { return productions[i].ID < productions[j].ID })
	return productions, nil
}

func (m *memoryProductionRepo) GetByID(ctx context.Context, id uint) (models.Production, error) {
	production, ok := m.productions[id]
	if !ok {
		return models.Production{}, gorm.ErrRecordNotFound
	}
	return production, nil
}

func (m *memoryProductionRepo) Create(ctx context.Context, production *models.Production) error {
	production.ID = m.nextID
	m.productions[production.ID] = *production
	m.nextID++
	return nil
}

func (m *memoryProductionRepo) Update(ctx context.Context, production *models.Production) error {
	if _, ok := m.productions[production.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.productions[production.ID] = *production
	return nil
}

func (m *memoryProductionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.productions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.productions, id)
	return nil
}

type signupKey struct {
	auditionID uint
	memberID   uint
}

type memoryAuditionRepo struct {
	auditions map[uint]models.Audition
	signups   map[signupKey]models.AuditionSignup
	castRoles map[uint]models.CastRole
	nextID    uint
}

func newMemoryAuditionRepo() *memoryAuditionRepo {
	return &memoryAuditionRepo{
		auditions: make(map[uint]models.Audition),
		signups:   make(map[signupKey]models.AuditionSignup),
		castRoles: make(map[uint]models.CastRole),
		nextID:    1,
	}
}

func (m *memoryAuditionRepo) List(ctx context.Context, productionID uint) ([]models.Audition, error) {
	auditions := make([]models.Audition, 0, len(m.auditions))
	for _, audition := range m.auditions {
		if productionID != 0 && audition.ProductionID != productionID {
			continue
		}
		auditions = append(auditions, audition)
	}
	sort.Slice(auditions, func(i, j int) bool { return auditions[i].ID < auditions[j].ID })
	return auditions, nil
}

func (m *memoryAuditionRepo) GetByID(ctx context.Context, id uint) (models.Audition, error) {
	audition, ok := m.auditions[id]
	if !ok {
		return models.Audition{}, gorm.ErrRecordNotFound
	}
	return audition, nil
}

func (m *memoryAuditionRepo) Create(ctx context.Context, audition *models.Audition) error {
	audition.ID = m.nextID
	audition.CreatedAt = time.Now()
	m.auditions[audition.ID] = *audition
	m.nextID++
	return nil
}

func (m *memoryAuditionRepo) Update(ctx context.Context, audition *models.Audition) error {
	if _, ok := m.auditions[audition.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.auditions[audition.ID] = *audition
	return nil
}

func (m *memoryAuditionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.auditions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.auditions, id)
	return nil
}

func (m *memoryAuditionRepo) CountSignups(ctx context.Context, auditionID uint) (int64, error) {
	var count int64
	for key := range m.signups {
		if key.auditionID == auditionID {
			count++
		}
	}
	return count, nil
}

func (m *memoryAuditionRepo) HasSignup(ctx context.Context, auditionID, memberID uint) (bool, error) {
	_, ok := m.signups[signupKey{auditionID: auditionID, memberID: memberID}]
	return ok, nil
}

func (m *memoryAuditionRepo) CreateSignup(ctx context.Context, signup *models.AuditionSignup) error {
	signup.ID = m.nextID
	signup.CreatedAt = time.Now()
	m.signups[signupKey{auditionID: signup.AuditionID, memberID: signup.MemberID}] = *signup
	m.nextID++
	return nil
}

func (m *memoryAuditionRepo) ListSignups(ctx context.Context, auditionID uint) ([]models.AuditionSignup, error) {
	signups := make([]models.AuditionSignup, 0)
	for key, signup := range m.signups {
		if key.auditionID == auditionID {
			signups = append(signups, signup)
		}
	}
	sort.Slice(signups, func(i, j int) bool { return signups[i].ID < signups[j].ID })
	return signups, nil
}

func (m *memoryAuditionRepo) CreateCastRole(ctx context.Context, role *models.CastRole) error {
	role.ID = m.nextID
	m.castRoles[role.ID] = *role
	m.nextID++
	return nil
}

func (m *memoryAuditionRepo) ListCastRoles(ctx context.Context, productionID uint) ([]models.CastRole, error) {
	roles := make([]models.CastRole, 0)
	for _, role := range m.castRoles {
		if productionID != 0 && role.ProductionID != productionID {
			continue
		}
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (m *memoryAuditionRepo) DeleteCastRole(ctx context.Context, id uint) error {
	if _, ok := m.castRoles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.castRoles, id)
	return nil
}

func newAuditionService(auditions *memoryAuditionRepo, productions *memoryProductionRepo) AuditionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuditionService(auditions, productions, validate, testLogger())
}

func seedAudition(repo *memoryAuditionRepo, audition models.Audition) models.Audition {
	if audition.ID == 0 {
		audition.ID = repo.nextID
		repo.nextID++
	}
	repo.auditions[audition.ID] = audition
	return audition
}

func TestAuditionServiceSignUpOncePerMember(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	svc := newAuditionService(auditions, newMemoryProductionRepo())

	audition := seedAudition(auditions, models.Audition{ProductionID: 1, RoleName: "Eliza", Status: models.AuditionStatusOpen})
	actor := Actor{ID: 5, Role: models.RoleMember}

	first, err := svc.SignUp(context.Background(), actor, audition.ID, dto.AuditionSignupRequest{Notes: "prepared a ballad"})
	require.NoError(t, err)
	require.Equal(t, actor.ID, first.MemberID)

	_, err = svc.SignUp(context.Background(), actor, audition.ID, dto.AuditionSignupRequest{})
	require.ErrorIs(t, err, ErrAlreadySignedUp)
}

func TestAuditionServiceSignUpClosedAudition(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	svc := newAuditionService(auditions, newMemoryProductionRepo())

	audition := seedAudition(auditions, models.Audition{ProductionID: 1, RoleName: "Javert", Status: models.AuditionStatusClosed})

	_, err := svc.SignUp(context.Background(), Actor{ID: 5, Role: models.RoleMember}, audition.ID, dto.AuditionSignupRequest{})
	require.ErrorIs(t, err, ErrAuditionClosed)
}

func TestAuditionServiceSignUpFullAudition(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	svc := newAuditionService(auditions, newMemoryProductionRepo())

	slots := 2
	audition := seedAudition(auditions, models.Audition{ProductionID: 1, RoleName: "Ensemble", Status: models.AuditionStatusOpen, MaxSlots: &slots})

	for memberID := uint(1); memberID <= 2; memberID++ {
		_, err := svc.SignUp(context.Background(), Actor{ID: memberID, Role: models.RoleMember}, audition.ID, dto.AuditionSignupRequest{})
		require.NoError(t, err)
	}

	_, err := svc.SignUp(context.Background(), Actor{ID: 3, Role: models.RoleMember}, audition.ID, dto.AuditionSignupRequest{})
	require.ErrorIs(t, err, ErrAuditionClosed)
}

func TestAuditionServiceGetIncludesSignupCount(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	svc := newAuditionService(auditions, newMemoryProductionRepo())

	audition := seedAudition(auditions, models.Audition{ProductionID: 1, RoleName: "Fantine", Status: models.AuditionStatusOpen})
	for memberID := uint(1); memberID <= 3; memberID++ {
		_, err := svc.SignUp(context.Background(), Actor{ID: memberID, Role: models.RoleMember}, audition.ID, dto.AuditionSignupRequest{})
		require.NoError(t, err)
	}

	result, err := svc.Get(context.Background(), audition.ID)
	require.NoError(t, err)
	require.Equal(t, 3, result.SignupCount)
}

func TestAuditionServiceCreateRequiresExistingProduction(t *testing.T) {
	svc := newAuditionService(newMemoryAuditionRepo(), newMemoryProductionRepo())

	_, err := svc.Create(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, dto.AuditionCreateRequest{
		ProductionID: 42,
		RoleName:     "Ghost",
	})
	require.ErrorIs(t, err, ErrProductionNotFound)
}

func TestAuditionServiceListSignupsRequiresContentRole(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	svc := newAuditionService(auditions, newMemoryProductionRepo())
	audition := seedAudition(auditions, models.Audition{ProductionID: 1, RoleName: "Cosette", Status: models.AuditionStatusOpen})

	_, err := svc.ListSignups(context.Background(), Actor{ID: 5, Role: models.RoleMember}, audition.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestAuditionServiceAssignCastRoleDefaultsToEnsemble(t *testing.T) {
	auditions := newMemoryAuditionRepo()
	productions := newMemoryProductionRepo()
	production := models.Production{Title: "Spring Gala", IsActive: true}
	require.NoError(t, productions.Create(context.Background(), &production))

	svc := newAuditionService(auditions, productions)

	role, err := svc.AssignCastRole(context.Background(), Actor{ID: 1, Role: models.RoleCreativeTeam}, dto.CastRoleCreateRequest{
		ProductionID: production.ID,
		MemberID:     8,
		RoleName:     "Chorus",
	})
	require.NoError(t, err)
	require.Equal(t, models.CastRoleEnsemble, role.RoleType)
}
