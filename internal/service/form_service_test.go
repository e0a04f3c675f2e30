package service

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type responseKey struct {
	formID   uint
	memberID uint
}

type memoryFormRepo struct {
	forms     map[uint]models.Form
	questions map[uint]models.FormQuestion
	responses map[responseKey]models.FormResponse
	nextID    uint
}

func newMemoryFormRepo() *memoryFormRepo {
	return &memoryFormRepo{
		forms:     make(map[uint]models.Form),
		questions: make(map[uint]models.FormQuestion),
		responses: make(map[responseKey]models.FormResponse),
		nextID:    1,
	}
}

func (m *memoryFormRepo) List(ctx context.Context) ([]models.Form, error) {
	forms := make([]models.Form, 0, len(m.forms))
	for _, form := range m.forms {
		forms = append(forms, form)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

func (m *memoryFormRepo) ListActiveRequired(ctx context.Context) ([]models.Form, error) {
	forms := make([]models.Form, 0, len(m.forms))
	for _, form := range m.forms {
		if form.Status == models.FormStatusActive && form.IsRequired {
			forms = append(forms, form)
		}
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

func (m *memoryFormRepo) GetByID(ctx context.Context, id uint) (models.Form, error) {
	form, ok := m.forms[id]
	if !ok {
		return models.Form{}, gorm.ErrRecordNotFound
	}
	return form, nil
}

func (m *memoryFormRepo) GetWithQuestions(ctx context.Context, id uint) (models.Form, error) {
	form, ok := m.forms[id]
	if !ok {
		return models.Form{}, gorm.ErrRecordNotFound
	}

	questions := make([]models.FormQuestion, 0)
	for _, question := range m.questions {
		if question.FormID == id {
			questions = append(questions, question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].OrderIndex < questions[j].OrderIndex })
	form.Questions = questions
	return form, nil
}

func (m *memoryFormRepo) Create(ctx context.Context, form *models.Form) error {
	form.ID = m.nextID
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	m.forms[form.ID] = *form
	m.nextID++
	return nil
}

func (m *memoryFormRepo) Update(ctx context.Context, form *models.Form) error {
	if _, ok := m.forms[form.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	form.UpdatedAt = time.Now()
	m.forms[form.ID] = *form
	return nil
}

func (m *memoryFormRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.forms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.forms, id)
	return nil
}

func (m *memoryFormRepo) GetQuestion(ctx context.Context, id uint) (models.FormQuestion, error) {
	question, ok := m.questions[id]
	if !ok {
		return models.FormQuestion{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (m *memoryFormRepo) CreateQuestion(ctx context.Context, question *models.FormQuestion) error {
	question.ID = m.nextID
	m.questions[question.ID] = *question
	m.nextID++
	return nil
}

func (m *memoryFormRepo) UpdateQuestion(ctx context.Context, question *models.FormQuestion) error {
	if _, ok := m.questions[question.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.questions[question.ID] = *question
	return nil
}

func (m *memoryFormRepo) DeleteQuestion(ctx context.Context, id uint) error {
	if _, ok := m.questions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *memoryFormRepo) UpsertResponse(ctx context.Context, response *models.FormResponse) error {
	key := responseKey{formID: response.FormID, memberID: response.MemberID}
	if existing, ok := m.responses[key]; ok {
		response.ID = existing.ID
	} else {
		response.ID = m.nextID
		m.nextID++
	}
	m.responses[key] = *response
	return nil
}

func (m *memoryFormRepo) ListResponses(ctx context.Context, formID uint) ([]models.FormResponse, error) {
	responses := make([]models.FormResponse, 0)
	for _, response := range m.responses {
		if response.FormID == formID {
			responses = append(responses, response)
		}
	}
	sort.Slice(responses, func(i, j int) bool { return responses[i].ID < responses[j].ID })
	return responses, nil
}

func (m *memoryFormRepo) ListMemberResponses(ctx context.Context, memberID uint) ([]models.FormResponse, error) {
	responses := make([]models.FormResponse, 0)
	for _, response := range m.responses {
		if response.MemberID == memberID {
			responses = append(responses, response)
		}
	}
	return responses, nil
}

type memoryMemberRepo struct {
	members map[uint]models.Member
	nextID  uint
}

func newMemoryMemberRepo() *memoryMemberRepo {
	return &memoryMemberRepo{members: make(map[uint]models.Member), nextID: 1}
}

func (m *memoryMemberRepo) List(ctx context.Context, filter repository.MemberFilter) ([]models.Member, int64, error) {
	members := make([]models.Member, 0, len(m.members))
	for _, member := range m.members {
		if filter.Role != "" && member.Role != filter.Role {
			continue
		}
		if filter.Status != "" && member.Status != filter.Status {
			continue
		}
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, int64(len(members)), nil
}

func (m *memoryMemberRepo) ListAll(ctx context.Context) ([]models.Member, error) {
	members, _, err := m.List(ctx, repository.MemberFilter{})
	return members, err
}

func (m *memoryMemberRepo) GetByID(ctx context.Context, id uint) (models.Member, error) {
	member, ok := m.members[id]
	if !ok {
		return models.Member{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (m *memoryMemberRepo) GetByEmail(ctx context.Context, email string) (models.Member, error) {
	for _, member := range m.members {
		if member.Email == email {
			return member, nil
		}
	}
	return models.Member{}, gorm.ErrRecordNotFound
}

func (m *memoryMemberRepo) Create(ctx context.Context, member *models.Member) error {
	member.ID = m.nextID
	m.members[member.ID] = *member
	m.nextID++
	return nil
}

func (m *memoryMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.members[member.ID] = *member
	return nil
}

type recordingFormNotifier struct {
	activated []models.Form
}

func (r *recordingFormNotifier) FormActivated(_ context.Context, form models.Form) {
	r.activated = append(r.activated, form)
}

func newFormService(forms *memoryFormRepo, members *memoryMemberRepo, notifier FormNotifier) FormService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewFormService(forms, members, validate, notifier, testLogger())
}

func seedForm(repo *memoryFormRepo, form models.Form) models.Form {
	if form.ID == 0 {
		form.ID = repo.nextID
		repo.nextID++
	}
	repo.forms[form.ID] = form
	return form
}

func seedQuestion(repo *memoryFormRepo, question models.FormQuestion) models.FormQuestion {
	if question.ID == 0 {
		question.ID = repo.nextID
		repo.nextID++
	}
	repo.questions[question.ID] = question
	return question
}

func TestFormServiceSubmitOverwritesPreviousResponse(t *testing.T) {
	forms := newMemoryFormRepo()
	members := newMemoryMemberRepo()
	svc := newFormService(forms, members, nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll, IsRequired: true})
	question := seedQuestion(forms, models.FormQuestion{FormID: form.ID, QuestionText: "Favorite warmup?", QuestionType: models.QuestionTypeText})

	actor := Actor{ID: 7, Role: models.RoleMember}
	key := answerKey(question.ID)

	first, err := svc.Submit(context.Background(), actor, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{key: "lip trills"},
	})
	require.NoError(t, err)
	require.Equal(t, "lip trills", first.Answers[key])

	second, err := svc.Submit(context.Background(), actor, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{key: "sirens"},
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "resubmission should keep a single response row")
	require.Len(t, forms.responses, 1)
	require.Equal(t, "sirens", forms.responses[responseKey{formID: form.ID, memberID: actor.ID}].Answers[key])
}

func TestFormServiceSubmitRejectsClosedForm(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusClosed, Target: models.FormTargetAll})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{},
	})
	require.ErrorIs(t, err, ErrFormNotOpen)
}

func TestFormServiceSubmitRejectsUntargetedMember(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetSectionLeader})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{},
	})
	require.ErrorIs(t, err, ErrNotTargeted)
}

func TestFormServiceSubmitSpecificTargetWithEmptyRolesMatchesNobody(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetSpecific})

	for _, role := range []string{models.RoleAdmin, models.RoleSectionLeader, models.RoleCreativeTeam, models.RoleMember} {
		_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: role}, form.ID, dto.SubmitResponseRequest{
			Answers: map[string]interface{}{},
		})
		require.ErrorIs(t, err, ErrNotTargeted, "role %s should not be targeted", role)
	}
}

func TestFormServiceSubmitRejectsUnknownQuestionKey(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{"999": "stray"},
	})
	require.ErrorIs(t, err, ErrInvalidAnswers)
}

func TestFormServiceSubmitRequiredQuestionMissingAnswer(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll})
	question := seedQuestion(forms, models.FormQuestion{
		FormID:       form.ID,
		QuestionText: "Which rehearsals can you attend?",
		QuestionType: models.QuestionTypeMultiselect,
		Options:      datatypes.NewJSONSlice([]models.QuestionOption{{Value: "mon", Label: "Monday"}, {Value: "thu", Label: "Thursday"}}),
		IsRequired:   true,
	})
	key := answerKey(question.ID)

	cases := map[string]map[string]interface{}{
		"absent":     {},
		"nil":        {key: nil},
		"empty list": {key: []interface{}{}},
	}
	for name, answers := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{Answers: answers})
			require.ErrorIs(t, err, ErrInvalidAnswers)
		})
	}
}

func TestFormServiceSubmitEmptyStringIsMissing(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll})
	question := seedQuestion(forms, models.FormQuestion{
		FormID:       form.ID,
		QuestionText: "Dietary restrictions",
		QuestionType: models.QuestionTypeText,
		IsRequired:   true,
	})

	_, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{answerKey(question.ID): ""},
	})
	require.ErrorIs(t, err, ErrInvalidAnswers)
}

func TestFormServiceSubmitFalseCheckboxCountsAsAnswer(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll})
	question := seedQuestion(forms, models.FormQuestion{
		FormID:       form.ID,
		QuestionText: "Will you attend the retreat?",
		QuestionType: models.QuestionTypeCheckbox,
		IsRequired:   true,
	})

	result, err := svc.Submit(context.Background(), Actor{ID: 1, Role: models.RoleMember}, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{answerKey(question.ID): false},
	})
	require.NoError(t, err)
	require.Equal(t, false, result.Answers[answerKey(question.ID)])
}

func TestFormServiceSubmitShapeValidation(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)

	form := seedForm(forms, models.Form{Status: models.FormStatusActive, Target: models.FormTargetAll})
	number := seedQuestion(forms, models.FormQuestion{FormID: form.ID, QuestionText: "Years singing", QuestionType: models.QuestionTypeNumber})
	choice := seedQuestion(forms, models.FormQuestion{
		FormID:       form.ID,
		QuestionText: "Preferred section",
		QuestionType: models.QuestionTypeSelect,
		Options:      datatypes.NewJSONSlice([]models.QuestionOption{{Value: "alto", Label: "Alto"}, {Value: "tenor", Label: "Tenor"}}),
	})

	actor := Actor{ID: 1, Role: models.RoleMember}

	_, err := svc.Submit(context.Background(), actor, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{answerKey(number.ID): "five"},
	})
	require.ErrorIs(t, err, ErrInvalidAnswers)

	_, err = svc.Submit(context.Background(), actor, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{answerKey(choice.ID): "soprano"},
	})
	require.ErrorIs(t, err, ErrInvalidAnswers, "unlisted option values should be rejected")

	_, err = svc.Submit(context.Background(), actor, form.ID, dto.SubmitResponseRequest{
		Answers: map[string]interface{}{
			answerKey(number.ID): float64(5),
			answerKey(choice.ID): "alto",
		},
	})
	require.NoError(t, err)
}

func TestFormServicePendingForms(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)
	actor := Actor{ID: 4, Role: models.RoleMember}

	open := seedForm(forms, models.Form{Title: "Retreat RSVP", Status: models.FormStatusActive, Target: models.FormTargetAll, IsRequired: true})
	answered := seedForm(forms, models.Form{Title: "Uniform sizes", Status: models.FormStatusActive, Target: models.FormTargetAll, IsRequired: true})
	seedForm(forms, models.Form{Title: "Leads only", Status: models.FormStatusActive, Target: models.FormTargetSectionLeader, IsRequired: true})
	seedForm(forms, models.Form{Title: "Draft", Status: models.FormStatusDraft, Target: models.FormTargetAll, IsRequired: true})
	seedForm(forms, models.Form{Title: "Optional", Status: models.FormStatusActive, Target: models.FormTargetAll, IsRequired: false})

	require.NoError(t, forms.UpsertResponse(context.Background(), &models.FormResponse{
		FormID:   answered.ID,
		MemberID: actor.ID,
		Answers:  datatypes.JSONMap{},
	}))

	pending, err := svc.PendingForms(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, open.ID, pending[0].ID)
}

func TestFormServiceCreateNotifiesOnActiveRequired(t *testing.T) {
	forms := newMemoryFormRepo()
	notifier := &recordingFormNotifier{}
	svc := newFormService(forms, newMemoryMemberRepo(), notifier)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	_, err := svc.Create(context.Background(), actor, dto.FormCreateRequest{
		Title:      "Concert availability",
		Status:     models.FormStatusActive,
		IsRequired: true,
	})
	require.NoError(t, err)
	require.Len(t, notifier.activated, 1)

	_, err = svc.Create(context.Background(), actor, dto.FormCreateRequest{
		Title:  "Draft survey",
		Status: models.FormStatusDraft,
	})
	require.NoError(t, err)
	require.Len(t, notifier.activated, 1, "draft forms should not notify")
}

func TestFormServiceUpdateNotifiesOnActivationOnly(t *testing.T) {
	forms := newMemoryFormRepo()
	notifier := &recordingFormNotifier{}
	svc := newFormService(forms, newMemoryMemberRepo(), notifier)
	actor := Actor{ID: 1, Role: models.RoleAdmin}

	form := seedForm(forms, models.Form{Title: "Tour form", Status: models.FormStatusDraft, Target: models.FormTargetAll, IsRequired: true})

	active := models.FormStatusActive
	_, err := svc.Update(context.Background(), actor, form.ID, dto.FormUpdateRequest{Status: &active})
	require.NoError(t, err)
	require.Len(t, notifier.activated, 1)

	title := "Tour form v2"
	_, err = svc.Update(context.Background(), actor, form.ID, dto.FormUpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Len(t, notifier.activated, 1, "editing an already-active form should not re-notify")
}

func TestFormServiceAddQuestionRequiresOptions(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)
	actor := Actor{ID: 1, Role: models.RoleCreativeTeam}

	form := seedForm(forms, models.Form{Title: "Survey", Status: models.FormStatusDraft, Target: models.FormTargetAll})

	_, err := svc.AddQuestion(context.Background(), actor, form.ID, dto.QuestionCreateRequest{
		QuestionText: "Pick one",
		QuestionType: models.QuestionTypeRadio,
	})
	require.ErrorIs(t, err, ErrOptionsRequired)

	question, err := svc.AddQuestion(context.Background(), actor, form.ID, dto.QuestionCreateRequest{
		QuestionText: "Pick one",
		QuestionType: models.QuestionTypeRadio,
		Options:      []dto.QuestionOptionPayload{{Value: "yes", Label: "Yes"}},
	})
	require.NoError(t, err)
	require.Len(t, question.Options, 1)
}

func TestFormServiceMutationsRequireContentRole(t *testing.T) {
	forms := newMemoryFormRepo()
	svc := newFormService(forms, newMemoryMemberRepo(), nil)
	member := Actor{ID: 2, Role: models.RoleMember}

	_, err := svc.Create(context.Background(), member, dto.FormCreateRequest{Title: "Nope"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = svc.Delete(context.Background(), member, 1)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListResponses(context.Background(), member, 1)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestFormServiceDeleteMissingForm(t *testing.T) {
	svc := newFormService(newMemoryFormRepo(), newMemoryMemberRepo(), nil)

	err := svc.Delete(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 42)
	require.ErrorIs(t, err, ErrFormNotFound)
}
