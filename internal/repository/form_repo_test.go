package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestFormRepositoryUpsertResponseKeepsSingleRow(t *testing.T) {
	db := setupTestDB(t, &models.Member{}, &models.Form{}, &models.FormQuestion{}, &models.FormResponse{})
	repo := NewFormRepository(db)

	member := models.Member{Email: "singer@example.com", FullName: "Singer", Role: models.RoleMember, Status: models.StatusActive}
	require.NoError(t, db.Create(&member).Error)

	form := models.Form{Title: "Availability", Status: models.FormStatusActive, Target: models.FormTargetAll, CreatedBy: member.ID}
	require.NoError(t, db.Create(&form).Error)

	first := models.FormResponse{
		FormID:   form.ID,
		MemberID: member.ID,
		Answers:  datatypes.JSONMap{"1": "yes"},
	}
	require.NoError(t, repo.UpsertResponse(context.Background(), &first))

	second := models.FormResponse{
		FormID:   form.ID,
		MemberID: member.ID,
		Answers:  datatypes.JSONMap{"1": "no"},
	}
	require.NoError(t, repo.UpsertResponse(context.Background(), &second))

	var count int64
	require.NoError(t, db.Model(&models.FormResponse{}).Where("form_id = ?", form.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)

	var stored models.FormResponse
	require.NoError(t, db.Where("form_id = ? AND member_id = ?", form.ID, member.ID).First(&stored).Error)
	require.Equal(t, "no", stored.Answers["1"])
}

func TestFormRepositoryListActiveRequired(t *testing.T) {
	db := setupTestDB(t, &models.Form{}, &models.FormQuestion{})
	repo := NewFormRepository(db)

	require.NoError(t, db.Create(&models.Form{Title: "Active required", Status: models.FormStatusActive, Target: models.FormTargetAll, IsRequired: true, CreatedBy: 1}).Error)
	require.NoError(t, db.Create(&models.Form{Title: "Active optional", Status: models.FormStatusActive, Target: models.FormTargetAll, CreatedBy: 1}).Error)
	require.NoError(t, db.Create(&models.Form{Title: "Draft required", Status: models.FormStatusDraft, Target: models.FormTargetAll, IsRequired: true, CreatedBy: 1}).Error)

	forms, err := repo.ListActiveRequired(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 1)
	require.Equal(t, "Active required", forms[0].Title)
}

func TestFormRepositoryGetWithQuestionsOrdersByIndex(t *testing.T) {
	db := setupTestDB(t, &models.Form{}, &models.FormQuestion{})
	repo := NewFormRepository(db)

	form := models.Form{Title: "Ordered", Status: models.FormStatusDraft, Target: models.FormTargetAll, CreatedBy: 1}
	require.NoError(t, db.Create(&form).Error)

	require.NoError(t, db.Create(&models.FormQuestion{FormID: form.ID, QuestionText: "Third", QuestionType: models.QuestionTypeText, OrderIndex: 2}).Error)
	require.NoError(t, db.Create(&models.FormQuestion{FormID: form.ID, QuestionText: "First", QuestionType: models.QuestionTypeText, OrderIndex: 0}).Error)
	require.NoError(t, db.Create(&models.FormQuestion{FormID: form.ID, QuestionText: "Second", QuestionType: models.QuestionTypeText, OrderIndex: 1}).Error)

	loaded, err := repo.GetWithQuestions(context.Background(), form.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 3)
	require.Equal(t, "First", loaded.Questions[0].QuestionText)
	require.Equal(t, "Second", loaded.Questions[1].QuestionText)
	require.Equal(t, "Third", loaded.Questions[2].QuestionText)
}

func TestFormRepositoryDeleteMissing(t *testing.T) {
	db := setupTestDB(t, &models.Form{}, &models.FormQuestion{})
	repo := NewFormRepository(db)

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
