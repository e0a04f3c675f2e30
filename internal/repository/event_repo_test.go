package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chorushq/chorus-api/internal/models"
)

func seedEvent(t *testing.T, repo EventRepository, title string, start time.Time) models.Event {
	t.Helper()
	event := models.Event{
		Title:     title,
		EventType: models.EventTypeRehearsal,
		StartTime: start,
		EndTime:   start.Add(2 * time.Hour),
		CreatedBy: 1,
	}
	require.NoError(t, repo.Create(context.Background(), &event))
	return event
}

func TestEventRepositoryUpsertAttendanceOverwrites(t *testing.T) {
	db := setupTestDB(t, &models.Member{}, &models.Event{}, &models.Attendance{})
	repo := NewEventRepository(db)

	member := models.Member{Email: "alto@example.com", FullName: "Alto One", Role: models.RoleMember, Status: models.StatusActive}
	require.NoError(t, db.Create(&member).Error)

	event := seedEvent(t, repo, "Tuesday rehearsal", time.Now().Add(24*time.Hour))

	first := models.Attendance{EventID: event.ID, MemberID: member.ID, Status: models.AttendancePresent}
	require.NoError(t, repo.UpsertAttendance(context.Background(), &first))

	second := models.Attendance{EventID: event.ID, MemberID: member.ID, Status: models.AttendanceLate, Notes: "train delay"}
	require.NoError(t, repo.UpsertAttendance(context.Background(), &second))

	records, err := repo.ListAttendance(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendanceLate, records[0].Status)
	require.Equal(t, "train delay", records[0].Notes)
	require.Equal(t, "Alto One", records[0].Member.FullName)
}

func TestEventRepositoryListUpcomingSkipsPast(t *testing.T) {
	db := setupTestDB(t, &models.Event{}, &models.Attendance{})
	repo := NewEventRepository(db)

	now := time.Now()
	seedEvent(t, repo, "Last week", now.Add(-7*24*time.Hour))
	later := seedEvent(t, repo, "Dress rehearsal", now.Add(48*time.Hour))
	sooner := seedEvent(t, repo, "Sectional", now.Add(24*time.Hour))

	events, err := repo.ListUpcoming(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, sooner.ID, events[0].ID)
	require.Equal(t, later.ID, events[1].ID)
}

func TestEventRepositoryListMemberAttendance(t *testing.T) {
	db := setupTestDB(t, &models.Member{}, &models.Event{}, &models.Attendance{})
	repo := NewEventRepository(db)

	member := models.Member{Email: "tenor@example.com", FullName: "Tenor One", Role: models.RoleMember, Status: models.StatusActive}
	require.NoError(t, db.Create(&member).Error)
	other := models.Member{Email: "bass@example.com", FullName: "Bass One", Role: models.RoleMember, Status: models.StatusActive}
	require.NoError(t, db.Create(&other).Error)

	event := seedEvent(t, repo, "Run-through", time.Now().Add(24*time.Hour))
	require.NoError(t, repo.UpsertAttendance(context.Background(), &models.Attendance{EventID: event.ID, MemberID: member.ID, Status: models.AttendancePresent}))
	require.NoError(t, repo.UpsertAttendance(context.Background(), &models.Attendance{EventID: event.ID, MemberID: other.ID, Status: models.AttendanceAbsent}))

	records, err := repo.ListMemberAttendance(context.Background(), member.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, models.AttendancePresent, records[0].Status)
}
