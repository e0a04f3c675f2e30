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
	"github.com/chorushq/chorus-api/internal/repository"
)

type attendanceKey struct {
	eventID  uint
	memberID uint
}

type memoryEventRepo struct {
	events     map[uint]models.Event
	attendance map[attendanceKey]models.Attendance
	nextID     uint
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{
		events:     make(map[uint]models.Event),
		attendance: make(map[attendanceKey]models.Attendance),
		nextID:     1,
	}
}

func (m *memoryEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]models.Event, error) {
	events := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		if filter.EventType != "" && event.EventType != filter.EventType {
			continue
		}
		if filter.From != nil && event.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && event.StartTime.After(*filter.To) {
			continue
		}
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (m *memoryEventRepo) ListUpcoming(ctx context.Context, reference time.Time) ([]models.Event, error) {
	events := make([]models.Event, 0)
	for _, event := range m.events {
		if event.StartTime.After(reference) {
			events = append(events, event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id uint) (models.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) Create(ctx context.Context, event *models.Event) error {
	event.ID = m.nextID
	m.events[event.ID] = *event
	m.nextID++
	return nil
}

func (m *memoryEventRepo) Update(ctx context.Context, event *models.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memoryEventRepo) UpsertAttendance(ctx context.Context, record *models.Attendance) error {
	key := attendanceKey{eventID: record.EventID, memberID: record.MemberID}
	if existing, ok := m.attendance[key]; ok {
		record.ID = existing.ID
	} else {
		record.ID = m.nextID
		m.nextID++
	}
	m.attendance[key] = *record
	return nil
}

func (m *memoryEventRepo) ListAttendance(ctx context.Context, eventID uint) ([]models.Attendance, error) {
	records := make([]models.Attendance, 0)
	for key, record := range m.attendance {
		if key.eventID == eventID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (m *memoryEventRepo) ListMemberAttendance(ctx context.Context, memberID uint) ([]models.Attendance, error) {
	records := make([]models.Attendance, 0)
	for key, record := range m.attendance {
		if key.memberID == memberID {
			records = append(records, record)
		}
	}
	return records, nil
}

func newEventService(repo *memoryEventRepo) EventService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewEventService(repo, validate, testLogger())
}

func TestEventServiceCreateValidatesWindow(t *testing.T) {
	svc := newEventService(newMemoryEventRepo())
	actor := Actor{ID: 1, Role: models.RoleAdmin}
	start := time.Now().Add(24 * time.Hour)

	_, err := svc.Create(context.Background(), actor, dto.EventCreateRequest{
		Title:     "Dress rehearsal",
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(-time.Hour).Format(time.RFC3339),
	})
	require.ErrorIs(t, err, ErrInvalidWindow)

	created, err := svc.Create(context.Background(), actor, dto.EventCreateRequest{
		Title:     "Dress rehearsal",
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(3 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, models.EventTypeRehearsal, created.EventType, "event type defaults to rehearsal")
}

func TestEventServiceCreateRequiresContentRole(t *testing.T) {
	svc := newEventService(newMemoryEventRepo())
	start := time.Now().Add(time.Hour)

	_, err := svc.Create(context.Background(), Actor{ID: 2, Role: models.RoleMember}, dto.EventCreateRequest{
		Title:     "Sneaky event",
		StartTime: start.Format(time.RFC3339),
		EndTime:   start.Add(time.Hour).Format(time.RFC3339),
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestEventServiceMarkAttendanceOverwrites(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newEventService(repo)
	actor := Actor{ID: 1, Role: models.RoleSectionLeader}

	repo.events[1] = models.Event{ID: 1, Title: "Sectional", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)}

	first, err := svc.MarkAttendance(context.Background(), actor, 1, dto.MarkAttendanceRequest{MemberID: 9, Status: models.AttendanceAbsent})
	require.NoError(t, err)

	second, err := svc.MarkAttendance(context.Background(), actor, 1, dto.MarkAttendanceRequest{MemberID: 9, Status: models.AttendanceLate, Notes: "traffic"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID, "re-marking should overwrite, not duplicate")
	require.Len(t, repo.attendance, 1)
	require.Equal(t, models.AttendanceLate, repo.attendance[attendanceKey{eventID: 1, memberID: 9}].Status)
}

func TestEventServiceMarkAttendanceMissingEvent(t *testing.T) {
	svc := newEventService(newMemoryEventRepo())

	_, err := svc.MarkAttendance(context.Background(), Actor{ID: 1, Role: models.RoleAdmin}, 404, dto.MarkAttendanceRequest{MemberID: 1, Status: models.AttendancePresent})
	require.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventServiceMemberStatsAdherence(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newEventService(repo)

	marks := []string{
		models.AttendancePresent,
		models.AttendancePresent,
		models.AttendanceLate,
		models.AttendanceAbsent,
		models.AttendanceExcused,
	}
	for i, status := range marks {
		repo.attendance[attendanceKey{eventID: uint(i + 1), memberID: 7}] = models.Attendance{
			ID:       uint(i + 1),
			EventID:  uint(i + 1),
			MemberID: 7,
			Status:   status,
		}
	}

	stats, err := svc.MemberStats(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 5, stats.TotalEvents)
	require.Equal(t, 2, stats.PresentCount)
	require.Equal(t, 1, stats.LateCount)
	require.Equal(t, 1, stats.AbsentCount)
	require.Equal(t, 1, stats.ExcusedCount)
	require.InDelta(t, 60.0, stats.AdherenceScore, 0.001, "present and late both count toward adherence")
}

func TestEventServiceMemberStatsEmptyHistory(t *testing.T) {
	svc := newEventService(newMemoryEventRepo())

	stats, err := svc.MemberStats(context.Background(), 11)
	require.NoError(t, err)
	require.Zero(t, stats.TotalEvents)
	require.Zero(t, stats.AdherenceScore)
}

func TestEventServiceListUpcomingFiltersPast(t *testing.T) {
	repo := newMemoryEventRepo()
	svc := newEventService(repo)
	now := time.Now()

	repo.events[1] = models.Event{ID: 1, Title: "Past concert", StartTime: now.Add(-48 * time.Hour), EndTime: now.Add(-46 * time.Hour)}
	repo.events[2] = models.Event{ID: 2, Title: "Next rehearsal", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(4 * time.Hour)}

	upcoming, err := svc.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	require.Equal(t, "Next rehearsal", upcoming[0].Title)
}
