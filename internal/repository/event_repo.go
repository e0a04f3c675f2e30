package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chorushq/chorus-api/internal/models"
)

// EventFilter narrows event list queries.
type EventFilter struct {
	EventType    string
	ProductionID uint
	From         *time.Time
	To           *time.Time
}

// EventRepository persists events and attendance records.
type EventRepository interface {
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
	ListUpcoming(ctx context.Context, reference time.Time) ([]models.Event, error)
	GetByID(ctx context.Context, id uint) (models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error

	UpsertAttendance(ctx context.Context, record *models.Attendance) error
	ListAttendance(ctx context.Context, eventID uint) ([]models.Attendance, error)
	ListMemberAttendance(ctx context.Context, memberID uint) ([]models.Attendance, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository instantiates a GORM-backed event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})

	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if filter.ProductionID != 0 {
		query = query.Where("production_id = ?", filter.ProductionID)
	}
	if filter.From != nil {
		query = query.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_time <= ?", *filter.To)
	}

	var events []models.Event
	if err := query.Order("start_time ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, reference time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("start_time > ?", reference).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return models.Event{}, err
	}

	return event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertAttendance inserts or replaces the attendance mark keyed by the
// (event_id, member_id) uniqueness pair.
func (r *eventRepository) UpsertAttendance(ctx context.Context, record *models.Attendance) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "member_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "marked_by", "updated_at"}),
	}).Create(record).Error
}

func (r *eventRepository) ListAttendance(ctx context.Context, eventID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Preload("Member").
		Where("event_id = ?", eventID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *eventRepository) ListMemberAttendance(ctx context.Context, memberID uint) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
