package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/models"
)

// TaskRepository persists creative board tasks and meeting notes.
type TaskRepository interface {
	ListTasks(ctx context.Context, productionID uint) ([]models.CreativeTask, error)
	GetTask(ctx context.Context, id uint) (models.CreativeTask, error)
	CreateTask(ctx context.Context, task *models.CreativeTask) error
	UpdateTask(ctx context.Context, task *models.CreativeTask) error
	DeleteTask(ctx context.Context, id uint) error

	ListNotes(ctx context.Context, productionID uint) ([]models.MeetingNote, error)
	GetNote(ctx context.Context, id uint) (models.MeetingNote, error)
	CreateNote(ctx context.Context, note *models.MeetingNote) error
	UpdateNote(ctx context.Context, note *models.MeetingNote) error
	DeleteNote(ctx context.Context, id uint) error
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListTasks(ctx context.Context, productionID uint) ([]models.CreativeTask, error) {
	query := r.db.WithContext(ctx).Model(&models.CreativeTask{})
	if productionID != 0 {
		query = query.Where("production_id = ?", productionID)
	}

	var tasks []models.CreativeTask
	if err := query.Order("status ASC, position ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) GetTask(ctx context.Context, id uint) (models.CreativeTask, error) {
	var task models.CreativeTask
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return models.CreativeTask{}, err
	}

	return task, nil
}

func (r *taskRepository) CreateTask(ctx context.Context, task *models.CreativeTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) UpdateTask(ctx context.Context, task *models.CreativeTask) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *taskRepository) DeleteTask(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.CreativeTask{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepository) ListNotes(ctx context.Context, productionID uint) ([]models.MeetingNote, error) {
	query := r.db.WithContext(ctx).Model(&models.MeetingNote{})
	if productionID != 0 {
		query = query.Where("production_id = ?", productionID)
	}

	var notes []models.MeetingNote
	if err := query.Order("meeting_date DESC").Find(&notes).Error; err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *taskRepository) GetNote(ctx context.Context, id uint) (models.MeetingNote, error) {
	var note models.MeetingNote
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return models.MeetingNote{}, err
	}

	return note, nil
}

func (r *taskRepository) CreateNote(ctx context.Context, note *models.MeetingNote) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *taskRepository) UpdateNote(ctx context.Context, note *models.MeetingNote) error {
	return r.db.WithContext(ctx).Save(note).Error
}

func (r *taskRepository) DeleteNote(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MeetingNote{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
