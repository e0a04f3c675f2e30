package models

import (
	"time"

	"gorm.io/datatypes"
)

// Creative task board columns.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
)

// Creative task categories.
const (
	TaskCategoryCostume      = "costume"
	TaskCategoryChoreography = "choreography"
	TaskCategoryStaging      = "staging"
	TaskCategoryLighting     = "lighting"
	TaskCategorySound        = "sound"
	TaskCategoryProps        = "props"
	TaskCategoryMarketing    = "marketing"
	TaskCategoryGeneral      = "general"
)

// CreativeTask is a kanban card on the creative-team board. Position orders
// cards within a status column.
type CreativeTask struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Category     string     `gorm:"size:32;not null;default:general" json:"category"`
	Status       string     `gorm:"size:32;not null;default:todo" json:"status"`
	Priority     int        `gorm:"not null;default:0" json:"priority"`
	Position     int        `gorm:"not null;default:0" json:"position"`
	ProductionID *uint      `gorm:"index" json:"production_id"`
	AssignedTo   *uint      `gorm:"index" json:"assigned_to"`
	DueDate      *time.Time `json:"due_date"`
	CreatedBy    uint       `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MeetingNote captures minutes from a creative-team meeting.
type MeetingNote struct {
	ID           uint                        `gorm:"primaryKey" json:"id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Content      string                      `gorm:"type:text;not null" json:"content"`
	ProductionID *uint                       `gorm:"index" json:"production_id"`
	MeetingDate  time.Time                   `gorm:"not null" json:"meeting_date"`
	Attendees    datatypes.JSONSlice[string] `json:"attendees"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	CreatedBy    uint                        `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// IsValidTaskStatus reports whether the value names a board column.
func IsValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

// IsValidTaskCategory reports whether the value names a task category.
func IsValidTaskCategory(category string) bool {
	switch category {
	case TaskCategoryCostume, TaskCategoryChoreography, TaskCategoryStaging, TaskCategoryLighting,
		TaskCategorySound, TaskCategoryProps, TaskCategoryMarketing, TaskCategoryGeneral:
		return true
	}
	return false
}
