package models

import "time"

// Event categories.
const (
	EventTypeRehearsal   = "rehearsal"
	EventTypePerformance = "performance"
	EventTypeAudition    = "audition"
	EventTypeMeeting     = "meeting"
	EventTypeWorkshop    = "workshop"
	EventTypeSocial      = "social"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Event represents a scheduled rehearsal, performance or other gathering.
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	EventType    string    `gorm:"size:32;not null;default:rehearsal" json:"event_type"`
	ProductionID *uint     `gorm:"index" json:"production_id"`
	Location     string    `gorm:"size:255" json:"location"`
	StartTime    time.Time `gorm:"not null" json:"start_time"`
	EndTime      time.Time `gorm:"not null" json:"end_time"`
	IsMandatory  bool      `gorm:"not null;default:false" json:"is_mandatory"`
	CreatedBy    uint      `gorm:"not null" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsUpcoming reports whether the event starts after the reference time.
func (e Event) IsUpcoming(reference time.Time) bool {
	return e.StartTime.After(reference)
}

// Attendance marks a member's presence at an event. The composite unique
// index gives marking upsert semantics: re-marking overwrites.
type Attendance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_member" json:"event_id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_event_member" json:"member_id"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	Notes     string    `gorm:"type:text" json:"notes"`
	MarkedBy  *uint     `json:"marked_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Member    Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member"`
}

// IsValidEventType reports whether the value names a known event category.
func IsValidEventType(eventType string) bool {
	switch eventType {
	case EventTypeRehearsal, EventTypePerformance, EventTypeAudition,
		EventTypeMeeting, EventTypeWorkshop, EventTypeSocial:
		return true
	}
	return false
}

// IsValidAttendanceStatus reports whether the value names an attendance status.
func IsValidAttendanceStatus(status string) bool {
	switch status {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}
