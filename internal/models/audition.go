package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audition lifecycle statuses.
const (
	AuditionStatusOpen      = "open"
	AuditionStatusClosed    = "closed"
	AuditionStatusInReview  = "in_review"
	AuditionStatusCompleted = "completed"
)

// Cast role types.
const (
	CastRoleLead       = "lead"
	CastRoleUnderstudy = "understudy"
	CastRoleEnsemble   = "ensemble"
	CastRoleSwing      = "swing"
)

// Audition represents an open call for a role in a production.
type Audition struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ProductionID  uint                        `gorm:"index;not null" json:"production_id"`
	RoleName      string                      `gorm:"size:255;not null" json:"role_name"`
	Description   string                      `gorm:"type:text" json:"description"`
	VoiceRequired datatypes.JSONSlice[string] `json:"voice_required"`
	AuditionDate  *time.Time                  `json:"audition_date"`
	Location      string                      `gorm:"size:255" json:"location"`
	Status        string                      `gorm:"size:32;not null;default:open" json:"status"`
	MaxSlots      *int                        `json:"max_slots"`
	CreatedBy     uint                        `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// AcceptsSignups reports whether the audition is open and has a free slot
// given the current signup count.
func (a Audition) AcceptsSignups(currentSignups int) bool {
	if a.Status != AuditionStatusOpen {
		return false
	}
	if a.MaxSlots != nil && currentSignups >= *a.MaxSlots {
		return false
	}
	return true
}

// AuditionSignup records a member's application to an audition. One signup
// per member per audition.
type AuditionSignup struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuditionID uint      `gorm:"not null;uniqueIndex:idx_audition_member" json:"audition_id"`
	MemberID   uint      `gorm:"not null;uniqueIndex:idx_audition_member" json:"member_id"`
	Notes      string    `gorm:"type:text" json:"notes"`
	VideoURL   string    `gorm:"size:512" json:"video_url"`
	CreatedAt  time.Time `json:"created_at"`
	Member     Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member"`
}

// CastRole assigns a member to a named role in a production.
type CastRole struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductionID uint      `gorm:"index;not null" json:"production_id"`
	MemberID     uint      `gorm:"index;not null" json:"member_id"`
	RoleName     string    `gorm:"size:255;not null" json:"role_name"`
	RoleType     string    `gorm:"size:32;not null;default:ensemble" json:"role_type"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Member       Member    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member"`
}

// IsValidAuditionStatus reports whether the value names an audition status.
func IsValidAuditionStatus(status string) bool {
	switch status {
	case AuditionStatusOpen, AuditionStatusClosed, AuditionStatusInReview, AuditionStatusCompleted:
		return true
	}
	return false
}

// IsValidCastRoleType reports whether the value names a cast role type.
func IsValidCastRoleType(roleType string) bool {
	switch roleType {
	case CastRoleLead, CastRoleUnderstudy, CastRoleEnsemble, CastRoleSwing:
		return true
	}
	return false
}
