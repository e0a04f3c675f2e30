package models

import "time"

// Roles assignable to a member profile.
const (
	RoleAdmin         = "admin"
	RoleSectionLeader = "section_leader"
	RoleCreativeTeam  = "creative_team"
	RoleMember        = "member"
)

// Member lifecycle statuses. Members are never hard-deleted; deactivation
// moves them to StatusInactive.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusAlumni   = "alumni"
	StatusPending  = "pending"
)

// VoiceTypes enumerates the voice sections a member can belong to.
var VoiceTypes = []string{
	"soprano", "soprano_1", "soprano_2", "mezzo_soprano", "alto",
	"tenor", "tenor_1", "tenor_2", "baritone", "bass",
}

// Member represents a choir member profile.
type Member struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Email                 string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName              string     `gorm:"size:255;not null" json:"full_name"`
	DisplayName           string     `gorm:"size:255" json:"display_name"`
	AvatarURL             string     `gorm:"size:512" json:"avatar_url"`
	Phone                 string     `gorm:"size:32" json:"phone"`
	Role                  string     `gorm:"size:32;not null;default:member" json:"role"`
	VoiceType             *string    `gorm:"size:32" json:"voice_type"`
	Status                string     `gorm:"size:32;not null;default:pending" json:"status"`
	Bio                   string     `gorm:"type:text" json:"bio"`
	EmergencyContactName  string     `gorm:"size:255" json:"emergency_contact_name"`
	EmergencyContactPhone string     `gorm:"size:32" json:"emergency_contact_phone"`
	JoinedDate            *time.Time `json:"joined_date"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// IsValidRole reports whether the value is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSectionLeader, RoleCreativeTeam, RoleMember:
		return true
	}
	return false
}

// IsValidStatus reports whether the value is one of the known member statuses.
func IsValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusAlumni, StatusPending:
		return true
	}
	return false
}

// IsValidVoiceType reports whether the value names a known voice section.
func IsValidVoiceType(voice string) bool {
	for _, v := range VoiceTypes {
		if v == voice {
			return true
		}
	}
	return false
}
