package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// MemberCreateRequest describes the payload for adding a member to the roster.
type MemberCreateRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	FullName   string  `json:"full_name" validate:"required,min=2"`
	Phone      string  `json:"phone" validate:"omitempty,min=7"`
	Role       string  `json:"role" validate:"omitempty,oneof=admin section_leader creative_team member"`
	VoiceType  *string `json:"voice_type"`
	JoinedDate *string `json:"joined_date" validate:"omitempty,datetime=2006-01-02"`
}

// MemberUpdateRequest carries a partial member update. Role, status and voice
// type are privileged fields gated by the permission rules.
type MemberUpdateRequest struct {
	FullName              *string `json:"full_name" validate:"omitempty,min=2"`
	DisplayName           *string `json:"display_name"`
	AvatarURL             *string `json:"avatar_url" validate:"omitempty,url"`
	Phone                 *string `json:"phone"`
	Bio                   *string `json:"bio"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	Role                  *string `json:"role" validate:"omitempty,oneof=admin section_leader creative_team member"`
	Status                *string `json:"status" validate:"omitempty,oneof=active inactive alumni pending"`
	VoiceType             *string `json:"voice_type"`
}

// MemberResponse is the serialized representation of a member profile.
type MemberResponse struct {
	ID                    uint       `json:"id"`
	Email                 string     `json:"email"`
	FullName              string     `json:"full_name"`
	DisplayName           string     `json:"display_name"`
	AvatarURL             string     `json:"avatar_url"`
	Phone                 string     `json:"phone"`
	Role                  string     `json:"role"`
	VoiceType             *string    `json:"voice_type"`
	Status                string     `json:"status"`
	Bio                   string     `json:"bio"`
	EmergencyContactName  string     `json:"emergency_contact_name"`
	EmergencyContactPhone string     `json:"emergency_contact_phone"`
	JoinedDate            *time.Time `json:"joined_date"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// MemberListResponse wraps a roster page.
type MemberListResponse struct {
	Items      []MemberResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
	CacheHit   bool             `json:"-"`
}

// NewMemberResponse converts a model into a DTO.
func NewMemberResponse(model models.Member) MemberResponse {
	return MemberResponse{
		ID:                    model.ID,
		Email:                 model.Email,
		FullName:              model.FullName,
		DisplayName:           model.DisplayName,
		AvatarURL:             model.AvatarURL,
		Phone:                 model.Phone,
		Role:                  model.Role,
		VoiceType:             model.VoiceType,
		Status:                model.Status,
		Bio:                   model.Bio,
		EmergencyContactName:  model.EmergencyContactName,
		EmergencyContactPhone: model.EmergencyContactPhone,
		JoinedDate:            model.JoinedDate,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

// NewMemberResponseSlice converts a slice of models into DTOs.
func NewMemberResponseSlice(members []models.Member) []MemberResponse {
	responses := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, NewMemberResponse(member))
	}

	return responses
}
