package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// AuditionCreateRequest describes the payload for opening an audition.
type AuditionCreateRequest struct {
	ProductionID  uint     `json:"production_id" validate:"required"`
	RoleName      string   `json:"role_name" validate:"required,min=2"`
	Description   string   `json:"description"`
	VoiceRequired []string `json:"voice_required"`
	AuditionDate  *string  `json:"audition_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location      string   `json:"location"`
	MaxSlots      *int     `json:"max_slots" validate:"omitempty,min=1"`
}

// AuditionUpdateRequest carries a partial audition update.
type AuditionUpdateRequest struct {
	RoleName      *string   `json:"role_name" validate:"omitempty,min=2"`
	Description   *string   `json:"description"`
	VoiceRequired *[]string `json:"voice_required"`
	AuditionDate  *string   `json:"audition_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Location      *string   `json:"location"`
	Status        *string   `json:"status" validate:"omitempty,oneof=open closed in_review completed"`
	MaxSlots      *int      `json:"max_slots" validate:"omitempty,min=1"`
}

// AuditionSignupRequest describes a member's application to an audition.
type AuditionSignupRequest struct {
	Notes    string `json:"notes"`
	VideoURL string `json:"video_url" validate:"omitempty,url"`
}

// CastRoleCreateRequest assigns a member to a production role.
type CastRoleCreateRequest struct {
	ProductionID uint   `json:"production_id" validate:"required"`
	MemberID     uint   `json:"member_id" validate:"required"`
	RoleName     string `json:"role_name" validate:"required,min=2"`
	RoleType     string `json:"role_type" validate:"omitempty,oneof=lead understudy ensemble swing"`
	Notes        string `json:"notes"`
}

// AuditionResponse is the serialized representation of an audition.
type AuditionResponse struct {
	ID            uint       `json:"id"`
	ProductionID  uint       `json:"production_id"`
	RoleName      string     `json:"role_name"`
	Description   string     `json:"description"`
	VoiceRequired []string   `json:"voice_required"`
	AuditionDate  *time.Time `json:"audition_date"`
	Location      string     `json:"location"`
	Status        string     `json:"status"`
	MaxSlots      *int       `json:"max_slots"`
	SignupCount   int        `json:"signup_count"`
	CreatedBy     uint       `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AuditionSignupResponse is the serialized representation of a signup.
type AuditionSignupResponse struct {
	ID         uint              `json:"id"`
	AuditionID uint              `json:"audition_id"`
	MemberID   uint              `json:"member_id"`
	Notes      string            `json:"notes"`
	VideoURL   string            `json:"video_url"`
	CreatedAt  time.Time         `json:"created_at"`
	Member     RespondentSummary `json:"member"`
}

// CastRoleResponse is the serialized representation of a cast assignment.
type CastRoleResponse struct {
	ID           uint              `json:"id"`
	ProductionID uint              `json:"production_id"`
	MemberID     uint              `json:"member_id"`
	RoleName     string            `json:"role_name"`
	RoleType     string            `json:"role_type"`
	Notes        string            `json:"notes"`
	Member       RespondentSummary `json:"member"`
}

// NewAuditionResponse converts a model into a DTO.
func NewAuditionResponse(model models.Audition, signupCount int) AuditionResponse {
	return AuditionResponse{
		ID:            model.ID,
		ProductionID:  model.ProductionID,
		RoleName:      model.RoleName,
		Description:   model.Description,
		VoiceRequired: model.VoiceRequired,
		AuditionDate:  model.AuditionDate,
		Location:      model.Location,
		Status:        model.Status,
		MaxSlots:      model.MaxSlots,
		SignupCount:   signupCount,
		CreatedBy:     model.CreatedBy,
		CreatedAt:     model.CreatedAt,
	}
}

// NewAuditionSignupResponse converts a model into a DTO.
func NewAuditionSignupResponse(model models.AuditionSignup) AuditionSignupResponse {
	return AuditionSignupResponse{
		ID:         model.ID,
		AuditionID: model.AuditionID,
		MemberID:   model.MemberID,
		Notes:      model.Notes,
		VideoURL:   model.VideoURL,
		CreatedAt:  model.CreatedAt,
		Member:     NewRespondentSummary(model.Member),
	}
}

// NewCastRoleResponse converts a model into a DTO.
func NewCastRoleResponse(model models.CastRole) CastRoleResponse {
	return CastRoleResponse{
		ID:           model.ID,
		ProductionID: model.ProductionID,
		MemberID:     model.MemberID,
		RoleName:     model.RoleName,
		RoleType:     model.RoleType,
		Notes:        model.Notes,
		Member:       NewRespondentSummary(model.Member),
	}
}
