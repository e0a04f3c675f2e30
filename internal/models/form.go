package models

import (
	"time"

	"gorm.io/datatypes"
)

// Form lifecycle statuses.
const (
	FormStatusDraft  = "draft"
	FormStatusActive = "active"
	FormStatusClosed = "closed"
)

// Form targeting modes.
const (
	FormTargetAll           = "all"
	FormTargetMember        = "member"
	FormTargetSectionLeader = "section_leader"
	FormTargetSpecific      = "specific"
)

// Question types supported by the form engine.
const (
	QuestionTypeText        = "text"
	QuestionTypeTextarea    = "textarea"
	QuestionTypeSelect      = "select"
	QuestionTypeRadio       = "radio"
	QuestionTypeMultiselect = "multiselect"
	QuestionTypeCheckbox    = "checkbox"
	QuestionTypeDate        = "date"
	QuestionTypeNumber      = "number"
)

// Form represents a dynamic questionnaire addressed to a subset of the roster.
type Form struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"size:255;not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Status      string                      `gorm:"size:32;not null;default:draft" json:"status"`
	Target      string                      `gorm:"size:32;not null;default:all" json:"target"`
	TargetRoles datatypes.JSONSlice[string] `json:"target_roles"`
	IsRequired  bool                        `gorm:"not null;default:false" json:"is_required"`
	Deadline    *time.Time                  `json:"deadline"`
	CreatedBy   uint                        `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Questions   []FormQuestion              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions,omitempty"`
}

// Targets reports whether the form applies to a member with the given role.
// A specific-targeted form with an empty role list matches nobody; that
// lockout is intentional.
func (f Form) Targets(role string) bool {
	switch f.Target {
	case FormTargetAll:
		return true
	case FormTargetMember:
		return role == RoleMember
	case FormTargetSectionLeader:
		return role == RoleSectionLeader
	case FormTargetSpecific:
		for _, r := range f.TargetRoles {
			if r == role {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// IsOpen reports whether the form currently accepts responses.
func (f Form) IsOpen() bool {
	return f.Status == FormStatusActive
}

// QuestionOption is a single selectable choice on a select/radio/multiselect
// question.
type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormQuestion belongs to exactly one form. OrderIndex defines both display
// and statistics ordering.
type FormQuestion struct {
	ID           uint                                `gorm:"primaryKey" json:"id"`
	FormID       uint                                `gorm:"index;not null" json:"form_id"`
	QuestionText string                              `gorm:"type:text;not null" json:"question_text"`
	QuestionType string                              `gorm:"size:32;not null;default:text" json:"question_type"`
	Options      datatypes.JSONSlice[QuestionOption] `json:"options"`
	IsRequired   bool                                `gorm:"not null;default:false" json:"is_required"`
	OrderIndex   int                                 `gorm:"not null;default:0" json:"order_index"`
	CreatedAt    time.Time                           `json:"created_at"`
	UpdatedAt    time.Time                           `json:"updated_at"`
}

// HasOptions reports whether the question type carries an option list.
func (q FormQuestion) HasOptions() bool {
	switch q.QuestionType {
	case QuestionTypeSelect, QuestionTypeRadio, QuestionTypeMultiselect:
		return true
	}
	return false
}

// IsCountable reports whether per-option aggregation applies to the question.
// Free-text types only get an answered/unanswered tally.
func (q FormQuestion) IsCountable() bool {
	switch q.QuestionType {
	case QuestionTypeSelect, QuestionTypeRadio, QuestionTypeMultiselect, QuestionTypeCheckbox:
		return true
	}
	return false
}

// FormResponse holds one member's answers to a form. The composite unique
// index enforces at most one response per (form, member) pair; resubmission
// overwrites via upsert.
type FormResponse struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	FormID      uint              `gorm:"not null;uniqueIndex:idx_form_member" json:"form_id"`
	MemberID    uint              `gorm:"not null;uniqueIndex:idx_form_member" json:"member_id"`
	Answers     datatypes.JSONMap `json:"answers"`
	SubmittedAt time.Time         `json:"submitted_at"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Member      Member            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member"`
}

// IsValidQuestionType reports whether the value names a supported question type.
func IsValidQuestionType(questionType string) bool {
	switch questionType {
	case QuestionTypeText, QuestionTypeTextarea, QuestionTypeSelect, QuestionTypeRadio,
		QuestionTypeMultiselect, QuestionTypeCheckbox, QuestionTypeDate, QuestionTypeNumber:
		return true
	}
	return false
}

// IsValidFormTarget reports whether the value names a supported targeting mode.
func IsValidFormTarget(target string) bool {
	switch target {
	case FormTargetAll, FormTargetMember, FormTargetSectionLeader, FormTargetSpecific:
		return true
	}
	return false
}

// IsValidFormStatus reports whether the value names a form lifecycle status.
func IsValidFormStatus(status string) bool {
	switch status {
	case FormStatusDraft, FormStatusActive, FormStatusClosed:
		return true
	}
	return false
}
