package dto

import (
	"time"

	"github.com/chorushq/chorus-api/internal/models"
)

// QuestionOptionPayload mirrors a selectable option on an option-carrying
// question.
type QuestionOptionPayload struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// FormCreateRequest describes the payload for creating a form.
type FormCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=3"`
	Description string   `json:"description"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft active closed"`
	Target      string   `json:"target" validate:"omitempty,oneof=all member section_leader specific"`
	TargetRoles []string `json:"target_roles" validate:"dive,oneof=admin section_leader creative_team member"`
	IsRequired  bool     `json:"is_required"`
	Deadline    *string  `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// FormUpdateRequest carries a partial form update.
type FormUpdateRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=3"`
	Description *string   `json:"description"`
	Status      *string   `json:"status" validate:"omitempty,oneof=draft active closed"`
	Target      *string   `json:"target" validate:"omitempty,oneof=all member section_leader specific"`
	TargetRoles *[]string `json:"target_roles" validate:"omitempty,dive,oneof=admin section_leader creative_team member"`
	IsRequired  *bool     `json:"is_required"`
	Deadline    *string   `json:"deadline" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// QuestionCreateRequest describes the payload for adding a question to a form.
type QuestionCreateRequest struct {
	QuestionText string                  `json:"question_text" validate:"required,min=2"`
	QuestionType string                  `json:"question_type" validate:"omitempty,oneof=text textarea select radio multiselect checkbox date number"`
	Options      []QuestionOptionPayload `json:"options" validate:"dive"`
	IsRequired   bool                    `json:"is_required"`
	OrderIndex   int                     `json:"order_index"`
}

// QuestionUpdateRequest carries a partial question update.
type QuestionUpdateRequest struct {
	QuestionText *string                  `json:"question_text" validate:"omitempty,min=2"`
	QuestionType *string                  `json:"question_type" validate:"omitempty,oneof=text textarea select radio multiselect checkbox date number"`
	Options      *[]QuestionOptionPayload `json:"options" validate:"omitempty,dive"`
	IsRequired   *bool                    `json:"is_required"`
	OrderIndex   *int                     `json:"order_index"`
}

// SubmitResponseRequest carries a member's answers keyed by question id.
// Value shapes depend on the question type: string, string list, boolean or
// number.
type SubmitResponseRequest struct {
	Answers map[string]interface{} `json:"answers" validate:"required"`
}

// QuestionResponse is the serialized representation of a form question.
type QuestionResponse struct {
	ID           uint                    `json:"id"`
	FormID       uint                    `json:"form_id"`
	QuestionText string                  `json:"question_text"`
	QuestionType string                  `json:"question_type"`
	Options      []models.QuestionOption `json:"options"`
	IsRequired   bool                    `json:"is_required"`
	OrderIndex   int                     `json:"order_index"`
}

// FormResponse is the serialized representation of a form.
type FormResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Target      string     `json:"target"`
	TargetRoles []string   `json:"target_roles"`
	IsRequired  bool       `json:"is_required"`
	Deadline    *time.Time `json:"deadline"`
	CreatedBy   uint       `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FormWithQuestionsResponse is a form together with its ordered questions.
type FormWithQuestionsResponse struct {
	FormResponse
	Questions []QuestionResponse `json:"questions"`
}

// RespondentSummary identifies a member inside statistics and response lists.
type RespondentSummary struct {
	ID        uint    `json:"id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	VoiceType *string `json:"voice_type"`
}

// SubmissionResponse is the serialized representation of one member's
// submitted answers.
type SubmissionResponse struct {
	ID          uint                   `json:"id"`
	FormID      uint                   `json:"form_id"`
	MemberID    uint                   `json:"member_id"`
	Answers     map[string]interface{} `json:"answers"`
	SubmittedAt time.Time              `json:"submitted_at"`
	Member      RespondentSummary      `json:"member"`
}

// OptionCount is the aggregated tally for one answer option.
type OptionCount struct {
	Value      string  `json:"value"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// QuestionStats aggregates answers for a single question. Free-text types
// carry only the answered tally.
type QuestionStats struct {
	QuestionID    uint          `json:"question_id"`
	QuestionText  string        `json:"question_text"`
	QuestionType  string        `json:"question_type"`
	TotalAnswered int           `json:"total_answered"`
	Options       []OptionCount `json:"options,omitempty"`
}

// FormStatsResponse is the completion-statistics view of a form.
type FormStatsResponse struct {
	FormID         uint                `json:"form_id"`
	TotalTarget    int                 `json:"total_target"`
	TotalResponses int                 `json:"total_responses"`
	CompletionRate float64             `json:"completion_rate"`
	PendingMembers []RespondentSummary `json:"pending_members"`
	Respondents    []RespondentSummary `json:"respondents"`
	Questions      []QuestionStats     `json:"questions"`
}

// NewFormResponse converts a model into a DTO.
func NewFormResponse(model models.Form) FormResponse {
	return FormResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Status:      model.Status,
		Target:      model.Target,
		TargetRoles: model.TargetRoles,
		IsRequired:  model.IsRequired,
		Deadline:    model.Deadline,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewFormResponseSlice converts a slice of models into DTOs.
func NewFormResponseSlice(forms []models.Form) []FormResponse {
	responses := make([]FormResponse, 0, len(forms))
	for _, form := range forms {
		responses = append(responses, NewFormResponse(form))
	}

	return responses
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.FormQuestion) QuestionResponse {
	return QuestionResponse{
		ID:           model.ID,
		FormID:       model.FormID,
		QuestionText: model.QuestionText,
		QuestionType: model.QuestionType,
		Options:      model.Options,
		IsRequired:   model.IsRequired,
		OrderIndex:   model.OrderIndex,
	}
}

// NewFormWithQuestionsResponse converts a form and its preloaded questions.
func NewFormWithQuestionsResponse(model models.Form) FormWithQuestionsResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuestionResponse(question))
	}

	return FormWithQuestionsResponse{
		FormResponse: NewFormResponse(model),
		Questions:    questions,
	}
}

// NewRespondentSummary converts a member into its summary form.
func NewRespondentSummary(model models.Member) RespondentSummary {
	return RespondentSummary{
		ID:        model.ID,
		FullName:  model.FullName,
		Email:     model.Email,
		Role:      model.Role,
		VoiceType: model.VoiceType,
	}
}

// NewSubmissionResponse converts a stored response with its member.
func NewSubmissionResponse(model models.FormResponse) SubmissionResponse {
	return SubmissionResponse{
		ID:          model.ID,
		FormID:      model.FormID,
		MemberID:    model.MemberID,
		Answers:     model.Answers,
		SubmittedAt: model.SubmittedAt,
		Member:      NewRespondentSummary(model.Member),
	}
}
