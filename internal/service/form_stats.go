package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/chorushq/chorus-api/internal/dto"
	"github.com/chorushq/chorus-api/internal/models"
	"github.com/chorushq/chorus-api/internal/observability"
	"github.com/chorushq/chorus-api/internal/permissions"
)

// answerKey is the map key a question's answer is stored under.
func answerKey(questionID uint) string {
	return strconv.FormatUint(uint64(questionID), 10)
}

// isMissingAnswer reports whether a value counts as "no answer": absent
// values are handled by the caller, here nil, the empty string and empty
// lists qualify. A false checkbox is an answer.
func isMissingAnswer(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

// asStringList normalizes a multiselect answer to a string slice.
func asStringList(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			values = append(values, s)
		}
		return values, true
	default:
		return nil, false
	}
}

func optionValues(question models.FormQuestion) map[string]struct{} {
	values := make(map[string]struct{}, len(question.Options))
	for _, option := range question.Options {
		values[option.Value] = struct{}{}
	}
	return values
}

// validateAnswers checks submitted answers against the form's questions:
// every key must refer to a question on the form, required questions must
// carry a non-missing answer, and each present answer must match the shape
// of its question type.
func validateAnswers(questions []models.FormQuestion, answers map[string]interface{}) error {
	byKey := make(map[string]models.FormQuestion, len(questions))
	for _, question := range questions {
		byKey[answerKey(question.ID)] = question
	}

	for key := range answers {
		if _, ok := byKey[key]; !ok {
			return fmt.Errorf("%w: unknown question %q", ErrInvalidAnswers, key)
		}
	}

	for _, question := range questions {
		value, present := answers[answerKey(question.ID)]
		if !present || isMissingAnswer(value) {
			if question.IsRequired {
				return fmt.Errorf("%w: question %d requires an answer", ErrInvalidAnswers, question.ID)
			}
			continue
		}

		if err := validateAnswerShape(question, value); err != nil {
			return err
		}
	}

	return nil
}

func validateAnswerShape(question models.FormQuestion, value interface{}) error {
	switch question.QuestionType {
	case models.QuestionTypeText, models.QuestionTypeTextarea, models.QuestionTypeDate:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: question %d expects a string", ErrInvalidAnswers, question.ID)
		}

	case models.QuestionTypeNumber:
		switch value.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("%w: question %d expects a number", ErrInvalidAnswers, question.ID)
		}

	case models.QuestionTypeCheckbox:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: question %d expects a boolean", ErrInvalidAnswers, question.ID)
		}

	case models.QuestionTypeSelect, models.QuestionTypeRadio:
		selected, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: question %d expects an option value", ErrInvalidAnswers, question.ID)
		}
		if _, known := optionValues(question)[selected]; !known {
			return fmt.Errorf("%w: question %d has no option %q", ErrInvalidAnswers, question.ID, selected)
		}

	case models.QuestionTypeMultiselect:
		selected, ok := asStringList(value)
		if !ok {
			return fmt.Errorf("%w: question %d expects a list of option values", ErrInvalidAnswers, question.ID)
		}
		known := optionValues(question)
		for _, item := range selected {
			if _, exists := known[item]; !exists {
				return fmt.Errorf("%w: question %d has no option %q", ErrInvalidAnswers, question.ID, item)
			}
		}
	}

	return nil
}

// Stats computes the completion view of a form from live data: target and
// response totals, completion rate, pending and responding members, and
// per-question answer tallies. The target set is the full roster filtered by
// the targeting rule only; member status does not exclude anyone.
func (s *formService) Stats(ctx context.Context, actor Actor, formID uint) (dto.FormStatsResponse, error) {
	if !permissions.CanManageContent(actor.Role) {
		return dto.FormStatsResponse{}, ErrPermissionDenied
	}

	ctx, span := s.tracer.Start(ctx, "form.stats")
	defer span.End()
	span.SetAttributes(attribute.Int("form.id", int(formID)))

	started := time.Now()
	defer func() {
		observability.FormStatsDuration().Observe(time.Since(started).Seconds())
	}()

	form, err := s.forms.GetWithQuestions(ctx, formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FormStatsResponse{}, ErrFormNotFound
		}
		return dto.FormStatsResponse{}, err
	}

	members, err := s.members.ListAll(ctx)
	if err != nil {
		return dto.FormStatsResponse{}, err
	}

	responses, err := s.forms.ListResponses(ctx, formID)
	if err != nil {
		return dto.FormStatsResponse{}, err
	}

	targeted := make([]models.Member, 0, len(members))
	for _, member := range members {
		if form.Targets(member.Role) {
			targeted = append(targeted, member)
		}
	}

	responded := make(map[uint]struct{}, len(responses))
	respondents := make([]dto.RespondentSummary, 0, len(responses))
	for _, response := range responses {
		responded[response.MemberID] = struct{}{}
		respondents = append(respondents, dto.NewRespondentSummary(response.Member))
	}

	pending := make([]dto.RespondentSummary, 0)
	for _, member := range targeted {
		if _, ok := responded[member.ID]; ok {
			continue
		}
		pending = append(pending, dto.NewRespondentSummary(member))
	}

	stats := dto.FormStatsResponse{
		FormID:         form.ID,
		TotalTarget:    len(targeted),
		TotalResponses: len(responses),
		PendingMembers: pending,
		Respondents:    respondents,
		Questions:      aggregateQuestionStats(form.Questions, responses),
	}
	if stats.TotalTarget > 0 {
		stats.CompletionRate = float64(stats.TotalResponses) / float64(stats.TotalTarget) * 100
	}

	return stats, nil
}

// aggregateQuestionStats tallies answers per question. Option-carrying
// questions get per-option counts with percentages relative to the answered
// total; checkbox answers bucket into yes/no; free-text types only carry the
// answered tally.
func aggregateQuestionStats(questions []models.FormQuestion, responses []models.FormResponse) []dto.QuestionStats {
	results := make([]dto.QuestionStats, 0, len(questions))

	for _, question := range questions {
		stat := dto.QuestionStats{
			QuestionID:   question.ID,
			QuestionText: question.QuestionText,
			QuestionType: question.QuestionType,
		}

		counts := make(map[string]int)
		key := answerKey(question.ID)

		for _, response := range responses {
			value, present := response.Answers[key]
			if !present || isMissingAnswer(value) {
				continue
			}
			stat.TotalAnswered++

			switch question.QuestionType {
			case models.QuestionTypeSelect, models.QuestionTypeRadio:
				if selected, ok := value.(string); ok {
					counts[selected]++
				}
			case models.QuestionTypeMultiselect:
				if selected, ok := asStringList(value); ok {
					for _, item := range selected {
						counts[item]++
					}
				}
			case models.QuestionTypeCheckbox:
				if checked, ok := value.(bool); ok {
					if checked {
						counts["yes"]++
					} else {
						counts["no"]++
					}
				}
			}
		}

		if question.IsCountable() {
			stat.Options = buildOptionCounts(question, counts, stat.TotalAnswered)
		}

		results = append(results, stat)
	}

	return results
}

func buildOptionCounts(question models.FormQuestion, counts map[string]int, totalAnswered int) []dto.OptionCount {
	labels := make(map[string]string, len(question.Options))
	for _, option := range question.Options {
		labels[option.Value] = option.Label
	}
	if question.QuestionType == models.QuestionTypeCheckbox {
		labels["yes"] = "Yes"
		labels["no"] = "No"
	}

	options := make([]dto.OptionCount, 0, len(counts))
	for value, count := range counts {
		label, ok := labels[value]
		if !ok {
			label = value
		}
		option := dto.OptionCount{Value: value, Label: label, Count: count}
		if totalAnswered > 0 {
			option.Percentage = float64(count) / float64(totalAnswered) * 100
		}
		options = append(options, option)
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		return options[i].Value < options[j].Value
	})

	return options
}
