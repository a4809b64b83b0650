package validation

import (
	"scholarprep/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExam() model.CreateExamRequest {
	return model.CreateExamRequest{
		Title: "February Mock",
		Grade: model.Grade5,
		Month: "2025-02",
		Questions: []model.QuestionRequest{{
			QuestionText:    "1 + 1",
			Options:         []model.OptionRequest{{OptionID: "A", Text: "1"}, {OptionID: "B", Text: "2"}},
			CorrectOptionID: "B",
			SkillArea:       model.SkillMathematicalReasoning,
		}},
	}
}

func TestStructAcceptsValidExam(t *testing.T) {
	v := New()
	req := validExam()
	assert.NoError(t, v.Struct(&req))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		mutate    func(r *model.CreateExamRequest)
		wantField string
	}{
		{"missing title", func(r *model.CreateExamRequest) { r.Title = "" }, "title"},
		{"bad grade", func(r *model.CreateExamRequest) { r.Grade = "grade_9" }, "grade"},
		{"bad month", func(r *model.CreateExamRequest) { r.Month = "Feb 2025" }, "month"},
		{"no questions", func(r *model.CreateExamRequest) { r.Questions = nil }, "questions"},
		{"unknown skill", func(r *model.CreateExamRequest) { r.Questions[0].SkillArea = "astrology" }, "questions[0].skillArea"},
		{"one option", func(r *model.CreateExamRequest) { r.Questions[0].Options = r.Questions[0].Options[:1] }, "questions[0].options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validExam()
			tt.mutate(&req)

			err := v.Struct(&req)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			assert.NotEmpty(t, verr.Fields[0].Message)
		})
	}
}

func TestRequiredMessage(t *testing.T) {
	v := New()
	req := model.SaveAnswerRequest{Answer: "A"}

	err := v.Struct(&req)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []FieldError{{Field: "questionId", Message: "questionId is required"}}, verr.Fields)
}
