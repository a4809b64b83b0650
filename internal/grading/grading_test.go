package grading

import (
	"scholarprep/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func marks(n int) *int { return &n }

func optionQuestion(id string, skill model.Skill, correct string) model.Question {
	return model.Question{
		ID:           id,
		QuestionText: "q " + id,
		Options: model.Options{
			{OptionID: "A", Text: "a"},
			{OptionID: "B", Text: "b"},
			{OptionID: "C", Text: "c"},
		},
		CorrectOptionID: correct,
		SkillArea:       skill,
	}
}

func TestGradeScenario(t *testing.T) {
	questions := []model.Question{
		optionQuestion("Q1", model.SkillMathematicalReasoning, "B"),
		optionQuestion("Q2", model.SkillMathematicalReasoning, "C"),
		optionQuestion("Q3", model.SkillLanguageProficiency, "A"),
	}
	answers := map[string]string{"Q1": "B", "Q2": "B", "Q3": "A"}

	out := Grade(questions, answers)

	assert.Equal(t, 2, out.Score)
	assert.Equal(t, 3, out.Possible)
	assert.Equal(t, map[model.Skill]int{
		model.SkillMathematicalReasoning: 1,
		model.SkillLanguageProficiency:   1,
	}, out.SkillScores)
	assert.Equal(t, map[model.Skill]float64{
		model.SkillMathematicalReasoning: 50.0,
		model.SkillLanguageProficiency:   100.0,
	}, out.SkillPercentages)
	assert.Empty(t, out.Issues)
}

func TestGradeMissingAnswersAreWrong(t *testing.T) {
	questions := []model.Question{
		optionQuestion("Q1", model.SkillMathematicalReasoning, "A"),
		optionQuestion("Q2", model.SkillMathematicalReasoning, "B"),
		optionQuestion("Q3", model.SkillLanguageProficiency, "C"),
	}

	out := Grade(questions, map[string]string{"Q1": "A"})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 50.0, out.SkillPercentages[model.SkillMathematicalReasoning])
	assert.Equal(t, 0.0, out.SkillPercentages[model.SkillLanguageProficiency])
	assert.Equal(t, 0, out.SkillScores[model.SkillLanguageProficiency])
}

func TestGradeLegacyFlatAnswerMatchesOptionSet(t *testing.T) {
	modern := []model.Question{optionQuestion("Q1", model.SkillGeneralKnowledge, "B")}
	legacy := []model.Question{{
		QuestionNumber: 1,
		QuestionText:   "legacy",
		Options:        model.Options{{OptionID: "A", Text: "x"}, {OptionID: "B", Text: "y"}},
		CorrectAnswer:  "B",
		SkillArea:      model.SkillGeneralKnowledge,
	}}

	tests := []struct {
		name   string
		answer string
		want   int
	}{
		{"correct", "B", 1},
		{"wrong", "A", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Grade(modern, map[string]string{"Q1": tt.answer})
			l := Grade(legacy, map[string]string{"1": tt.answer})
			assert.Equal(t, tt.want, m.Score)
			assert.Equal(t, m.Score, l.Score)
			assert.Equal(t, m.SkillPercentages, l.SkillPercentages)
		})
	}
}

func TestGradeCaseSensitive(t *testing.T) {
	questions := []model.Question{optionQuestion("Q1", model.SkillGeneralKnowledge, "B")}

	out := Grade(questions, map[string]string{"Q1": "b"})

	assert.Equal(t, 0, out.Score)
}

func TestGradeZeroMarkSkillIsZeroPercent(t *testing.T) {
	q := optionQuestion("Q1", model.SkillSpatialReasoning, "A")
	q.Marks = marks(0)

	out := Grade([]model.Question{q}, map[string]string{"Q1": "A"})

	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 0.0, out.SkillPercentages[model.SkillSpatialReasoning])
}

func TestGradeMalformedQuestionsScoreZero(t *testing.T) {
	noKey := model.Question{ID: "Q1", SkillArea: model.SkillMemoryRecall}
	badSkill := optionQuestion("Q2", model.Skill("astrology"), "A")
	good := optionQuestion("Q3", model.SkillMemoryRecall, "A")

	out := Grade([]model.Question{noKey, badSkill, good}, map[string]string{"Q1": "A", "Q2": "A", "Q3": "A"})

	assert.Equal(t, 1, out.Score)
	assert.Equal(t, 1, out.Possible)
	assert.Equal(t, []Issue{
		{QuestionKey: "Q1", Reason: ReasonNoAnswerKey},
		{QuestionKey: "Q2", Reason: ReasonUnknownSkill},
	}, out.Issues)
	assert.NotContains(t, out.SkillScores, model.Skill("astrology"))
}

func TestGradeWeightedMarks(t *testing.T) {
	q1 := optionQuestion("Q1", model.SkillProblemSolving, "A")
	q1.Marks = marks(2)
	q2 := optionQuestion("Q2", model.SkillProblemSolving, "A")

	out := Grade([]model.Question{q1, q2}, map[string]string{"Q1": "A", "Q2": "C"})

	assert.Equal(t, 2, out.Score)
	assert.Equal(t, 66.7, out.SkillPercentages[model.SkillProblemSolving])
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		earned, possible int
		want             float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{3, 3, 100},
		{45, 60, 75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.earned, tt.possible), "Percentage(%d, %d)", tt.earned, tt.possible)
	}
}

func TestElapsedSecondsClampsSkew(t *testing.T) {
	start := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(90), ElapsedSeconds(start, start.Add(90*time.Second+400*time.Millisecond)))
	assert.Equal(t, int64(0), ElapsedSeconds(start, start.Add(-5*time.Second)))
}
