package event

import (
	"context"
	"scholarprep/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := NewEventPublisher("", "")
	require.NoError(t, err)

	ctx := context.Background()
	attempt := &model.Attempt{ID: "a1", ExamID: "e1", StudentID: "s1"}
	assert.NoError(t, p.PublishAttemptSubmitted(ctx, attempt, &model.SubmitResult{AttemptID: "a1"}))
	assert.NoError(t, p.PublishPaper2Marked(ctx, &model.Paper2Submission{ID: "p1"}))
	assert.NoError(t, p.Close())
}

func TestNewAttemptSubmittedEvent(t *testing.T) {
	now := time.Now()
	attempt := &model.Attempt{ID: "a1", ExamID: "e1", StudentID: "s1", Late: true, SubmittedAt: &now}
	result := &model.SubmitResult{
		AttemptID:        "a1",
		Score:            2,
		Total:            3,
		Percentage:       66.7,
		SkillPercentages: map[model.Skill]float64{model.SkillLogicalThinking: 100},
		TimeTaken:        120,
	}

	e := NewAttemptSubmittedEvent(attempt, result)

	assert.Equal(t, EventTypeAttemptSubmitted, e.Type)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "s1", e.StudentID)
	assert.Equal(t, 3, e.Total)
	assert.Equal(t, int64(120), e.TimeTakenSeconds)
	assert.True(t, e.Late)
}

func TestNewPaper2MarkedEventUnmarked(t *testing.T) {
	e := NewPaper2MarkedEvent(&model.Paper2Submission{ID: "p1", ExamID: "e1", StudentID: "s1"})

	assert.Equal(t, EventTypePaper2Marked, e.Type)
	assert.Equal(t, 0, e.TotalMarks)
}
