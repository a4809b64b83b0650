package service

import (
	"context"
	"scholarprep/internal/model"
	"scholarprep/internal/validation"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examRequest(questions ...model.QuestionRequest) *model.CreateExamRequest {
	return &model.CreateExamRequest{
		Title:     "April mock",
		Grade:     model.Grade5,
		Month:     "2026-04",
		Questions: questions,
	}
}

func questionRequest(id string, skill model.Skill, correct string) model.QuestionRequest {
	return model.QuestionRequest{
		ID:           id,
		QuestionText: "question " + id,
		Options: []model.OptionRequest{
			{OptionID: "A", Text: "a"},
			{OptionID: "B", Text: "b"},
		},
		CorrectOptionID: correct,
		SkillArea:       skill,
	}
}

func newExamFixture() (*ExamService, *fakeExamRepo, *fakeListCache) {
	repo := newFakeExamRepo()
	lists := newFakeListCache()
	svc := NewExamService(repo, lists)
	svc.now = fixedClock(t0, time.Minute)
	return svc, repo, lists
}

func TestExamCreateIsDraft(t *testing.T) {
	svc, repo, lists := newExamFixture()
	ctx := context.Background()

	exam, err := svc.Create(ctx, "ts-1", examRequest(
		questionRequest("Q1", model.SkillGeneralKnowledge, "A"),
		questionRequest("", model.SkillLogicalThinking, "B"),
	))
	require.NoError(t, err)

	assert.Equal(t, model.ExamDraft, exam.Status)
	assert.Equal(t, "ts-1", exam.CreatedBy)
	assert.Equal(t, model.DefaultDurationMinutes, exam.DurationMinutes)
	assert.Equal(t, model.DefaultTotalMarksPaper2, exam.TotalMarksPaper2)
	require.Len(t, exam.Questions, 2)
	assert.Equal(t, 2, exam.Questions[1].QuestionNumber)
	assert.Equal(t, "2", exam.Questions[1].Key())
	assert.True(t, exam.Questions[0].Options[0].IsCorrect)
	assert.False(t, exam.Questions[0].Options[1].IsCorrect)
	assert.Equal(t, 1, lists.invalidated)

	stored, _ := repo.GetByID(ctx, exam.ID)
	require.NotNil(t, stored)
	assert.Equal(t, model.ExamDraft, stored.Status)
}

func TestExamCreateRejectsBadQuestions(t *testing.T) {
	tests := []struct {
		name  string
		req   *model.CreateExamRequest
		field string
	}{
		{
			name:  "unknown skill",
			req:   examRequest(questionRequest("Q1", model.Skill("astrology"), "A")),
			field: "questions[0].skillArea",
		},
		{
			name:  "correct option not offered",
			req:   examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "D")),
			field: "questions[0].correctOptionId",
		},
		{
			name: "duplicate identity",
			req: examRequest(
				questionRequest("Q1", model.SkillGeneralKnowledge, "A"),
				questionRequest("Q1", model.SkillGeneralKnowledge, "B"),
			),
			field: "questions[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newExamFixture()
			_, err := svc.Create(context.Background(), "ts-1", tt.req)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Empty(t, repo.exams)
		})
	}
}

func TestExamUpdateOnlyDrafts(t *testing.T) {
	svc, _, lists := newExamFixture()
	ctx := context.Background()
	exam, err := svc.Create(ctx, "ts-1", examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "A")))
	require.NoError(t, err)

	req := examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "B"))
	req.Title = "April mock v2"
	updated, err := svc.Update(ctx, exam.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "April mock v2", updated.Title)
	assert.Equal(t, exam.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 2, lists.invalidated)

	_, err = svc.Publish(ctx, exam.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, exam.ID, req)
	assert.ErrorIs(t, err, ErrExamNotDraft)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Update(ctx, "missing", req)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExamPublishAndClose(t *testing.T) {
	svc, _, lists := newExamFixture()
	ctx := context.Background()
	exam, err := svc.Create(ctx, "ts-1", examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "A")))
	require.NoError(t, err)

	_, err = svc.Close(ctx, exam.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	published, err := svc.Publish(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)
	invalidations := lists.invalidated

	again, err := svc.Publish(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamPublished, again.Status)
	assert.Equal(t, invalidations, lists.invalidated)

	closed, err := svc.Close(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamClosed, closed.Status)

	_, err = svc.Publish(ctx, exam.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Publish(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExamListUsesCache(t *testing.T) {
	svc, repo, lists := newExamFixture()
	ctx := context.Background()
	exam, err := svc.Create(ctx, "ts-1", examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "A")))
	require.NoError(t, err)
	_, err = svc.Publish(ctx, exam.ID)
	require.NoError(t, err)

	filter := model.ExamFilter{Grade: model.Grade5, Status: model.ExamPublished}
	got, err := svc.List(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].QuestionCount)
	assert.True(t, lists.cached(filter))

	// served from the cache while the store changes underneath
	delete(repo.exams, exam.ID)
	got, err = svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// any write drops every cached list
	_, err = svc.Create(ctx, "ts-1", examRequest(questionRequest("Q1", model.SkillGeneralKnowledge, "A")))
	require.NoError(t, err)
	got, err = svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExamListDropsListLoadedBeforeInvalidate(t *testing.T) {
	base := newFakeExamRepo(scenarioExam(model.ExamPublished))
	repo := &listHookExamRepo{fakeExamRepo: base}
	lists := newFakeListCache()
	svc := NewExamService(repo, lists)
	ctx := context.Background()
	filter := model.ExamFilter{Status: model.ExamPublished}

	// the exam is closed between the store read and the cache write
	repo.afterList = func() {
		delete(base.exams, "exam-1")
		require.NoError(t, lists.Invalidate(ctx))
	}
	got, err := svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.False(t, lists.cached(filter))

	got, err = svc.List(ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, got)
}
