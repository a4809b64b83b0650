package service

import (
	"context"
	"fmt"
	"log/slog"
	"scholarprep/internal/cache"
	"scholarprep/internal/metrics"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
	"scholarprep/internal/validation"
	"time"

	"github.com/google/uuid"
)

// ExamService handles the exam catalog: authoring, publishing and listing
type ExamService struct {
	examRepo  repository.ExamRepo
	listCache cache.ExamListCache
	now       func() time.Time
}

// NewExamService creates a new exam service
func NewExamService(examRepo repository.ExamRepo, listCache cache.ExamListCache) *ExamService {
	return &ExamService{
		examRepo:  examRepo,
		listCache: listCache,
		now:       time.Now,
	}
}

// Create stores a new exam. The exam always starts as a draft.
func (s *ExamService) Create(ctx context.Context, creatorID string, req *model.CreateExamRequest) (*model.Exam, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	exam := &model.Exam{
		ID:        uuid.New().String(),
		Status:    model.ExamDraft,
		CreatedBy: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyExamRequest(exam, req, questions)

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	s.invalidateLists(ctx)

	slog.Info("exam created", "examId", exam.ID, "grade", exam.Grade, "month", exam.Month, "questions", len(questions))
	return exam, nil
}

// Update replaces the content of a draft exam
func (s *ExamService) Update(ctx context.Context, id string, req *model.CreateExamRequest) (*model.Exam, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamDraft {
		return nil, ErrExamNotDraft
	}

	applyExamRequest(exam, req, questions)
	exam.UpdatedAt = s.now().UTC()

	ok, err := s.examRepo.ReplaceDraft(ctx, exam)
	if err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	if !ok {
		// published between our read and the write
		return nil, ErrExamNotDraft
	}
	s.invalidateLists(ctx)
	return exam, nil
}

// Get returns an exam including its answer keys
func (s *ExamService) Get(ctx context.Context, id string) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam == nil {
		return nil, fmt.Errorf("exam %s: %w", id, ErrNotFound)
	}
	return exam, nil
}

// List returns exam summaries matching filter, served from the list cache
// when possible. Cache failures fall back to the store.
func (s *ExamService) List(ctx context.Context, filter model.ExamFilter) ([]model.ExamSummary, error) {
	cached, gen, err := s.listCache.Get(ctx, filter)
	cacheOK := err == nil
	if err != nil {
		slog.Warn("exam list cache read failed", "error", err)
	}
	if cached != nil {
		metrics.ExamListCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.ExamListCache.WithLabelValues("miss").Inc()

	exams, err := s.examRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	summaries := make([]model.ExamSummary, len(exams))
	for i, e := range exams {
		summaries[i] = e.Summary()
	}

	if cacheOK {
		if err := s.listCache.Set(ctx, filter, gen, summaries); err != nil {
			slog.Warn("exam list cache write failed", "error", err)
		}
	}
	return summaries, nil
}

// Publish makes a draft exam available to students. Publishing an already
// published exam is a no-op.
func (s *ExamService) Publish(ctx context.Context, id string) (*model.Exam, error) {
	return s.transition(ctx, id, model.ExamDraft, model.ExamPublished)
}

// Close stops a published exam from accepting new attempts
func (s *ExamService) Close(ctx context.Context, id string) (*model.Exam, error) {
	return s.transition(ctx, id, model.ExamPublished, model.ExamClosed)
}

func (s *ExamService) transition(ctx context.Context, id string, from, to model.ExamStatus) (*model.Exam, error) {
	ok, err := s.examRepo.Transition(ctx, id, from, to, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to move exam to %s: %w", to, err)
	}

	exam, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok && exam.Status != to {
		return nil, fmt.Errorf("%w: exam is %s", ErrInvalidState, exam.Status)
	}
	if ok {
		s.invalidateLists(ctx)
		slog.Info("exam status changed", "examId", id, "from", from, "to", to)
	}
	return exam, nil
}

func (s *ExamService) invalidateLists(ctx context.Context) {
	if err := s.listCache.Invalidate(ctx); err != nil {
		slog.Warn("exam list cache invalidation failed", "error", err)
	}
}

func applyExamRequest(exam *model.Exam, req *model.CreateExamRequest, questions []model.Question) {
	exam.Title = req.Title
	exam.Description = req.Description
	exam.Grade = req.Grade
	exam.Month = req.Month
	exam.Questions = questions
	exam.Paper2EssayPrompt = req.Paper2EssayPrompt
	exam.Paper2ShortQuestions = req.Paper2ShortQuestions
	exam.DurationMinutes = orDefault(req.DurationMinutes, model.DefaultDurationMinutes)
	exam.TotalMarksPaper1 = orDefault(req.TotalMarksPaper1, model.DefaultTotalMarksPaper1)
	exam.TotalMarksPaper2 = orDefault(req.TotalMarksPaper2, model.DefaultTotalMarksPaper2)
}

// buildQuestions converts request questions, numbering them by position when
// no number is given, and rejects duplicate identities, unknown skills and
// correct options that are not among the choices.
func buildQuestions(reqs []model.QuestionRequest) ([]model.Question, error) {
	questions := make([]model.Question, len(reqs))
	seen := make(map[string]bool, len(reqs))

	for i, r := range reqs {
		field := fmt.Sprintf("questions[%d]", i)
		if !r.SkillArea.Valid() {
			return nil, validation.NewError(field+".skillArea", fmt.Sprintf("unknown skill area %q", r.SkillArea))
		}

		opts := make(model.Options, len(r.Options))
		correctFound := false
		for j, o := range r.Options {
			opts[j] = model.Option{OptionID: o.OptionID, Text: o.Text, IsCorrect: o.OptionID == r.CorrectOptionID}
			correctFound = correctFound || opts[j].IsCorrect
		}
		if !correctFound {
			return nil, validation.NewError(field+".correctOptionId", "correctOptionId must match one of the options")
		}

		q := model.Question{
			ID:              r.ID,
			QuestionNumber:  orDefault(r.QuestionNumber, i+1),
			QuestionText:    r.QuestionText,
			Options:         opts,
			CorrectOptionID: r.CorrectOptionID,
			SkillArea:       r.SkillArea,
			Marks:           r.Marks,
			ImageURL:        r.ImageURL,
		}
		key := q.Key()
		if seen[key] {
			return nil, validation.NewError(field, fmt.Sprintf("duplicate question identity %q", key))
		}
		seen[key] = true
		questions[i] = q
	}
	return questions, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
