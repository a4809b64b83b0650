package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"scholarprep/internal/grading"
	"scholarprep/internal/metrics"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
	"scholarprep/internal/validation"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionListener is told about every successfully graded attempt.
// Listener errors are logged and never fail the submission.
type SubmissionListener interface {
	OnAttemptSubmitted(ctx context.Context, attempt *model.Attempt, exam *model.Exam, result *model.SubmitResult) error
}

// AttemptService runs a student's attempt at an exam: start or resume, save
// answers, and submit for grading
type AttemptService struct {
	attemptRepo repository.AttemptRepo
	examRepo    repository.ExamRepo
	access      *AccessPolicy
	listeners   []SubmissionListener
	now         func() time.Time
}

// NewAttemptService creates a new attempt service
func NewAttemptService(attemptRepo repository.AttemptRepo, examRepo repository.ExamRepo, access *AccessPolicy) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		examRepo:    examRepo,
		access:      access,
		now:         time.Now,
	}
}

// AddListener registers a listener that runs after each committed submission
func (s *AttemptService) AddListener(l SubmissionListener) {
	s.listeners = append(s.listeners, l)
}

// Start returns the student's incomplete attempt for the exam, or creates one.
// The exam must be published.
func (s *AttemptService) Start(ctx context.Context, examID, studentID string) (*model.StartResult, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam == nil {
		return nil, fmt.Errorf("%w: %w", ErrExamUnavailable, ErrNotFound)
	}
	if exam.Status != model.ExamPublished {
		return nil, ErrExamUnavailable
	}

	existing, err := s.attemptRepo.FindIncomplete(ctx, studentID, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to find attempt: %w", err)
	}
	if existing != nil {
		return s.resumed(existing, exam), nil
	}

	attempt := &model.Attempt{
		ID:        uuid.New().String(),
		ExamID:    examID,
		StudentID: studentID,
		StartedAt: s.now().UTC(),
		Answers:   map[string]string{},
	}
	err = s.attemptRepo.Create(ctx, attempt)
	if errors.Is(err, repository.ErrDuplicate) {
		// a concurrent start won the race
		existing, err = s.attemptRepo.FindIncomplete(ctx, studentID, examID)
		if err != nil {
			return nil, fmt.Errorf("failed to find attempt: %w", err)
		}
		if existing != nil {
			return s.resumed(existing, exam), nil
		}
		return nil, fmt.Errorf("failed to create attempt: %w", repository.ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	metrics.AttemptsStarted.WithLabelValues("false").Inc()
	slog.Info("attempt started", "attemptId", attempt.ID, "examId", examID, "studentId", studentID)
	return &model.StartResult{Attempt: attempt, Exam: exam.View(), Resumed: false}, nil
}

func (s *AttemptService) resumed(attempt *model.Attempt, exam *model.Exam) *model.StartResult {
	metrics.AttemptsStarted.WithLabelValues("true").Inc()
	if attempt.Answers == nil {
		attempt.Answers = map[string]string{}
	}
	return &model.StartResult{Attempt: attempt, Exam: exam.View(), Resumed: true}
}

// SaveAnswer records one answer on an incomplete attempt. Saving the same
// question again overwrites the earlier answer.
func (s *AttemptService) SaveAnswer(ctx context.Context, attemptID, studentID string, req *model.SaveAnswerRequest) error {
	attempt, err := s.ownedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return err
	}
	if attempt.IsCompleted {
		return ErrAlreadySubmitted
	}

	exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return fmt.Errorf("failed to get exam: %w", err)
	}
	if exam != nil {
		if _, ok := exam.QuestionByKey(req.QuestionID); !ok {
			return validation.NewError("questionId", fmt.Sprintf("exam has no question %q", req.QuestionID))
		}
	}

	ok, err := s.attemptRepo.SaveAnswer(ctx, attemptID, studentID, req.QuestionID, req.Answer)
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}
	if !ok {
		return s.classifyMiss(ctx, attemptID, studentID)
	}
	return nil
}

// Submit grades the attempt and marks it complete. Only the first submission
// of an attempt succeeds; later ones get ErrAlreadySubmitted.
func (s *AttemptService) Submit(ctx context.Context, attemptID, studentID string) (*model.SubmitResult, error) {
	timer := prometheus.NewTimer(metrics.GradingDuration)
	defer timer.ObserveDuration()

	attempt, err := s.ownedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		metrics.AttemptsSubmitted.WithLabelValues("rejected").Inc()
		return nil, ErrAlreadySubmitted
	}

	exam, err := s.examRepo.GetByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	if exam == nil {
		return nil, fmt.Errorf("exam %s: %w", attempt.ExamID, ErrNotFound)
	}

	out := grading.Grade(exam.Questions, attempt.Answers)
	for _, issue := range out.Issues {
		metrics.GradingIssues.WithLabelValues(issue.Reason).Inc()
		slog.Warn("question skipped during grading",
			"examId", exam.ID, "questionKey", issue.QuestionKey, "reason", issue.Reason)
	}

	now := s.now().UTC()
	elapsed := grading.ElapsedSeconds(attempt.StartedAt, now)
	g := &model.Grading{
		Score:            out.Score,
		TotalMarks:       out.Possible,
		Percentage:       grading.Percentage(out.Score, out.Possible),
		SkillScores:      out.SkillScores,
		SkillPercentages: out.SkillPercentages,
		SubmittedAt:      now,
		TimeTakenSeconds: elapsed,
		Late:             exam.DurationMinutes > 0 && elapsed > int64(exam.DurationMinutes)*60,
	}

	ok, err := s.attemptRepo.Complete(ctx, attemptID, studentID, g)
	if err != nil {
		return nil, fmt.Errorf("failed to complete attempt: %w", err)
	}
	if !ok {
		metrics.AttemptsSubmitted.WithLabelValues("rejected").Inc()
		return nil, s.classifyMiss(ctx, attemptID, studentID)
	}
	metrics.AttemptsSubmitted.WithLabelValues("graded").Inc()

	applyGrading(attempt, g)
	result := &model.SubmitResult{
		AttemptID:        attempt.ID,
		Score:            g.Score,
		Total:            g.TotalMarks,
		Percentage:       g.Percentage,
		SkillScores:      g.SkillScores,
		SkillPercentages: g.SkillPercentages,
		TimeTaken:        g.TimeTakenSeconds,
	}

	slog.Info("attempt submitted",
		"attemptId", attempt.ID, "examId", exam.ID, "studentId", studentID,
		"score", result.Score, "total", result.Total, "late", g.Late)

	for _, l := range s.listeners {
		if err := l.OnAttemptSubmitted(ctx, attempt, exam, result); err != nil {
			slog.Error("submission listener failed", "attemptId", attempt.ID, "error", err)
		}
	}
	return result, nil
}

// Get returns an attempt to anyone allowed to view its student
func (s *AttemptService) Get(ctx context.Context, caller Caller, attemptID string) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt == nil {
		return nil, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
	}
	if err := s.access.CanViewStudent(ctx, caller, attempt.StudentID); err != nil {
		if errors.Is(err, ErrUnauthorized) && caller.Role == model.RoleStudent {
			// students never learn whether another student's attempt exists
			return nil, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
		}
		return nil, err
	}
	return attempt, nil
}

// ListCompleted returns a student's graded attempts, oldest first
func (s *AttemptService) ListCompleted(ctx context.Context, caller Caller, studentID string) ([]*model.Attempt, error) {
	if err := s.access.CanViewStudent(ctx, caller, studentID); err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.ListCompletedByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, attemptID, studentID string) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt == nil || attempt.StudentID != studentID {
		return nil, fmt.Errorf("attempt %s: %w", attemptID, ErrNotFound)
	}
	return attempt, nil
}

// classifyMiss explains why a conditional update on an attempt matched nothing
func (s *AttemptService) classifyMiss(ctx context.Context, attemptID, studentID string) error {
	attempt, err := s.ownedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return err
	}
	if attempt.IsCompleted {
		return ErrAlreadySubmitted
	}
	return fmt.Errorf("attempt %s changed concurrently: %w", attemptID, ErrInvalidState)
}

func applyGrading(a *model.Attempt, g *model.Grading) {
	submitted := g.SubmittedAt
	a.IsCompleted = true
	a.SubmittedAt = &submitted
	a.TimeTakenSeconds = g.TimeTakenSeconds
	a.Late = g.Late
	a.Score = g.Score
	a.TotalMarks = g.TotalMarks
	a.Percentage = g.Percentage
	a.SkillScores = g.SkillScores
	a.SkillPercentages = g.SkillPercentages
}
