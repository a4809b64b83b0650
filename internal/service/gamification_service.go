package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"scholarprep/internal/cache"
	"scholarprep/internal/model"
	"scholarprep/internal/repository"
	"time"
)

// Points awarded per submission
const (
	PointsQuizComplete = 30
	PointsQuizPerfect  = 50
	PointsHighScore    = 20

	highScoreThreshold = 80.0
	wizardQuizzes      = 10
	badgeLevel         = 5

	maxAwardRetries = 5
)

// Badge IDs
const (
	BadgeFirstQuiz    = "first_quiz"
	BadgeQuizWizard   = "quiz_wizard"
	BadgePerfectScore = "perfect_score"
	BadgeLevel5       = "level_5"
)

var badgeCatalog = []model.Badge{
	{ID: BadgeFirstQuiz, Name: "First Steps", Description: "Complete your first exam", Points: 10},
	{ID: BadgeQuizWizard, Name: "Quiz Wizard", Description: "Complete 10 exams", Points: 100},
	{ID: BadgePerfectScore, Name: "Perfectionist", Description: "Score 100% on an exam", Points: 50},
	{ID: BadgeLevel5, Name: "Rising Star", Description: "Reach level 5", Points: 75},
}

// XPForLevel is the total points needed to reach level n
func XPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	return int(100 * math.Pow(float64(n), 1.5))
}

// LevelForPoints returns the highest level whose threshold is met
func LevelForPoints(points int) int {
	level := 1
	for points >= XPForLevel(level+1) {
		level++
	}
	return level
}

// GamificationService awards points and badges when attempts are submitted
type GamificationService struct {
	repo        repository.GamificationRepo
	userRepo    repository.UserRepo
	leaderboard cache.LeaderboardCache
	now         func() time.Time
}

// NewGamificationService creates a new gamification service
func NewGamificationService(repo repository.GamificationRepo, userRepo repository.UserRepo, leaderboard cache.LeaderboardCache) *GamificationService {
	return &GamificationService{
		repo:        repo,
		userRepo:    userRepo,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

// OnAttemptSubmitted implements SubmissionListener. The award is retried
// against fresh stats when another submission for the same student saved
// first.
func (s *GamificationService) OnAttemptSubmitted(ctx context.Context, attempt *model.Attempt, exam *model.Exam, result *model.SubmitResult) error {
	var (
		stats   *model.GamificationStats
		awarded int
	)
	for try := 0; ; try++ {
		if try == maxAwardRetries {
			return fmt.Errorf("failed to save stats for %s: too many concurrent updates", attempt.StudentID)
		}

		var err error
		stats, err = s.repo.Get(ctx, attempt.StudentID)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		if stats == nil {
			stats = &model.GamificationStats{StudentID: attempt.StudentID, Level: 1}
		}
		if exam != nil && stats.Grade == "" {
			stats.Grade = exam.Grade
		}

		awarded = Award(stats, result.Percentage, s.now().UTC())

		saved, err := s.repo.Save(ctx, stats)
		if err != nil {
			return fmt.Errorf("failed to save stats: %w", err)
		}
		if saved {
			break
		}
	}
	if stats.Grade != "" {
		if err := s.leaderboard.SetPoints(ctx, stats.Grade, stats.StudentID, stats.TotalPoints); err != nil {
			slog.Warn("failed to update leaderboard", "studentId", stats.StudentID, "error", err)
		}
	}

	slog.Info("points awarded", "studentId", stats.StudentID, "points", awarded, "total", stats.TotalPoints, "level", stats.Level)
	return nil
}

// Award applies one submission to stats and returns the points it earned
func Award(stats *model.GamificationStats, percentage float64, at time.Time) int {
	points := PointsQuizComplete
	if percentage >= 100 {
		points += PointsQuizPerfect
		stats.PerfectScores++
	}
	if percentage >= highScoreThreshold {
		points += PointsHighScore
	}
	stats.QuizzesCompleted++
	stats.TotalPoints += points
	stats.Level = LevelForPoints(stats.TotalPoints)
	stats.UpdatedAt = at

	earn := func(id string, ok bool) {
		if ok && !stats.HasBadge(id) {
			stats.Badges = append(stats.Badges, model.EarnedBadge{BadgeID: id, EarnedAt: at})
		}
	}
	earn(BadgeFirstQuiz, stats.QuizzesCompleted >= 1)
	earn(BadgeQuizWizard, stats.QuizzesCompleted >= wizardQuizzes)
	earn(BadgePerfectScore, stats.PerfectScores >= 1)
	earn(BadgeLevel5, stats.Level >= badgeLevel)
	return points
}

// GetStats returns a student's stats with their leaderboard rank,
// zero-valued if they have none yet
func (s *GamificationService) GetStats(ctx context.Context, studentID string) (*model.GamificationStats, error) {
	stats, err := s.repo.Get(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	if stats == nil {
		return &model.GamificationStats{StudentID: studentID, Level: 1, Badges: []model.EarnedBadge{}}, nil
	}
	if stats.Grade != "" {
		rank, err := s.leaderboard.GetRank(ctx, stats.Grade, studentID)
		if err != nil {
			slog.Warn("failed to get leaderboard rank", "studentId", studentID, "error", err)
		} else if rank > 0 {
			stats.Rank = int(rank)
		}
	}
	return stats, nil
}

// Leaderboard returns the top students of a grade with their names
func (s *GamificationService) Leaderboard(ctx context.Context, grade model.Grade, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	entries, err := s.leaderboard.GetTop(ctx, grade, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.StudentID
	}
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		slog.Warn("failed to load leaderboard names", "error", err)
		return entries, nil
	}
	for i := range entries {
		if u, ok := users[entries[i].StudentID]; ok {
			entries[i].FullName = u.FullName
		}
	}
	return entries, nil
}

func (s *GamificationService) Badges() []model.Badge {
	return badgeCatalog
}
