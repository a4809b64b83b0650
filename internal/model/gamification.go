package model

import "time"

// EarnedBadge records when a badge was unlocked
type EarnedBadge struct {
	BadgeID  string    `json:"badgeId" bson:"badgeId"`
	EarnedAt time.Time `json:"earnedAt" bson:"earnedAt"`
}

// GamificationStats is a student's points, level and badges
type GamificationStats struct {
	StudentID        string        `json:"studentId" bson:"_id"`
	Grade            Grade         `json:"grade,omitempty" bson:"grade,omitempty"`
	TotalPoints      int           `json:"totalPoints" bson:"totalPoints"`
	Level            int           `json:"level" bson:"level"`
	QuizzesCompleted int           `json:"quizzesCompleted" bson:"quizzesCompleted"`
	PerfectScores    int           `json:"perfectScores" bson:"perfectScores"`
	Badges           []EarnedBadge `json:"badges" bson:"badges"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt"`
	Version          int           `json:"-" bson:"version"`

	// Rank is the student's place on their grade leaderboard, 0 if unranked
	Rank int `json:"rank,omitempty" bson:"-"`
}

// HasBadge reports whether the badge was already earned
func (s *GamificationStats) HasBadge(id string) bool {
	for _, b := range s.Badges {
		if b.BadgeID == id {
			return true
		}
	}
	return false
}

// Badge is a catalog entry
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// LeaderboardEntry is one row of a grade leaderboard
type LeaderboardEntry struct {
	StudentID string `json:"studentId"`
	FullName  string `json:"fullName,omitempty"`
	Points    int    `json:"points"`
	Rank      int    `json:"rank"`
}
