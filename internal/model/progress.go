package model

import (
	"iter"
	"time"
)

// MonthlyProgress is one completed attempt as seen in the progress report
type MonthlyProgress struct {
	ExamID           string            `json:"examId"`
	ExamTitle        string            `json:"examTitle"`
	Month            string            `json:"month"`
	Paper1Score      int               `json:"paper1Score"`
	Paper2Score      int               `json:"paper2Score"`
	TotalScore       int               `json:"totalScore"`
	TotalPossible    int               `json:"totalPossible"`
	SkillPercentages map[Skill]float64 `json:"skillPercentages"`
	SubmittedAt      time.Time         `json:"submittedAt"`
}

// TrendPoint is one month's percentage for a skill
type TrendPoint struct {
	Month      string  `json:"month"`
	Percentage float64 `json:"percentage"`
}

// SkillRank is a skill with its latest percentage
type SkillRank struct {
	Skill      Skill   `json:"skill"`
	Percentage float64 `json:"percentage"`
}

// ProgressReport summarises a student's completed attempts over time
type ProgressReport struct {
	StudentID       string                 `json:"studentId"`
	MonthlyProgress []MonthlyProgress      `json:"monthlyProgress"`
	SkillTrends     map[Skill][]TrendPoint `json:"skillTrends"`
	Strengths       []SkillRank            `json:"strengths"`
	Weaknesses      []SkillRank            `json:"weaknesses"`
	TotalExamsTaken int                    `json:"totalExamsTaken"`
}

// Trend yields the time-ordered points for one skill. The sequence can be
// ranged over any number of times.
func (r *ProgressReport) Trend(skill Skill) iter.Seq[TrendPoint] {
	points := r.SkillTrends[skill]
	return func(yield func(TrendPoint) bool) {
		for _, p := range points {
			if !yield(p) {
				return
			}
		}
	}
}
