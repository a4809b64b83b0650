package model

import "time"

// Attempt is one student's single pass through one exam's paper 1
type Attempt struct {
	ID               string            `json:"id" bson:"_id"`
	ExamID           string            `json:"examId" bson:"examId"`
	StudentID        string            `json:"studentId" bson:"studentId"`
	StartedAt        time.Time         `json:"startedAt" bson:"startedAt"`
	SubmittedAt      *time.Time        `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
	Answers          map[string]string `json:"answers" bson:"answers"`
	TimeTakenSeconds int64             `json:"timeTakenSeconds" bson:"timeTakenSeconds"`
	Late             bool              `json:"late,omitempty" bson:"late,omitempty"`
	IsCompleted      bool              `json:"isCompleted" bson:"isCompleted"`
	Score            int               `json:"score" bson:"score"`
	TotalMarks       int               `json:"totalMarks" bson:"totalMarks"`
	Percentage       float64           `json:"percentage" bson:"percentage"`
	SkillScores      map[Skill]int     `json:"skillScores,omitempty" bson:"skillScores,omitempty"`
	SkillPercentages map[Skill]float64 `json:"skillPercentages,omitempty" bson:"skillPercentages,omitempty"`
}

// Grading is the outcome persisted together with the completion flag
type Grading struct {
	Score            int
	TotalMarks       int
	Percentage       float64
	SkillScores      map[Skill]int
	SkillPercentages map[Skill]float64
	SubmittedAt      time.Time
	TimeTakenSeconds int64
	Late             bool
}

// StartResult is returned when a student starts or resumes an exam
type StartResult struct {
	Attempt *Attempt  `json:"attempt"`
	Exam    *ExamView `json:"exam"`
	Resumed bool      `json:"resumed"`
}

// SubmitResult is the score summary returned after submission
type SubmitResult struct {
	AttemptID        string            `json:"attemptId"`
	Score            int               `json:"score"`
	Total            int               `json:"total"`
	Percentage       float64           `json:"percentage"`
	SkillScores      map[Skill]int     `json:"skillScores"`
	SkillPercentages map[Skill]float64 `json:"skillPercentages"`
	TimeTaken        int64             `json:"timeTaken"`
}

// SaveAnswerRequest is the request body for saving one answer
type SaveAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required,max=64"`
	Answer     string `json:"answer" validate:"required,max=64"`
}
