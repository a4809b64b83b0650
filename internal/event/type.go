package event

import (
	"scholarprep/internal/model"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeAttemptSubmitted EventType = "attempt.submitted"
	EventTypePaper2Marked     EventType = "paper2.marked"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

type AttemptSubmittedEvent struct {
	BaseEvent
	AttemptID        string                  `json:"attempt_id"`
	ExamID           string                  `json:"exam_id"`
	StudentID        string                  `json:"student_id"`
	Score            int                     `json:"score"`
	Total            int                     `json:"total"`
	Percentage       float64                 `json:"percentage"`
	SkillPercentages map[model.Skill]float64 `json:"skill_percentages"`
	TimeTakenSeconds int64                   `json:"time_taken_seconds"`
	Late             bool                    `json:"late"`
}

type Paper2MarkedEvent struct {
	BaseEvent
	SubmissionID string `json:"submission_id"`
	ExamID       string `json:"exam_id"`
	StudentID    string `json:"student_id"`
	TeacherID    string `json:"teacher_id"`
	TotalMarks   int    `json:"total_marks"`
}

func newBase(t EventType, at time.Time) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: at.Unix(),
		Version:   "1.0",
	}
}

func NewAttemptSubmittedEvent(a *model.Attempt, result *model.SubmitResult) *AttemptSubmittedEvent {
	return &AttemptSubmittedEvent{
		BaseEvent:        newBase(EventTypeAttemptSubmitted, time.Now()),
		AttemptID:        a.ID,
		ExamID:           a.ExamID,
		StudentID:        a.StudentID,
		Score:            result.Score,
		Total:            result.Total,
		Percentage:       result.Percentage,
		SkillPercentages: result.SkillPercentages,
		TimeTakenSeconds: result.TimeTaken,
		Late:             a.Late,
	}
}

func NewPaper2MarkedEvent(sub *model.Paper2Submission) *Paper2MarkedEvent {
	e := &Paper2MarkedEvent{
		BaseEvent:    newBase(EventTypePaper2Marked, time.Now()),
		SubmissionID: sub.ID,
		ExamID:       sub.ExamID,
		StudentID:    sub.StudentID,
		TeacherID:    sub.TeacherID,
	}
	if sub.TotalMarks != nil {
		e.TotalMarks = *sub.TotalMarks
	}
	return e
}
