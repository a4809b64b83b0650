package model

import "time"

type ExamStatus string

const (
	ExamDraft     ExamStatus = "draft"
	ExamPublished ExamStatus = "published"
	ExamClosed    ExamStatus = "closed"
)

const (
	DefaultDurationMinutes  = 60
	DefaultTotalMarksPaper1 = 60
	DefaultTotalMarksPaper2 = 40
)

// Exam is a monthly two-paper exam. Paper 1 is auto-graded, paper 2 is
// marked by a teacher.
type Exam struct {
	ID                   string     `json:"id" bson:"_id"`
	Title                string     `json:"title" bson:"title"`
	Description          string     `json:"description,omitempty" bson:"description,omitempty"`
	Grade                Grade      `json:"grade" bson:"grade"`
	Month                string     `json:"month" bson:"month"` // YYYY-MM
	Questions            []Question `json:"questions" bson:"questions"`
	Paper2EssayPrompt    string     `json:"paper2EssayPrompt,omitempty" bson:"paper2EssayPrompt,omitempty"`
	Paper2ShortQuestions []string   `json:"paper2ShortQuestions,omitempty" bson:"paper2ShortQuestions,omitempty"`
	DurationMinutes      int        `json:"durationMinutes" bson:"durationMinutes"`
	TotalMarksPaper1     int        `json:"totalMarksPaper1" bson:"totalMarksPaper1"`
	TotalMarksPaper2     int        `json:"totalMarksPaper2" bson:"totalMarksPaper2"`
	Status               ExamStatus `json:"status" bson:"status"`
	CreatedBy            string     `json:"createdBy" bson:"createdBy"`
	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updatedAt"`
	PublishedAt          *time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
}

// ExamFilter narrows ListExams. Empty fields match everything.
type ExamFilter struct {
	Grade  Grade
	Status ExamStatus
}

// ExamSummary is the list representation of an exam, without questions
type ExamSummary struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Grade           Grade      `json:"grade"`
	Month           string     `json:"month"`
	DurationMinutes int        `json:"durationMinutes"`
	QuestionCount   int        `json:"questionCount"`
	Status          ExamStatus `json:"status"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
}

func (e *Exam) Summary() ExamSummary {
	return ExamSummary{
		ID:              e.ID,
		Title:           e.Title,
		Grade:           e.Grade,
		Month:           e.Month,
		DurationMinutes: e.DurationMinutes,
		QuestionCount:   len(e.Questions),
		Status:          e.Status,
		PublishedAt:     e.PublishedAt,
	}
}

// QuestionByKey finds a question by its identity
func (e *Exam) QuestionByKey(key string) (*Question, bool) {
	for i := range e.Questions {
		if e.Questions[i].Key() == key {
			return &e.Questions[i], true
		}
	}
	return nil, false
}

// ExamView is what a student sees when taking the exam
type ExamView struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Grade                Grade          `json:"grade"`
	Month                string         `json:"month"`
	DurationMinutes      int            `json:"durationMinutes"`
	TotalMarksPaper1     int            `json:"totalMarksPaper1"`
	Questions            []QuestionView `json:"questions"`
	Paper2EssayPrompt    string         `json:"paper2EssayPrompt,omitempty"`
	Paper2ShortQuestions []string       `json:"paper2ShortQuestions,omitempty"`
}

// View returns the exam with all answer keys removed
func (e *Exam) View() *ExamView {
	qs := make([]QuestionView, len(e.Questions))
	for i := range e.Questions {
		qs[i] = e.Questions[i].View()
	}
	return &ExamView{
		ID:                   e.ID,
		Title:                e.Title,
		Grade:                e.Grade,
		Month:                e.Month,
		DurationMinutes:      e.DurationMinutes,
		TotalMarksPaper1:     e.TotalMarksPaper1,
		Questions:            qs,
		Paper2EssayPrompt:    e.Paper2EssayPrompt,
		Paper2ShortQuestions: e.Paper2ShortQuestions,
	}
}

// CreateExamRequest is the request body for creating or replacing a draft exam.
// Status is not accepted; new exams are always drafts.
type CreateExamRequest struct {
	Title                string            `json:"title" validate:"required,max=200"`
	Description          string            `json:"description" validate:"max=2000"`
	Grade                Grade             `json:"grade" validate:"required,oneof=grade_2 grade_3 grade_4 grade_5"`
	Month                string            `json:"month" validate:"required,datetime=2006-01"`
	Questions            []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
	Paper2EssayPrompt    string            `json:"paper2EssayPrompt"`
	Paper2ShortQuestions []string          `json:"paper2ShortQuestions" validate:"max=10"`
	DurationMinutes      int               `json:"durationMinutes" validate:"omitempty,min=1,max=600"`
	TotalMarksPaper1     int               `json:"totalMarksPaper1" validate:"omitempty,min=1"`
	TotalMarksPaper2     int               `json:"totalMarksPaper2" validate:"omitempty,min=1"`
}

// QuestionRequest is one question in a CreateExamRequest
type QuestionRequest struct {
	ID              string          `json:"id" validate:"omitempty,max=64,excludesall=.$"`
	QuestionNumber  int             `json:"questionNumber" validate:"omitempty,min=1"`
	QuestionText    string          `json:"questionText" validate:"required"`
	Options         []OptionRequest `json:"options" validate:"required,min=2,max=6,dive"`
	CorrectOptionID string          `json:"correctOptionId" validate:"required"`
	SkillArea       Skill           `json:"skillArea" validate:"required,skill"`
	Marks           *int            `json:"marks" validate:"omitempty,min=0,max=20"`
	ImageURL        string          `json:"imageUrl" validate:"omitempty,url"`
}

type OptionRequest struct {
	OptionID string `json:"optionId" validate:"required,max=16"`
	Text     string `json:"text" validate:"required"`
}
