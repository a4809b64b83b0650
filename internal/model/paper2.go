package model

import "time"

const (
	MaxEssayMarks       = 20
	MaxShortAnswerMarks = 2
	MaxShortAnswers     = 10
)

// Paper2Submission tracks a hand-written paper 2 sent in over WhatsApp and
// the teacher's marks for it
type Paper2Submission struct {
	ID                string     `json:"id" bson:"_id"`
	ExamID            string     `json:"examId" bson:"examId"`
	StudentID         string     `json:"studentId" bson:"studentId"`
	SubmittedVia      string     `json:"submittedVia" bson:"submittedVia"`
	WhatsAppReference string     `json:"whatsappReference,omitempty" bson:"whatsappReference,omitempty"`
	SubmittedAt       time.Time  `json:"submittedAt" bson:"submittedAt"`
	TeacherID         string     `json:"teacherId,omitempty" bson:"teacherId,omitempty"`
	EssayMarks        *int       `json:"essayMarks,omitempty" bson:"essayMarks,omitempty"`
	ShortAnswerMarks  []int      `json:"shortAnswerMarks,omitempty" bson:"shortAnswerMarks,omitempty"`
	TotalMarks        *int       `json:"totalMarks,omitempty" bson:"totalMarks,omitempty"`
	TeacherComments   string     `json:"teacherComments,omitempty" bson:"teacherComments,omitempty"`
	MarkedAt          *time.Time `json:"markedAt,omitempty" bson:"markedAt,omitempty"`
}

// IsMarked reports whether a teacher has recorded marks
func (p *Paper2Submission) IsMarked() bool {
	return p.MarkedAt != nil && p.TotalMarks != nil
}

// Paper2MetaRequest records that a paper 2 was sent in
type Paper2MetaRequest struct {
	ExamID            string `json:"examId" validate:"required"`
	StudentID         string `json:"studentId" validate:"omitempty"`
	WhatsAppReference string `json:"whatsappReference" validate:"max=128"`
}

// Paper2MarkRequest is a teacher's marking of a paper 2
type Paper2MarkRequest struct {
	EssayMarks       int    `json:"essayMarks" validate:"min=0,max=20"`
	ShortAnswerMarks []int  `json:"shortAnswerMarks" validate:"max=10,dive,min=0,max=2"`
	TeacherComments  string `json:"teacherComments" validate:"max=2000"`
}
