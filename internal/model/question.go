package model

import (
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Option is one selectable choice of a multiple-choice question
type Option struct {
	OptionID  string `json:"optionId" bson:"optionId"`
	Text      string `json:"text" bson:"text"`
	IsCorrect bool   `json:"isCorrect" bson:"isCorrect"`
}

// Options decodes both option encodings found in the exams collection:
// documents with an explicit ID, and bare strings from legacy rows. Bare
// strings get positional IDs "A", "B", "C"...
type Options []Option

func (o *Options) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null || t == bsontype.Undefined {
		*o = nil
		return nil
	}
	if t != bsontype.Array {
		return fmt.Errorf("options: unexpected bson type %s", t)
	}

	var elems []bson.RawValue
	if err := (bson.RawValue{Type: t, Value: data}).Unmarshal(&elems); err != nil {
		return err
	}

	out := make(Options, 0, len(elems))
	for i, elem := range elems {
		if text, ok := elem.StringValueOK(); ok {
			out = append(out, Option{OptionID: OptionLetter(i), Text: text})
			continue
		}
		var opt Option
		if err := elem.Unmarshal(&opt); err != nil {
			return fmt.Errorf("options[%d]: %w", i, err)
		}
		if opt.OptionID == "" {
			opt.OptionID = OptionLetter(i)
		}
		out = append(out, opt)
	}
	*o = out
	return nil
}

// OptionLetter returns the positional letter for the i-th option (0 -> "A")
func OptionLetter(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// Question is one auto-gradable question of paper 1
type Question struct {
	ID              string  `json:"id,omitempty" bson:"id,omitempty"`
	QuestionNumber  int     `json:"questionNumber" bson:"questionNumber"`
	QuestionText    string  `json:"questionText" bson:"questionText"`
	Options         Options `json:"options" bson:"options"`
	CorrectOptionID string  `json:"correctOptionId,omitempty" bson:"correctOptionId,omitempty"`
	CorrectAnswer   string  `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"` // legacy flat key
	SkillArea       Skill   `json:"skillArea" bson:"skillArea"`
	Marks           *int    `json:"marks,omitempty" bson:"marks,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}

// Key returns the identity answers are stored under: the explicit ID, or the
// question number for legacy rows that have none.
func (q *Question) Key() string {
	if q.ID != "" {
		return q.ID
	}
	return strconv.Itoa(q.QuestionNumber)
}

// Points returns the marks awarded for a correct answer (1 when unset)
func (q *Question) Points() int {
	if q.Marks == nil {
		return 1
	}
	return *q.Marks
}

// AnswerKeyKind tags which encoding an AnswerKey came from
type AnswerKeyKind string

const (
	AnswerKeyOptionSet  AnswerKeyKind = "option_set"
	AnswerKeyFlatAnswer AnswerKeyKind = "flat_answer"
)

// AnswerKey is the accepted correct value of a question
type AnswerKey struct {
	Kind  AnswerKeyKind
	Value string
}

// Matches compares a submitted answer by exact equality
func (k AnswerKey) Matches(answer string) bool {
	return answer != "" && answer == k.Value
}

// AnswerKey resolves the question's correct value. The explicit option ID
// wins, then a single option flagged correct, then the legacy flat answer.
// ok is false when the question carries no usable key.
func (q *Question) AnswerKey() (key AnswerKey, ok bool) {
	if q.CorrectOptionID != "" {
		return AnswerKey{Kind: AnswerKeyOptionSet, Value: q.CorrectOptionID}, true
	}

	flagged := ""
	count := 0
	for _, opt := range q.Options {
		if opt.IsCorrect {
			flagged = opt.OptionID
			count++
		}
	}
	if count == 1 {
		return AnswerKey{Kind: AnswerKeyOptionSet, Value: flagged}, true
	}

	if q.CorrectAnswer != "" {
		return AnswerKey{Kind: AnswerKeyFlatAnswer, Value: q.CorrectAnswer}, true
	}
	return AnswerKey{}, false
}

// QuestionView is a question as shown to a student taking the exam
type QuestionView struct {
	ID             string       `json:"id"`
	QuestionNumber int          `json:"questionNumber"`
	QuestionText   string       `json:"questionText"`
	Options        []OptionView `json:"options"`
	SkillArea      Skill        `json:"skillArea"`
	Marks          int          `json:"marks"`
	ImageURL       string       `json:"imageUrl,omitempty"`
}

type OptionView struct {
	OptionID string `json:"optionId"`
	Text     string `json:"text"`
}

// View strips every answer-key field
func (q *Question) View() QuestionView {
	opts := make([]OptionView, len(q.Options))
	for i, o := range q.Options {
		opts[i] = OptionView{OptionID: o.OptionID, Text: o.Text}
	}
	return QuestionView{
		ID:             q.Key(),
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.QuestionText,
		Options:        opts,
		SkillArea:      q.SkillArea,
		Marks:          q.Points(),
		ImageURL:       q.ImageURL,
	}
}
