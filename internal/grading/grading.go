// Package grading scores a paper 1 answer sheet against an exam's answer keys.
package grading

import (
	"math"
	"scholarprep/internal/model"
	"time"
)

// Issue reasons for questions that were excluded from grading
const (
	ReasonNoAnswerKey  = "no answer key"
	ReasonUnknownSkill = "unknown skill area"
)

// Issue describes a malformed question that scored zero
type Issue struct {
	QuestionKey string
	Reason      string
}

// Outcome is the result of grading one answer sheet
type Outcome struct {
	Score            int
	Possible         int
	SkillScores      map[model.Skill]int
	SkillPossible    map[model.Skill]int
	SkillPercentages map[model.Skill]float64
	Issues           []Issue
}

// Grade scores answers against questions. A missing answer counts as wrong.
// Questions without a usable answer key or with an unrecognized skill tag
// contribute nothing and are reported in Issues.
func Grade(questions []model.Question, answers map[string]string) Outcome {
	out := Outcome{
		SkillScores:      make(map[model.Skill]int),
		SkillPossible:    make(map[model.Skill]int),
		SkillPercentages: make(map[model.Skill]float64),
	}

	for i := range questions {
		q := &questions[i]
		qKey := q.Key()

		if !q.SkillArea.Valid() {
			out.Issues = append(out.Issues, Issue{QuestionKey: qKey, Reason: ReasonUnknownSkill})
			continue
		}
		key, ok := q.AnswerKey()
		if !ok {
			out.Issues = append(out.Issues, Issue{QuestionKey: qKey, Reason: ReasonNoAnswerKey})
			continue
		}

		points := q.Points()
		out.Possible += points
		out.SkillPossible[q.SkillArea] += points
		if _, seen := out.SkillScores[q.SkillArea]; !seen {
			out.SkillScores[q.SkillArea] = 0
		}

		if key.Matches(answers[qKey]) {
			out.Score += points
			out.SkillScores[q.SkillArea] += points
		}
	}

	for skill, possible := range out.SkillPossible {
		out.SkillPercentages[skill] = Percentage(out.SkillScores[skill], possible)
	}
	return out
}

// Percentage returns earned/possible*100 rounded to one decimal, or 0 when
// nothing was possible
func Percentage(earned, possible int) float64 {
	if possible <= 0 {
		return 0
	}
	return Round1(float64(earned) / float64(possible) * 100)
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ElapsedSeconds returns whole seconds between start and now, never negative
func ElapsedSeconds(start, now time.Time) int64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
