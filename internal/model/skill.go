package model

// Skill is a skill-area tag attached to every exam question
type Skill string

const (
	SkillMathematicalReasoning Skill = "mathematical_reasoning"
	SkillLanguageProficiency   Skill = "language_proficiency"
	SkillGeneralKnowledge      Skill = "general_knowledge"
	SkillComprehension         Skill = "comprehension_skills"
	SkillProblemSolving        Skill = "problem_solving"
	SkillLogicalThinking       Skill = "logical_thinking"
	SkillSpatialReasoning      Skill = "spatial_reasoning"
	SkillMemoryRecall          Skill = "memory_recall"
	SkillAnalytical            Skill = "analytical_skills"
	SkillCriticalThinking      Skill = "critical_thinking"
)

// AllSkills lists the recognized skill areas in display order
var AllSkills = []Skill{
	SkillMathematicalReasoning,
	SkillLanguageProficiency,
	SkillGeneralKnowledge,
	SkillComprehension,
	SkillProblemSolving,
	SkillLogicalThinking,
	SkillSpatialReasoning,
	SkillMemoryRecall,
	SkillAnalytical,
	SkillCriticalThinking,
}

// Valid reports whether s is one of the recognized skill areas
func (s Skill) Valid() bool {
	for _, known := range AllSkills {
		if s == known {
			return true
		}
	}
	return false
}
