package model

import "time"

type Role string

const (
	RoleStudent    Role = "student"
	RoleParent     Role = "parent"
	RoleTeacher    Role = "teacher"
	RoleTypesetter Role = "typesetter"
	RoleAdmin      Role = "admin"
)

type Grade string

const (
	Grade2 Grade = "grade_2"
	Grade3 Grade = "grade_3"
	Grade4 Grade = "grade_4"
	Grade5 Grade = "grade_5"
)

type Language string

const (
	LangEnglish Language = "en"
	LangSinhala Language = "si"
	LangTamil   Language = "ta"
)

// User is any account on the platform
type User struct {
	ID              string    `json:"id" bson:"_id"`
	Email           string    `json:"email" bson:"email"`
	PasswordHash    string    `json:"-" bson:"passwordHash"`
	FullName        string    `json:"fullName" bson:"fullName"`
	Role            Role      `json:"role" bson:"role"`
	Grade           Grade     `json:"grade,omitempty" bson:"grade,omitempty"`
	Language        Language  `json:"language" bson:"language"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ParentID        string    `json:"parentId,omitempty" bson:"parentId,omitempty"`
	LinkedStudentID string    `json:"linkedStudentId,omitempty" bson:"linkedStudentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// IsStaff reports whether the role may view any student's results
func (r Role) IsStaff() bool {
	return r == RoleTeacher || r == RoleAdmin
}
