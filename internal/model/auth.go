package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for an authenticated user. Subject holds the user ID.
type UserClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	FullName        string   `json:"fullName" validate:"required,max=120"`
	Role            Role     `json:"role" validate:"required,oneof=student parent teacher typesetter"`
	Grade           Grade    `json:"grade" validate:"omitempty,oneof=grade_2 grade_3 grade_4 grade_5"`
	Language        Language `json:"language" validate:"omitempty,oneof=en si ta"`
	Phone           string   `json:"phone" validate:"omitempty,max=32"`
	LinkedStudentID string   `json:"linkedStudentId" validate:"omitempty,uuid"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
