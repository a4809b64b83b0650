package model

import "time"

// LearningLevel selects the tutor's teaching style
type LearningLevel string

const (
	LevelFoundation  LearningLevel = "foundation"
	LevelDevelopment LearningLevel = "development"
	LevelMastery     LearningLevel = "mastery"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole  `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// ChatSession is a short-lived AI tutor conversation
type ChatSession struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	LearningLevel LearningLevel `json:"learningLevel"`
	Language      Language      `json:"language"`
	Topic         string        `json:"topic,omitempty"`
	Messages      []ChatMessage `json:"messages"`
	CreatedAt     time.Time     `json:"createdAt"`
	LastActive    time.Time     `json:"lastActive"`
}

// StartChatRequest opens a tutor session
type StartChatRequest struct {
	LearningLevel LearningLevel `json:"learningLevel" validate:"required,oneof=foundation development mastery"`
	Language      Language      `json:"language" validate:"omitempty,oneof=en si ta"`
	Topic         string        `json:"topic" validate:"max=200"`
}

// ChatMessageRequest sends one message to the tutor
type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
