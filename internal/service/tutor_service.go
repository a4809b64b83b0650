package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"scholarprep/internal/cache"
	"scholarprep/internal/config"
	"scholarprep/internal/model"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the slice of the OpenAI client the tutor needs
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a client for any OpenAI-compatible endpoint
func NewOpenAIClient(cfg *config.AIConfig) *openai.Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(c)
}

var levelPrompts = map[model.LearningLevel]string{
	model.LevelFoundation: "You are a patient tutor for a young primary school student preparing for the " +
		"Grade 5 scholarship exam. Use very simple words and short sentences. Explain one step at a time " +
		"with everyday examples, and praise effort.",
	model.LevelDevelopment: "You are a friendly tutor for a primary school student preparing for the " +
		"Grade 5 scholarship exam. Guide the student to the answer with hints and questions before " +
		"giving it away, and point out common mistakes.",
	model.LevelMastery: "You are a demanding tutor for a strong student preparing for the Grade 5 " +
		"scholarship exam. Offer harder variations and shortcuts, ask the student to explain their " +
		"reasoning, and keep answers concise.",
}

var languageNames = map[model.Language]string{
	model.LangEnglish: "English",
	model.LangSinhala: "Sinhala",
	model.LangTamil:   "Tamil",
}

// TutorService runs short AI tutor conversations kept in Redis
type TutorService struct {
	client   ChatCompleter
	sessions cache.ChatSessionCache
	cfg      *config.AIConfig
	now      func() time.Time
}

// NewTutorService creates a new tutor service. A nil client disables the tutor.
func NewTutorService(client ChatCompleter, sessions cache.ChatSessionCache, cfg *config.AIConfig) *TutorService {
	return &TutorService{
		client:   client,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *TutorService) enabled() bool {
	return s.client != nil && s.cfg.IsEnabled()
}

// Start opens a session for the user
func (s *TutorService) Start(ctx context.Context, userID string, req *model.StartChatRequest) (*model.ChatSession, error) {
	if !s.enabled() {
		return nil, ErrTutorDisabled
	}
	lang := req.Language
	if lang == "" {
		lang = model.LangEnglish
	}
	now := s.now().UTC()
	session := &model.ChatSession{
		ID:            uuid.New().String(),
		UserID:        userID,
		LearningLevel: req.LearningLevel,
		Language:      lang,
		Topic:         req.Topic,
		Messages:      []model.ChatMessage{},
		CreatedAt:     now,
		LastActive:    now,
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save chat session: %w", err)
	}
	slog.Info("tutor session started", "sessionId", session.ID, "userId", userID, "level", session.LearningLevel)
	return session, nil
}

// Send appends the user's message, asks the model and stores its reply
func (s *TutorService) Send(ctx context.Context, userID, sessionID, message string) (*model.ChatMessage, error) {
	if !s.enabled() {
		return nil, ErrTutorDisabled
	}
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session.Messages = append(session.Messages, model.ChatMessage{Role: model.ChatRoleUser, Content: message, At: now})

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout())
	defer cancel()
	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    BuildChatMessages(session, s.cfg.MaxHistory),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("tutor API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("tutor returned no choices")
	}

	reply := model.ChatMessage{
		Role:    model.ChatRoleAssistant,
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		At:      s.now().UTC(),
	}
	session.Messages = append(session.Messages, reply)
	session.LastActive = reply.At
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save chat session: %w", err)
	}
	return &reply, nil
}

// History returns the session with all its messages
func (s *TutorService) History(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	return s.owned(ctx, userID, sessionID)
}

// End deletes the session
func (s *TutorService) End(ctx context.Context, userID, sessionID string) error {
	if _, err := s.owned(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

func (s *TutorService) owned(ctx context.Context, userID, sessionID string) (*model.ChatSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	if session == nil || session.UserID != userID {
		return nil, fmt.Errorf("chat session %s: %w", sessionID, ErrNotFound)
	}
	return session, nil
}

// SystemPrompt describes the tutor persona for a session
func SystemPrompt(session *model.ChatSession) string {
	prompt, ok := levelPrompts[session.LearningLevel]
	if !ok {
		prompt = levelPrompts[model.LevelDevelopment]
	}
	var b strings.Builder
	b.WriteString(prompt)
	if name, ok := languageNames[session.Language]; ok && session.Language != model.LangEnglish {
		fmt.Fprintf(&b, " Reply in %s.", name)
	}
	if session.Topic != "" {
		fmt.Fprintf(&b, " The student wants help with: %s.", session.Topic)
	}
	return b.String()
}

// BuildChatMessages converts the session into a chat request, keeping at most
// maxHistory of the latest messages after the system prompt
func BuildChatMessages(session *model.ChatSession, maxHistory int) []openai.ChatCompletionMessage {
	history := session.Messages
	if maxHistory > 0 && len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(session)})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == model.ChatRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return msgs
}
