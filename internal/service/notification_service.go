package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/mail"
	"scholarprep/internal/i18n"
	"scholarprep/internal/model"
	"scholarprep/internal/notify"
	"scholarprep/internal/repository"
	"strings"
)

// Realtime message types
const (
	MsgAttemptSubmitted = "attempt_submitted"
	MsgPaper2Marked     = "paper2_marked"
)

// EventPublisher emits domain events to other services
type EventPublisher interface {
	PublishAttemptSubmitted(ctx context.Context, attempt *model.Attempt, result *model.SubmitResult) error
	PublishPaper2Marked(ctx context.Context, sub *model.Paper2Submission) error
}

// NotificationService fans a graded attempt or marked paper 2 out to
// websockets, the event bus and the parent's inbox
type NotificationService struct {
	userRepo    repository.UserRepo
	broadcaster Broadcaster
	publisher   EventPublisher
	mailer      notify.Mailer
}

// NewNotificationService creates a new notification service. Any of
// broadcaster, publisher and mailer may be nil.
func NewNotificationService(userRepo repository.UserRepo, broadcaster Broadcaster, publisher EventPublisher, mailer notify.Mailer) *NotificationService {
	return &NotificationService{
		userRepo:    userRepo,
		broadcaster: broadcaster,
		publisher:   publisher,
		mailer:      mailer,
	}
}

// OnAttemptSubmitted implements SubmissionListener
func (s *NotificationService) OnAttemptSubmitted(ctx context.Context, attempt *model.Attempt, exam *model.Exam, result *model.SubmitResult) error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.PublishAttemptSubmitted(ctx, attempt, result); err != nil {
			errs = append(errs, err)
		}
	}

	student, err := s.userRepo.GetByID(ctx, attempt.StudentID)
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("failed to get student: %w", err))...)
	}

	if s.broadcaster != nil {
		s.broadcaster.NotifyUser(attempt.StudentID, MsgAttemptSubmitted, result)
		if student != nil && student.ParentID != "" {
			s.broadcaster.NotifyUser(student.ParentID, MsgAttemptSubmitted, result)
		}
	}

	if s.mailer != nil && student != nil && student.ParentID != "" {
		if err := s.emailParent(ctx, student, exam, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) emailParent(ctx context.Context, student *model.User, exam *model.Exam, result *model.SubmitResult) error {
	parent, err := s.userRepo.GetByID(ctx, student.ParentID)
	if err != nil {
		return fmt.Errorf("failed to get parent: %w", err)
	}
	if parent == nil || parent.Email == "" {
		return nil
	}

	title := ""
	if exam != nil {
		title = exam.Title
	}
	msg := ResultEmail(ctx, parent, student.FullName, title, result)
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to email parent: %w", err)
	}
	slog.Info("result emailed to parent", "parentId", parent.ID, "studentId", student.ID)
	return nil
}

// ResultEmail renders the result e-mail in the recipient's language
func ResultEmail(ctx context.Context, to *model.User, studentName, examTitle string, result *model.SubmitResult) *notify.Message {
	ctx = i18n.WithLocalizer(ctx, i18n.NewLocalizer(string(to.Language), string(model.LangEnglish)))
	data := map[string]any{
		"StudentName": studentName,
		"ExamTitle":   examTitle,
		"Score":       result.Score,
		"Total":       result.Total,
		"Percentage":  result.Percentage,
	}

	var text, htm strings.Builder
	greeting := i18n.T(ctx, "ResultEmailGreeting")
	body := i18n.Td(ctx, "ResultEmailBody", data)
	skills := i18n.T(ctx, "ResultEmailSkills")
	footer := i18n.T(ctx, "ResultEmailFooter")

	fmt.Fprintf(&text, "%s\n\n%s\n\n%s\n", greeting, body, skills)
	fmt.Fprintf(&htm, "<p>%s</p><p>%s</p><p>%s</p><ul>", html.EscapeString(greeting), html.EscapeString(body), html.EscapeString(skills))
	for _, skill := range sortedSkills(result.SkillPercentages) {
		pct := result.SkillPercentages[skill]
		fmt.Fprintf(&text, "- %s: %.1f%%\n", skill, pct)
		fmt.Fprintf(&htm, "<li>%s: %.1f%%</li>", html.EscapeString(string(skill)), pct)
	}
	fmt.Fprintf(&text, "\n%s\n", footer)
	fmt.Fprintf(&htm, "</ul><p>%s</p>", html.EscapeString(footer))

	return &notify.Message{
		To:          []mail.Address{{Name: to.FullName, Address: to.Email}},
		Subject:     i18n.Td(ctx, "ResultEmailSubject", data),
		TextContent: text.String(),
		HTMLContent: htm.String(),
	}
}

// OnPaper2Marked implements Paper2Listener
func (s *NotificationService) OnPaper2Marked(ctx context.Context, sub *model.Paper2Submission, exam *model.Exam) error {
	if s.broadcaster != nil {
		s.broadcaster.NotifyUser(sub.StudentID, MsgPaper2Marked, sub)
	}
	if s.publisher != nil {
		return s.publisher.PublishPaper2Marked(ctx, sub)
	}
	return nil
}
