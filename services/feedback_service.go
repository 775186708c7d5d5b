package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hassam391/stead-backend/models"
	"github.com/hassam391/stead-backend/store"
)

// Notifier forwards feedback to the team.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type FeedbackService struct {
	store    store.Store
	notifier Notifier
	to       string
	options
}

// NewFeedbackService stores feedback and, when notifier and to are set,
// emails each message.
func NewFeedbackService(st store.Store, notifier Notifier, to string, opts ...Option) *FeedbackService {
	return &FeedbackService{store: st, notifier: notifier, to: to, options: buildOptions(opts)}
}

func (s *FeedbackService) Submit(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return validation("Feedback cannot be empty.")
	}
	if utf8.RuneCountInString(message) > models.MaxFeedbackLength {
		return validation("Feedback must be 500 characters or fewer.")
	}

	f := &models.Feedback{Message: message, SubmittedAt: s.now().UTC()}
	if err := s.store.CreateFeedback(ctx, f); err != nil {
		return err
	}

	if s.notifier != nil && s.to != "" {
		if err := s.notifier.Send(ctx, s.to, "New Stead feedback", message); err != nil {
			s.log.WithError(err).WithField("feedback_id", f.ID).Warn("feedback notification failed")
		}
	}
	return nil
}
