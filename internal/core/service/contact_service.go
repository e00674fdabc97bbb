package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/coursin/marketing-api/internal/core/domain"
	"github.com/coursin/marketing-api/internal/core/ports"
)

// EmailRenderer turns a contact submission into ready-to-send emails.
type EmailRenderer interface {
	AdminNotification(msg domain.ContactMessage) (ports.Email, error)
	UserConfirmation(msg domain.ContactMessage) (ports.Email, error)
}

// EmailDispatcher hands rendered emails to the async delivery workers.
type EmailDispatcher interface {
	Enqueue(email ports.Email)
}

// ContactService renders and enqueues the emails for an accepted contact
// submission. Admission control and validation happen before Submit is
// called; delivery itself is asynchronous.
type ContactService struct {
	renderer   EmailRenderer
	dispatcher EmailDispatcher
	log        zerolog.Logger
}

func NewContactService(renderer EmailRenderer, dispatcher EmailDispatcher, log zerolog.Logger) *ContactService {
	return &ContactService{renderer: renderer, dispatcher: dispatcher, log: log}
}

// Submit queues the admin notification and, when the submitter subscribed,
// a confirmation email. A render failure aborts the whole submission.
func (s *ContactService) Submit(_ context.Context, msg domain.ContactMessage) error {
	admin, err := s.renderer.AdminNotification(msg)
	if err != nil {
		return err
	}

	var confirmation *ports.Email
	if msg.Subscribe {
		c, err := s.renderer.UserConfirmation(msg)
		if err != nil {
			return err
		}
		confirmation = &c
	}

	s.dispatcher.Enqueue(admin)
	if confirmation != nil {
		s.dispatcher.Enqueue(*confirmation)
	}

	s.log.Info().
		Str("from", msg.Email).
		Bool("subscribe", msg.Subscribe).
		Msg("contact submission queued")
	return nil
}
