package ports

import "context"

// Email is a fully rendered message ready to hand to a transport.
type Email struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer delivers a single email. Implementations own retry and transport
// concerns; callers treat a returned error as a delivery failure.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
