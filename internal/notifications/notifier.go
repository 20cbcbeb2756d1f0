package notifications

import "context"

// SendTicketInput is everything a notifier needs to mail a ticket: the
// recipient, an event summary for the message body, and the artifact to
// attach. AttachmentPath may be empty when artifact generation failed; the
// notifier then sends the confirmation without an attachment.
type SendTicketInput struct {
	Email          string
	Name           string
	EventTitle     string
	EventLocation  string
	EventStartAt   string
	RegistrationID string
	TicketID       string
	AttachmentPath string
}

// Notifier delivers a ticket to its registrant. Implementations are
// best-effort: the registration pipeline logs failures and moves on.
type Notifier interface {
	SendTicket(ctx context.Context, input SendTicketInput) error
}
