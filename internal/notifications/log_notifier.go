package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier stands in when outbound email is disabled (EMAIL_DISABLE):
// it records the would-be delivery and always succeeds.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendTicket(ctx context.Context, in SendTicketInput) error {
	n.log.InfoContext(ctx, "notification.ticket_delivery_skipped",
		"email", in.Email,
		"name", in.Name,
		"event", in.EventTitle,
		"registration", in.RegistrationID,
		"attachment", in.AttachmentPath,
	)
	return nil
}
