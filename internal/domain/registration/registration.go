package registration

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCheckedIn Status = "checked-in"
)

type Registration struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	TicketID  string    `json:"ticketId"`
	Status    Status    `json:"status"`
	PDFURL    *string   `json:"pdfUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Active registrations block a second registration for the same event.
func (r Registration) Active() bool {
	return r.Status != StatusCancelled
}

var (
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is full")
	ErrNotFound          = errors.New("registration not found")
)

type CreateRegistrationRequest struct {
	EventID string `json:"eventId" binding:"required,uuid"`
}

// NewTicketID composes the ticket identifier from the registering user, the
// event and the creation instant. The same string is the QR payload, so the
// scanner decodes straight back to it.
func NewTicketID(userID, eventID string, at time.Time) string {
	return fmt.Sprintf("%s-%s-%d", userID, eventID, at.UnixMilli())
}

// New builds a confirmed Registration for a (user, event) pair. pdfUrl stays
// unset until the ticket artifact has been written.
func New(userID, eventID string) Registration {
	now := time.Now().UTC()
	return Registration{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		TicketID:  NewTicketID(userID, eventID, now),
		Status:    StatusConfirmed,
		CreatedAt: now,
	}
}
