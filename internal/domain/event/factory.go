package event

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a fresh Event from the incoming DTO. The
// request is assumed to have passed Validate().
func NewFromCreateRequest(req CreateEventRequest) Event {
	now := time.Now().UTC()

	organizer := req.Organizer
	if organizer == "" {
		organizer = DefaultOrganizer
	}

	return Event{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Organizer:   organizer,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Capacity:    req.Capacity,
		SeatsBooked: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
