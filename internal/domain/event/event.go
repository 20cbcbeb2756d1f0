package event

import (
	"errors"
	"time"
)

const DefaultOrganizer = "College Club"

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Organizer   string    `json:"organizer"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Capacity    int       `json:"capacity"`
	SeatsBooked int       `json:"seatsBooked"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SeatsLeft is derived, never stored.
func (e Event) SeatsLeft() int {
	return e.Capacity - e.SeatsBooked
}

var ErrNotFound = errors.New("event not found")

// cross-field validation failures on create/update.
var (
	ErrEndBeforeStart  = errors.New("endAt must be after startAt")
	ErrInvalidCapacity = errors.New("capacity must be a positive number")
)

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=120"`
	Description string    `json:"description" binding:"omitempty,max=1000"`
	Location    string    `json:"location" binding:"omitempty,max=200"`
	Organizer   string    `json:"organizer" binding:"omitempty,min=2,max=120"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	Capacity    int       `json:"capacity" binding:"required,min=1,max=50000"`
}

// Validate covers the rules binding tags cannot express.
func (r CreateEventRequest) Validate() error {
	if !r.EndAt.After(r.StartAt) {
		return ErrEndBeforeStart
	}
	if r.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

// Partial update: nil means "leave as is".
type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	Organizer   *string    `json:"organizer" binding:"omitempty,min=2,max=120"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1,max=50000"`
}

// ApplyTo merges the patch into a snapshot and re-validates the result, so a
// partial update can never leave an event with endAt <= startAt or a
// non-positive capacity.
func (r UpdateEventRequest) ApplyTo(e Event) (Event, error) {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.Location != nil {
		e.Location = *r.Location
	}
	if r.Organizer != nil {
		e.Organizer = *r.Organizer
	}
	if r.StartAt != nil {
		e.StartAt = *r.StartAt
	}
	if r.EndAt != nil {
		e.EndAt = *r.EndAt
	}
	if r.Capacity != nil {
		e.Capacity = *r.Capacity
	}

	if !e.EndAt.After(e.StartAt) {
		return Event{}, ErrEndBeforeStart
	}
	if e.Capacity <= 0 {
		return Event{}, ErrInvalidCapacity
	}

	return e, nil
}
