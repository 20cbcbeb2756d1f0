package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/eventpass/internal/domain/event"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateEventRequestValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		req     event.CreateEventRequest
		wantErr error
	}{
		{
			name: "valid",
			req: event.CreateEventRequest{
				Title:    "Hack Night",
				StartAt:  now,
				EndAt:    now.Add(3 * time.Hour),
				Capacity: 2,
			},
			wantErr: nil,
		},
		{
			name: "end_equals_start",
			req: event.CreateEventRequest{
				Title:    "Hack Night",
				StartAt:  now,
				EndAt:    now,
				Capacity: 2,
			},
			wantErr: event.ErrEndBeforeStart,
		},
		{
			name: "end_before_start",
			req: event.CreateEventRequest{
				Title:    "Hack Night",
				StartAt:  now,
				EndAt:    now.Add(-time.Hour),
				Capacity: 2,
			},
			wantErr: event.ErrEndBeforeStart,
		},
		{
			name: "zero_capacity",
			req: event.CreateEventRequest{
				Title:    "Hack Night",
				StartAt:  now,
				EndAt:    now.Add(time.Hour),
				Capacity: 0,
			},
			wantErr: event.ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got err %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewFromCreateRequestDefaultsOrganizer(t *testing.T) {
	now := time.Now().UTC()

	e := event.NewFromCreateRequest(event.CreateEventRequest{
		Title:    "Hack Night",
		StartAt:  now,
		EndAt:    now.Add(time.Hour),
		Capacity: 10,
	})

	if e.Organizer != event.DefaultOrganizer {
		t.Fatalf("organizer = %q, want %q", e.Organizer, event.DefaultOrganizer)
	}

	if e.SeatsBooked != 0 {
		t.Fatalf("seatsBooked = %d, want 0", e.SeatsBooked)
	}
}

func TestUpdateEventRequestApplyTo(t *testing.T) {
	now := time.Now().UTC()

	base := event.Event{
		ID:          "e1",
		Title:       "Hack Night",
		Location:    "Main Hall",
		Organizer:   "College Club",
		StartAt:     now,
		EndAt:       now.Add(2 * time.Hour),
		Capacity:    10,
		SeatsBooked: 3,
	}

	tests := []struct {
		name    string
		patch   event.UpdateEventRequest
		check   func(t *testing.T, got event.Event)
		wantErr error
	}{
		{
			name:  "partial_title_only",
			patch: event.UpdateEventRequest{Title: strPtr("Demo Day")},
			check: func(t *testing.T, got event.Event) {
				if got.Title != "Demo Day" {
					t.Fatalf("title = %q", got.Title)
				}
				if got.Location != "Main Hall" || got.Capacity != 10 {
					t.Fatalf("untouched fields changed: %+v", got)
				}
			},
		},
		{
			name:  "grow_capacity",
			patch: event.UpdateEventRequest{Capacity: intPtr(25)},
			check: func(t *testing.T, got event.Event) {
				if got.Capacity != 25 {
					t.Fatalf("capacity = %d", got.Capacity)
				}
				if got.SeatsBooked != 3 {
					t.Fatalf("seatsBooked = %d, want 3", got.SeatsBooked)
				}
			},
		},
		{
			name:    "end_moved_before_start",
			patch:   event.UpdateEventRequest{EndAt: timePtr(now.Add(-time.Minute))},
			wantErr: event.ErrEndBeforeStart,
		},
		{
			name:    "capacity_to_zero",
			patch:   event.UpdateEventRequest{Capacity: intPtr(0)},
			wantErr: event.ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.ApplyTo(base)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got err %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			tt.check(t, got)
		})
	}
}

func TestSeatsLeft(t *testing.T) {
	e := event.Event{Capacity: 5, SeatsBooked: 5}

	if got := e.SeatsLeft(); got != 0 {
		t.Fatalf("seatsLeft = %d, want 0", got)
	}
}
