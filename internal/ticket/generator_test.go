package ticket_test

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/domain/registration"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/geocoder89/eventpass/internal/ticket"
	"github.com/google/uuid"
)

func TestGeneratorWritesPDF(t *testing.T) {
	gen, err := ticket.NewGenerator(t.TempDir())

	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	now := time.Now().UTC()

	ev := event.Event{
		ID:       uuid.NewString(),
		Title:    "Hack Night",
		Location: "Main Hall",
		StartAt:  now.Add(24 * time.Hour),
		EndAt:    now.Add(27 * time.Hour),
		Capacity: 50,
	}

	reg := registration.New(uuid.NewString(), ev.ID)

	who := user.Identity{ID: reg.UserID, Email: "ada@example.com", Name: "Ada"}

	path, err := gen.Generate(context.Background(), reg, ev, who)

	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if want := gen.PathFor(reg.ID); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	data, err := os.ReadFile(path)

	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("artifact does not look like a PDF, starts with %q", data[:min(8, len(data))])
	}
}

func TestGeneratorCancelledContext(t *testing.T) {
	gen, err := ticket.NewGenerator(t.TempDir())

	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = gen.Generate(ctx, registration.New(uuid.NewString(), uuid.NewString()), event.Event{Title: "x"}, user.Identity{})

	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNewGeneratorRequiresRoot(t *testing.T) {
	if _, err := ticket.NewGenerator(""); err == nil {
		t.Fatal("expected error for empty root")
	}
}
