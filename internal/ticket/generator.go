// Package ticket derives ticket artifacts: a PDF per registration with the
// ticketId embedded as a scannable QR code.
package ticket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/domain/registration"
	"github.com/geocoder89/eventpass/internal/domain/user"
)

// Generator writes ticket PDFs under a configured storage root. Paths are
// partitioned by registration id, so concurrent generations never contend
// for the same file.
type Generator struct {
	root string
}

func NewGenerator(root string) (*Generator, error) {
	if root == "" {
		return nil, fmt.Errorf("ticket generator: storage root is required")
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("ticket generator: create storage root: %w", err)
	}

	return &Generator{root: root}, nil
}

// PathFor is where the artifact for a registration lives; it doubles as the
// registration's pdfUrl.
func (g *Generator) PathFor(registrationID string) string {
	return filepath.Join(g.root, "ticket_"+registrationID+".pdf")
}

// Generate renders the ticket and returns the artifact path. QR encoding
// failure fails the whole artifact; the caller decides what that means for
// the surrounding registration (it must not fail it).
func (g *Generator) Generate(ctx context.Context, reg registration.Registration, ev event.Event, who user.Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	qrPNG, err := EncodeQR(reg.TicketID)

	if err != nil {
		return "", err
	}

	path := g.PathFor(reg.ID)

	if err := renderPDF(path, ev, who, qrPNG); err != nil {
		return "", err
	}

	return path, nil
}
