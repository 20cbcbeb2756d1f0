package ticket

import (
	"bytes"
	"fmt"

	"github.com/geocoder89/eventpass/internal/domain/event"
	"github.com/geocoder89/eventpass/internal/domain/user"
	"github.com/go-pdf/fpdf"
)

const (
	pageWidthMM = 210.0 // A4 portrait
	qrSizeMM    = 60.0
)

// renderPDF writes a single-page ticket to path: a title banner, the event
// summary, the registrant, and the QR image embedded below.
func renderPDF(path string, ev event.Event, who user.Identity, qrPNG []byte) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "Event Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Event: "+ev.Title, "", 1, "L", false, 0, "")
	if ev.Location != "" {
		pdf.CellFormat(0, 8, "Location: "+ev.Location, "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, "Date: "+ev.StartAt.Format("Mon, 02 Jan 2006 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Registered by: %s (%s)", who.Name, who.Email), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", (pageWidthMM-qrSizeMM)/2, pdf.GetY(), qrSizeMM, qrSizeMM, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write ticket pdf: %w", err)
	}

	return nil
}
