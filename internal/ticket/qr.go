package ticket

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrPixels = 256

// EncodeQR renders the payload as a PNG QR code. The payload is the raw
// ticketId string; a scanner decodes exactly that string back.
func EncodeQR(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("encode qr: empty payload")
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrPixels)

	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return png, nil
}
