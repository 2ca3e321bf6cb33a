// services/qrcode_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can swap it.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// EventURL is the public address of an event's detail page.
func EventURL(publicURL string, eventID int) string {
	return fmt.Sprintf("%s/events/%d", strings.TrimRight(publicURL, "/"), eventID)
}

// GenerateEventQRCode renders a PNG QR code pointing at the event's page.
func GenerateEventQRCode(publicURL string, eventID, size int, encode QREncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.New("invalid size: must be positive")
	}
	if encode == nil {
		encode = qrcode.Encode
	}
	png, err := encode(EventURL(publicURL, eventID), qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
