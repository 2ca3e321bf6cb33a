// file: services/qrcode_service_test.go
package services

import (
	"errors"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
)

// Mock encoder function (successful)
func mockQRCodeEncoderSuccess(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return []byte("qr:" + content), nil
}

// Mock encoder function (failure)
func mockQRCodeEncoderFailure(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return nil, errors.New("QR code generation failed")
}

func TestGenerateEventQRCode_Success(t *testing.T) {
	data, err := GenerateEventQRCode("http://admin.local/", 5, 200, mockQRCodeEncoderSuccess)

	assert.NoError(t, err)
	assert.Equal(t, "qr:http://admin.local/events/5", string(data))
}

func TestGenerateEventQRCode_InvalidSize(t *testing.T) {
	data, err := GenerateEventQRCode("http://admin.local", 5, -100, mockQRCodeEncoderSuccess)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "invalid size: must be positive", err.Error())
}

func TestGenerateEventQRCode_EncoderFails(t *testing.T) {
	data, err := GenerateEventQRCode("http://admin.local", 5, 200, mockQRCodeEncoderFailure)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "QR code generation failed", err.Error())
}

func TestGenerateEventQRCode_RealEncoder(t *testing.T) {
	data, err := GenerateEventQRCode("http://admin.local", 1, 128, nil)

	assert.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}
