package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"nil", nil, "x", ""},
		{"validation general", &ValidationError{General: "Email and password are required"}, "", "Email and password are required"},
		{"validation fields", NewValidation("email", "bad"), "", "Please correct the highlighted fields."},
		{"transport", &TransportError{Err: context.DeadlineExceeded}, "", MsgTransport},
		{"server detail", &ServerError{Status: 400, Detail: "El email ya está registrado"}, "", "El email ya está registrado"},
		{"server 5xx no detail", &ServerError{Status: 502}, "fallback", MsgServer},
		{"server 4xx fallback", &ServerError{Status: 404}, "Not found", "Not found"},
		{"server 4xx no fallback", &ServerError{Status: 418}, "", "Error 418"},
		{"auth", &AuthError{}, "", "Your session has expired. Please sign in again."},
		{"plain", errors.New("boom"), "", MsgUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err, tt.fallback))
		})
	}
}

func TestClassification_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("list events: %w", &AuthError{Detail: "expired"})
	assert.True(t, IsAuth(wrapped))

	te := &TransportError{Err: context.DeadlineExceeded}
	assert.ErrorIs(t, fmt.Errorf("call: %w", te), context.DeadlineExceeded)

	_, ok := AsServer(wrapped)
	assert.False(t, ok)
}

func TestFieldErrors(t *testing.T) {
	assert.Equal(t, map[string]string{"fecha_fin": "must be later"}, FieldErrors(NewValidation("fecha_fin", "must be later")))
	assert.Equal(t, map[string]string{"email": "taken"}, FieldErrors(&ServerError{Status: 422, Fields: map[string]string{"email": "taken"}}))
	assert.Nil(t, FieldErrors(&TransportError{Err: errors.New("dial")}))
}

func TestValidationError_ErrorIsStable(t *testing.T) {
	ve := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", ve.Error())
}
