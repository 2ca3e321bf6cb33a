// Package apperr normalizes every failure a screen can observe into one of
// four shapes: client-side validation, an unauthorized response, a server
// error carrying a detail message, or a transport failure with no response.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError blocks a submission before any request is made.
type ValidationError struct {
	Fields  map[string]string
	General string
}

func (e *ValidationError) Error() string {
	if e.General != "" {
		return e.General
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation returns a ValidationError for one field.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AuthError is a 401 response. By the time a caller sees it the session
// has already been cleared.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Detail
}

// ServerError is any other response with an error status.
type ServerError struct {
	Status int
	Detail string
	// Fields is set when the server answered with a location-keyed list.
	Fields map[string]string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error %d", e.Status)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Detail)
}

// TransportError means no response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is, or wraps, an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func AsServer(err error) (*ServerError, bool) {
	var se *ServerError
	ok := errors.As(err, &se)
	return se, ok
}

func AsTransport(err error) (*TransportError, bool) {
	var te *TransportError
	ok := errors.As(err, &te)
	return te, ok
}

// Messages shown in general error banners.
const (
	MsgTransport    = "Could not reach the server. Check your connection."
	MsgUnknown      = "Unknown error. Please try again."
	MsgServer       = "Server error. Please try again later."
	MsgAlreadyTaken = "You are already registered for this event."
)

// Message turns err into banner text. fallback is used for server errors
// that carry no detail.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if ve, ok := AsValidation(err); ok {
		if ve.General != "" {
			return ve.General
		}
		return "Please correct the highlighted fields."
	}
	if _, ok := AsTransport(err); ok {
		return MsgTransport
	}
	if se, ok := AsServer(err); ok {
		if se.Detail != "" {
			return se.Detail
		}
		if se.Status >= http.StatusInternalServerError {
			return MsgServer
		}
		if fallback != "" {
			return fallback
		}
		return fmt.Sprintf("Error %d", se.Status)
	}
	if IsAuth(err) {
		return "Your session has expired. Please sign in again."
	}
	if fallback != "" {
		return fallback
	}
	return MsgUnknown
}

// FieldErrors returns the per-field messages carried by a validation or
// server error, or nil.
func FieldErrors(err error) map[string]string {
	if ve, ok := AsValidation(err); ok {
		return ve.Fields
	}
	if se, ok := AsServer(err); ok {
		return se.Fields
	}
	return nil
}
