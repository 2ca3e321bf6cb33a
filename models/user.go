// Package models defines data structures exchanged with the event-management API.
// File: models/user.go
package models

import "strings"

// ----------------------- roles -----------------------

// Role is the fixed user role enumeration of the backend.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleOrganizer Role = "Organizador"
	RoleAttendee  Role = "Asistente"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleOrganizer, RoleAttendee}

// Label is the human-readable role name.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleOrganizer:
		return "Organizer"
	case RoleAttendee:
		return "Attendee"
	}
	return string(r)
}

// ParseRole accepts the backend value or its upper-case key (ADMIN,
// ORGANIZADOR, ASISTENTE).
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// ----------------------- user model -----------------------

// User is a profile as returned by the backend.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"nombre"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"is_active"`
}

// GetID satisfies crud.Identifiable.
func (u User) GetID() int { return u.ID }

// DisplayName falls back to the email when no name is set.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// UserInput is the create/update payload. Password is omitted on edits
// that leave it blank.
type UserInput struct {
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	Active   *bool  `json:"is_active,omitempty"`
}

// ---------------------- auth payloads ----------------------

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
