package forms

import (
	"strings"
	"time"

	"go-event-admin/models"
)

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type RegisterForm struct {
	Name            string `form:"name" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	Role            string `form:"role" validate:"required,role"`
}

// Input is the payload for auth/register.
func (f RegisterForm) Input() models.UserInput {
	role, _ := models.ParseRole(f.Role)
	return models.UserInput{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     role,
	}
}

// EventForm carries datetime-local strings; times are wall-clock UTC.
type EventForm struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	StartTime   string `form:"start_time" validate:"required,datetime=2006-01-02T15:04"`
	EndTime     string `form:"end_time" validate:"required,datetime=2006-01-02T15:04"`
	Place       string `form:"place"`
	Capacity    int    `form:"capacity" validate:"min=1"`
	Status      string `form:"status" validate:"omitempty,event_status"`
}

// EventFormFrom pre-fills the edit form.
func EventFormFrom(e models.Event) EventForm {
	return EventForm{
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime.InputValue(),
		EndTime:     e.EndTime.InputValue(),
		Place:       e.Place,
		Capacity:    e.Capacity,
		Status:      string(e.Status),
	}
}

// Input converts a validated form.
func (f EventForm) Input() models.EventInput {
	start, _ := time.Parse(InputLayout, f.StartTime)
	end, _ := time.Parse(InputLayout, f.EndTime)
	status, _ := models.ParseEventStatus(f.Status)
	return models.EventInput{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		StartTime:   models.Timestamp{Time: start},
		EndTime:     models.Timestamp{Time: end},
		Place:       strings.TrimSpace(f.Place),
		Capacity:    f.Capacity,
		Status:      status,
	}
}

// UserForm is shared by create and edit; Editing relaxes the password.
type UserForm struct {
	Name     string `form:"name" validate:"required,min=2"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	Role     string `form:"role" validate:"required,role"`
	Active   bool   `form:"active"`
	Editing  bool   `form:"-"`
}

func UserFormFrom(u models.User) UserForm {
	return UserForm{Name: u.Name, Email: u.Email, Role: string(u.Role), Active: u.Active, Editing: true}
}

// Input omits a blank password so an edit keeps the current one.
func (f UserForm) Input() models.UserInput {
	role, _ := models.ParseRole(f.Role)
	active := f.Active
	return models.UserInput{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     role,
		Active:   &active,
	}
}
