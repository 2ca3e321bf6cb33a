// Package forms declares the submitted forms and validates them with
// go-playground/validator before anything is sent to the API.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go-event-admin/apperr"
	"go-event-admin/models"
)

// InputLayout is the layout of a datetime-local input.
const InputLayout = "2006-01-02T15:04"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("event_status", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseEventStatus(fl.Field().String())
		return ok
	})
	v.RegisterStructValidation(eventTimes, EventForm{})
	v.RegisterStructValidation(newUserPassword, UserForm{})
	return v
}

// eventTimes requires the end to be strictly after the start. Unparsable
// values are left to the datetime tag.
func eventTimes(sl validator.StructLevel) {
	f := sl.Current().Interface().(EventForm)
	start, err1 := time.Parse(InputLayout, f.StartTime)
	end, err2 := time.Parse(InputLayout, f.EndTime)
	if err1 != nil || err2 != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(f.EndTime, "end_time", "EndTime", "after_start", "")
	}
}

// newUserPassword requires a password unless an existing user is edited.
func newUserPassword(sl validator.StructLevel) {
	f := sl.Current().Interface().(UserForm)
	if !f.Editing && f.Password == "" {
		sl.ReportError(f.Password, "password", "Password", "required", "")
	}
}

// Validate checks form and returns a *apperr.ValidationError keyed by
// form field name, or nil.
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate form: %w", err)
	}
	ve := &apperr.ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := ve.Fields[fe.Field()]; seen {
			continue
		}
		ve.Fields[fe.Field()] = message(fe)
	}
	return ve
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "role":
		return "Select a role."
	case "event_status":
		return "Select a valid status."
	case "datetime":
		return "Enter a valid date and time."
	case "after_start":
		return "End time must be after the start time."
	}
	return "Invalid value."
}
