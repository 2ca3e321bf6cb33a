// Package crud is the list-plus-forms interaction shared by the event and
// user screens: fetch a list, validate and submit create/edit forms with
// a full refetch afterwards, and delete after explicit confirmation.
package crud

import (
	"context"

	"go-event-admin/apperr"
	"go-event-admin/logger"
)

// Identifiable is a listed item.
type Identifiable interface {
	GetID() int
}

// Resource is the REST collection behind a screen.
type Resource[T Identifiable, I any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, in I) (T, error)
	Update(ctx context.Context, id int, in I) (T, error)
	Delete(ctx context.Context, id int) error
}

// Form is a submitted form that converts to the resource's input.
type Form[I any] interface {
	Input() I
}

// ValidateFunc checks a form before anything is sent.
type ValidateFunc func(form interface{}) error

// Screen holds one request's view of a resource list.
type Screen[T Identifiable, I any] struct {
	name     string
	resource Resource[T, I]
	validate ValidateFunc
	// fieldNames maps server field names to form field names.
	fieldNames map[string]string
	items      []T
}

// NewScreen builds a screen named name (used in logs).
func NewScreen[T Identifiable, I any](name string, r Resource[T, I], validate ValidateFunc) *Screen[T, I] {
	return &Screen[T, I]{name: name, resource: r, validate: validate}
}

// MapFields translates server-side field names in error lists.
func (s *Screen[T, I]) MapFields(m map[string]string) *Screen[T, I] {
	s.fieldNames = m
	return s
}

func (s *Screen[T, I]) Items() []T { return s.items }

// Find returns the loaded item with id.
func (s *Screen[T, I]) Find(id int) (T, bool) {
	for _, it := range s.items {
		if it.GetID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Load refetches the list. A failure empties the list and is only
// logged, except an unauthorized response which the caller must act on.
func (s *Screen[T, I]) Load(ctx context.Context) error {
	items, err := s.resource.List(ctx)
	if err != nil {
		s.items = nil
		logger.Error.Printf("[%s] loading list failed: %v", s.name, err)
		if apperr.IsAuth(err) {
			return err
		}
		return nil
	}
	s.items = items
	logger.Debug.Printf("[%s] loaded %d items", s.name, len(items))
	return nil
}

// Create validates form, submits it and refetches the list.
func (s *Screen[T, I]) Create(ctx context.Context, form Form[I]) error {
	if err := s.validate(form); err != nil {
		return err
	}
	if _, err := s.resource.Create(ctx, form.Input()); err != nil {
		logger.Warn.Printf("[%s] create failed: %v", s.name, err)
		return s.fieldErrors(err)
	}
	logger.Info.Printf("[%s] created", s.name)
	return s.Load(ctx)
}

// Update validates form, submits it for id and refetches the list.
func (s *Screen[T, I]) Update(ctx context.Context, id int, form Form[I]) error {
	if err := s.validate(form); err != nil {
		return err
	}
	if _, err := s.resource.Update(ctx, id, form.Input()); err != nil {
		logger.Warn.Printf("[%s] update of %d failed: %v", s.name, id, err)
		return s.fieldErrors(err)
	}
	logger.Info.Printf("[%s] updated %d", s.name, id)
	return s.Load(ctx)
}

// Delete removes id once confirmed. Nothing is sent without confirmation.
// On success the item is dropped locally; on failure it stays.
func (s *Screen[T, I]) Delete(ctx context.Context, id int, confirmed bool) (bool, error) {
	if !confirmed {
		return false, nil
	}
	if err := s.resource.Delete(ctx, id); err != nil {
		logger.Error.Printf("[%s] delete of %d failed: %v", s.name, id, err)
		return false, err
	}
	kept := s.items[:0]
	for _, it := range s.items {
		if it.GetID() != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	logger.Info.Printf("[%s] deleted %d", s.name, id)
	return true, nil
}

// fieldErrors turns a server error that names fields into a validation
// error keyed by form field names.
func (s *Screen[T, I]) fieldErrors(err error) error {
	se, ok := apperr.AsServer(err)
	if !ok || len(se.Fields) == 0 {
		return err
	}
	ve := &apperr.ValidationError{Fields: make(map[string]string, len(se.Fields))}
	for k, msg := range se.Fields {
		if mapped, ok := s.fieldNames[k]; ok {
			k = mapped
		}
		ve.Fields[k] = msg
	}
	return ve
}
