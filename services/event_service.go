// file: services/event_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go-event-admin/apperr"
	"go-event-admin/models"
)

// ErrAlreadyRegistered wraps the server error for a repeated registration.
var ErrAlreadyRegistered = errors.New(apperr.MsgAlreadyTaken)

// ListQuery narrows an event listing. Zero values are not sent.
type ListQuery struct {
	Search string
	Skip   int
	Limit  int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

type EventService struct {
	api   API
	query ListQuery
}

func NewEventService(api API) *EventService {
	return &EventService{api: api}
}

// Filtered returns a copy whose List applies q.
func (s *EventService) Filtered(q ListQuery) *EventService {
	return &EventService{api: s.api, query: q}
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	var out []models.Event
	if err := s.api.Get(ctx, "events", s.query.values(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *EventService) Get(ctx context.Context, id int) (models.Event, error) {
	var out models.Event
	err := s.api.Get(ctx, fmt.Sprintf("events/%d", id), nil, &out)
	return out, err
}

func (s *EventService) Create(ctx context.Context, in models.EventInput) (models.Event, error) {
	var out models.Event
	err := s.api.Post(ctx, "events/registrar", in, &out)
	return out, err
}

func (s *EventService) Update(ctx context.Context, id int, in models.EventInput) (models.Event, error) {
	var out models.Event
	err := s.api.Put(ctx, fmt.Sprintf("events/actualizar/%d", id), in, &out)
	return out, err
}

func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.api.Delete(ctx, fmt.Sprintf("events/eliminar/%d", id), nil)
}

// Register signs the current user up for event id. A conflict, or the
// backend's "already registered" 400, is reported as ErrAlreadyRegistered.
func (s *EventService) Register(ctx context.Context, id int) (models.Registration, error) {
	var out models.Registration
	err := s.api.Post(ctx, fmt.Sprintf("events/registro/evento/%d", id), nil, &out)
	if err == nil {
		return out, nil
	}
	if se, ok := apperr.AsServer(err); ok {
		if se.Status == http.StatusConflict ||
			(se.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(se.Detail), "registrad")) {
			return out, fmt.Errorf("%w: %v", ErrAlreadyRegistered, err)
		}
	}
	return out, err
}
