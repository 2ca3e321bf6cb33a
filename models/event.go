// File: models/event.go
package models

import (
	"strconv"
	"strings"
)

// ----------------------- event status -----------------------

// EventStatus uses the backend enumeration values as the canonical set.
type EventStatus string

const (
	StatusPending    EventStatus = "Pendiente"
	StatusInProgress EventStatus = "En curso"
	StatusCancelled  EventStatus = "Cancelado"
	StatusFinished   EventStatus = "Finalizado"
)

// EventStatuses lists the canonical statuses in display order.
var EventStatuses = []EventStatus{StatusPending, StatusInProgress, StatusCancelled, StatusFinished}

// statusAliases maps the upper-case key spellings seen in older payloads.
var statusAliases = map[string]EventStatus{
	"PENDIENTE":  StatusPending,
	"ACTIVO":     StatusInProgress,
	"EN_CURSO":   StatusInProgress,
	"EN CURSO":   StatusInProgress,
	"CANCELADO":  StatusCancelled,
	"FINALIZADO": StatusFinished,
}

// ParseEventStatus normalizes s to a canonical status.
func ParseEventStatus(s string) (EventStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range EventStatuses {
		if s == string(st) {
			return st, true
		}
	}
	st, ok := statusAliases[strings.ToUpper(s)]
	return st, ok
}

// Label is the display text; unknown values show as "Desconocido".
func (s EventStatus) Label() string {
	if st, ok := ParseEventStatus(string(s)); ok {
		return string(st)
	}
	if s == "" {
		return "Desconocido"
	}
	return string(s)
}

// BadgeClass is the CSS class used for the status badge.
func (s EventStatus) BadgeClass() string {
	st, _ := ParseEventStatus(string(s))
	switch st {
	case StatusPending:
		return "badge-pending"
	case StatusInProgress:
		return "badge-active"
	case StatusCancelled:
		return "badge-cancelled"
	}
	return "badge-finished"
}

// ----------------------- event model -----------------------

// Creator is the reduced user embedded in event payloads.
type Creator struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// EventSession is one talk inside an event, present in the detail payload.
type EventSession struct {
	ID          int       `json:"id"`
	Title       string    `json:"titulo"`
	Description string    `json:"descripcion"`
	StartTime   Timestamp `json:"fecha_inicio"`
	EndTime     Timestamp `json:"fecha_fin"`
	Speaker     string    `json:"nombre_orador"`
}

// Event is an event as returned by the backend.
type Event struct {
	ID          int            `json:"id"`
	Title       string         `json:"titulo"`
	Description string         `json:"descripcion"`
	StartTime   Timestamp      `json:"fecha_inicio"`
	EndTime     Timestamp      `json:"fecha_fin"`
	Place       string         `json:"lugar"`
	Capacity    int            `json:"capacidad"`
	Registered  int            `json:"registrado"`
	Status      EventStatus    `json:"estado"`
	Creator     *Creator       `json:"creador,omitempty"`
	CreatorID   int            `json:"creador_id,omitempty"`
	Created     Timestamp      `json:"creado"`
	Modified    Timestamp      `json:"modificado"`
	Sessions    []EventSession `json:"sesiones,omitempty"`
}

// GetID satisfies crud.Identifiable.
func (e Event) GetID() int { return e.ID }

// CreatorName prefers the embedded creator, then the raw id.
func (e Event) CreatorName() string {
	if e.Creator != nil && e.Creator.Name != "" {
		return e.Creator.Name
	}
	if e.CreatorID != 0 {
		return "#" + strconv.Itoa(e.CreatorID)
	}
	return "N/A"
}

// FillPercent is registered/capacity capped at 100.
func (e Event) FillPercent() int {
	if e.Capacity <= 0 {
		return 0
	}
	p := e.Registered * 100 / e.Capacity
	if p > 100 {
		return 100
	}
	return p
}

// EventInput carries the editable fields of an event.
type EventInput struct {
	Title       string      `json:"titulo"`
	Description string      `json:"descripcion"`
	StartTime   Timestamp   `json:"fecha_inicio"`
	EndTime     Timestamp   `json:"fecha_fin"`
	Place       string      `json:"lugar,omitempty"`
	Capacity    int         `json:"capacidad"`
	Status      EventStatus `json:"estado,omitempty"`
}

// Registration is the response to registering for an event.
type Registration struct {
	ID           int       `json:"id"`
	User         *Creator  `json:"user,omitempty"`
	RegisteredAt Timestamp `json:"registrado_en"`
	Confirmed    bool      `json:"confirmado"`
}
