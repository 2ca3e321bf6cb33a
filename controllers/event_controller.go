// file: controllers/event_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go-event-admin/apperr"
	"go-event-admin/crud"
	"go-event-admin/forms"
	"go-event-admin/gateway"
	"go-event-admin/logger"
	"go-event-admin/middleware"
	"go-event-admin/models"
	"go-event-admin/services"
	"go-event-admin/session"
	"go-event-admin/websocket"
)

// eventFields maps the API's field names to the form's.
var eventFields = map[string]string{
	"titulo":       "title",
	"descripcion":  "description",
	"fecha_inicio": "start_time",
	"fecha_fin":    "end_time",
	"lugar":        "place",
	"capacidad":    "capacity",
	"estado":       "status",
}

const qrCodeSize = 256

// eventBindError reports a form that could not be bound. Capacity is the
// only non-string field of forms.EventForm, so a number parse failure
// belongs to it.
func eventBindError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return apperr.NewValidation("capacity", "Enter a whole number.")
	}
	return &apperr.ValidationError{General: "The form could not be read."}
}

// ---------------- Event Controller ----------------

// EventController serves the event screens.
type EventController struct {
	Gateway   *gateway.Client
	Messenger websocket.Messenger
	PublicURL string
}

func NewEventController(gw *gateway.Client, m websocket.Messenger, publicURL string) *EventController {
	if m == nil {
		m = websocket.NopMessenger{}
	}
	return &EventController{Gateway: gw, Messenger: m, PublicURL: publicURL}
}

func (ec *EventController) service(c *gin.Context) *services.EventService {
	return services.NewEventService(ec.Gateway.With(session.FromContext(c)))
}

func (ec *EventController) screen(c *gin.Context, q services.ListQuery) *crud.Screen[models.Event, models.EventInput] {
	return crud.NewScreen[models.Event, models.EventInput]("events", ec.service(c).Filtered(q), forms.Validate).
		MapFields(eventFields)
}

// renderList shows the events table from an already loaded screen.
func (ec *EventController) renderList(c *gin.Context, status int, screen *crud.Screen[models.Event, models.EventInput], data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = "Events"
	data["events"] = screen.Items()
	if _, ok := data["search"]; !ok {
		data["search"] = ""
	}
	render(c, status, "events.html", data)
}

// List renders the events table, optionally filtered by ?search=.
func (ec *EventController) List(c *gin.Context) {
	search := c.Query("search")
	screen := ec.screen(c, services.ListQuery{Search: search})
	if err := screen.Load(c.Request.Context()); handleAuthError(c, err) {
		return
	}
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, screen.Items())
		return
	}
	ec.renderList(c, http.StatusOK, screen, gin.H{"search": search})
}

func (ec *EventController) renderForm(c *gin.Context, status int, id int, form forms.EventForm, err error) {
	title := "New event"
	action := "/events"
	if id != 0 {
		title = "Edit event"
		action = "/events/" + itoa(id)
	}
	render(c, status, "event_form.html", gin.H{
		"title":    title,
		"action":   action,
		"editing":  id != 0,
		"form":     form,
		"statuses": models.EventStatuses,
		"fields":   fieldsOf(err),
		"error":    generalError(err, "The event could not be saved."),
	})
}

// New renders an empty event form.
func (ec *EventController) New(c *gin.Context) {
	ec.renderForm(c, http.StatusOK, 0, forms.EventForm{Capacity: 1}, nil)
}

// Create validates and submits the form, then shows the refetched list.
func (ec *EventController) Create(c *gin.Context) {
	var form forms.EventForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("[EventController.Create] unreadable form: %v", err)
		ec.renderForm(c, http.StatusBadRequest, 0, form, eventBindError(err))
		return
	}

	screen := ec.screen(c, services.ListQuery{})
	if err := screen.Create(c.Request.Context(), form); err != nil {
		if handleAuthError(c, err) {
			return
		}
		ec.renderForm(c, statusFor(err), 0, form, err)
		return
	}
	ec.Messenger.Notify("events")
	ec.renderList(c, http.StatusOK, screen, gin.H{"success": "Event created."})
}

// Show renders one event with its sessions.
func (ec *EventController) Show(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	event, err := ec.service(c).Get(c.Request.Context(), id)
	if err != nil {
		if handleAuthError(c, err) {
			return
		}
		if isNotFound(err) {
			notFound(c)
			return
		}
		session.FromContext(c).AddFlash(session.FlashError, apperr.Message(err, "The event could not be loaded."))
		c.Redirect(http.StatusFound, "/events")
		return
	}
	render(c, http.StatusOK, "event_detail.html", gin.H{
		"title":    event.Title,
		"event":    event,
		"eventURL": services.EventURL(ec.PublicURL, event.ID),
	})
}

// Edit renders the form pre-filled from the server's copy.
func (ec *EventController) Edit(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	event, err := ec.service(c).Get(c.Request.Context(), id)
	if err != nil {
		if handleAuthError(c, err) {
			return
		}
		if isNotFound(err) {
			notFound(c)
			return
		}
		session.FromContext(c).AddFlash(session.FlashError, apperr.Message(err, "The event could not be loaded."))
		c.Redirect(http.StatusFound, "/events")
		return
	}
	ec.renderForm(c, http.StatusOK, id, forms.EventFormFrom(event), nil)
}

// Update validates and submits the edit, then shows the refetched list.
func (ec *EventController) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	var form forms.EventForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("[EventController.Update] unreadable form for %d: %v", id, err)
		ec.renderForm(c, http.StatusBadRequest, id, form, eventBindError(err))
		return
	}

	screen := ec.screen(c, services.ListQuery{})
	if err := screen.Update(c.Request.Context(), id, form); err != nil {
		if handleAuthError(c, err) {
			return
		}
		ec.renderForm(c, statusFor(err), id, form, err)
		return
	}
	ec.Messenger.Notify("events")
	ec.renderList(c, http.StatusOK, screen, gin.H{"success": "Event updated."})
}

// ConfirmDelete asks before anything is deleted.
func (ec *EventController) ConfirmDelete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	event, err := ec.service(c).Get(c.Request.Context(), id)
	if handleAuthError(c, err) {
		return
	}
	if err != nil {
		event = models.Event{ID: id}
	}
	render(c, http.StatusOK, "event_delete.html", gin.H{"title": "Delete event", "event": event})
}

// Delete removes the event once confirm=yes is posted. The row is dropped
// from the list without a refetch.
func (ec *EventController) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	confirmed := c.PostForm("confirm") == "yes"
	wantsJSON := middleware.WantsJSON(c)

	if !confirmed {
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required"})
			return
		}
		c.Redirect(http.StatusFound, "/events/"+itoa(id)+"/delete")
		return
	}

	ctx := c.Request.Context()
	screen := ec.screen(c, services.ListQuery{})
	if !wantsJSON {
		if err := screen.Load(ctx); handleAuthError(c, err) {
			return
		}
	}
	if _, err := screen.Delete(ctx, id, true); err != nil {
		if handleAuthError(c, err) {
			return
		}
		msg := apperr.Message(err, "The event could not be deleted.")
		if wantsJSON {
			c.JSON(statusFor(err), gin.H{"error": msg})
			return
		}
		ec.renderList(c, http.StatusOK, screen, gin.H{"error": msg})
		return
	}

	ec.Messenger.Notify("events")
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"deleted": id})
		return
	}
	ec.renderList(c, http.StatusOK, screen, gin.H{"success": "Event deleted."})
}

// Register signs the current user up for the event and shows the
// refetched list. A repeated registration is reported, not fatal.
func (ec *EventController) Register(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	ctx := c.Request.Context()
	svc := ec.service(c)

	data := gin.H{}
	_, err = svc.Register(ctx, id)
	switch {
	case err == nil:
		logger.Info.Printf("[EventController.Register] registered for event %d", id)
		data["success"] = "You are registered for this event."
		ec.Messenger.Notify("events")
	case handleAuthError(c, err):
		return
	case errors.Is(err, services.ErrAlreadyRegistered):
		data["error"] = apperr.MsgAlreadyTaken
	default:
		data["error"] = apperr.Message(err, "Registration failed.")
	}

	screen := crud.NewScreen[models.Event, models.EventInput]("events", svc, forms.Validate)
	if err := screen.Load(ctx); handleAuthError(c, err) {
		return
	}
	ec.renderList(c, http.StatusOK, screen, data)
}

// QRCode renders a PNG linking to the event's page.
func (ec *EventController) QRCode(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	png, err := services.GenerateEventQRCode(ec.PublicURL, id, qrCodeSize, nil)
	if err != nil {
		logger.Error.Printf("[EventController.QRCode] event %d: %v", id, err)
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
