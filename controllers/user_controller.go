// file: controllers/user_controller.go
package controllers

import (
	"net/http"

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

var userFields = map[string]string{
	"nombre":    "name",
	"email":     "email",
	"password":  "password",
	"role":      "role",
	"is_active": "active",
}

// ---------------- User Controller ----------------

// UserController serves user management for administrators.
type UserController struct {
	Gateway   *gateway.Client
	Messenger websocket.Messenger
}

func NewUserController(gw *gateway.Client, m websocket.Messenger) *UserController {
	if m == nil {
		m = websocket.NopMessenger{}
	}
	return &UserController{Gateway: gw, Messenger: m}
}

func (uc *UserController) screen(c *gin.Context) *crud.Screen[models.User, models.UserInput] {
	svc := services.NewUserService(uc.Gateway.With(session.FromContext(c)))
	return crud.NewScreen[models.User, models.UserInput]("users", svc, forms.Validate).MapFields(userFields)
}

func (uc *UserController) renderList(c *gin.Context, screen *crud.Screen[models.User, models.UserInput], data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = "Users"
	data["users"] = screen.Items()
	render(c, http.StatusOK, "users.html", data)
}

func (uc *UserController) renderForm(c *gin.Context, status int, id int, form forms.UserForm, err error) {
	title, action := "New user", "/users"
	if id != 0 {
		title, action = "Edit user", "/users/"+itoa(id)
	}
	form.Password = ""
	render(c, status, "user_form.html", gin.H{
		"title":   title,
		"action":  action,
		"editing": id != 0,
		"form":    form,
		"roles":   models.Roles,
		"fields":  fieldsOf(err),
		"error":   generalError(err, "The user could not be saved."),
	})
}

// List renders the users table.
func (uc *UserController) List(c *gin.Context) {
	screen := uc.screen(c)
	if err := screen.Load(c.Request.Context()); handleAuthError(c, err) {
		return
	}
	if middleware.WantsJSON(c) {
		c.JSON(http.StatusOK, screen.Items())
		return
	}
	uc.renderList(c, screen, nil)
}

func (uc *UserController) New(c *gin.Context) {
	uc.renderForm(c, http.StatusOK, 0, forms.UserForm{Role: string(models.RoleAttendee), Active: true}, nil)
}

func (uc *UserController) Create(c *gin.Context) {
	var form forms.UserForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("[UserController.Create] unreadable form: %v", err)
		form.Editing = false
		uc.renderForm(c, http.StatusBadRequest, 0, form, &apperr.ValidationError{General: "The form could not be read."})
		return
	}
	form.Editing = false

	screen := uc.screen(c)
	if err := screen.Create(c.Request.Context(), form); err != nil {
		if handleAuthError(c, err) {
			return
		}
		uc.renderForm(c, statusFor(err), 0, form, err)
		return
	}
	uc.Messenger.Notify("users")
	uc.renderList(c, screen, gin.H{"success": "User created."})
}

// Edit pre-fills the form from a fresh copy of the list, since the API
// has no single-user endpoint.
func (uc *UserController) Edit(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	screen := uc.screen(c)
	if err := screen.Load(c.Request.Context()); handleAuthError(c, err) {
		return
	}
	u, ok := screen.Find(id)
	if !ok {
		notFound(c)
		return
	}
	uc.renderForm(c, http.StatusOK, id, forms.UserFormFrom(u), nil)
}

func (uc *UserController) Update(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	var form forms.UserForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn.Printf("[UserController.Update] unreadable form for %d: %v", id, err)
		form.Editing = true
		uc.renderForm(c, http.StatusBadRequest, id, form, &apperr.ValidationError{General: "The form could not be read."})
		return
	}
	form.Editing = true

	screen := uc.screen(c)
	if err := screen.Update(c.Request.Context(), id, form); err != nil {
		if handleAuthError(c, err) {
			return
		}
		uc.renderForm(c, statusFor(err), id, form, err)
		return
	}
	uc.Messenger.Notify("users")
	uc.renderList(c, screen, gin.H{"success": "User updated."})
}

func (uc *UserController) ConfirmDelete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	screen := uc.screen(c)
	if err := screen.Load(c.Request.Context()); handleAuthError(c, err) {
		return
	}
	u, ok := screen.Find(id)
	if !ok {
		u = models.User{ID: id}
	}
	render(c, http.StatusOK, "user_delete.html", gin.H{"title": "Delete user", "target": u})
}

// Delete removes the user once confirm=yes is posted.
func (uc *UserController) Delete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		notFound(c)
		return
	}
	wantsJSON := middleware.WantsJSON(c)
	if c.PostForm("confirm") != "yes" {
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required"})
			return
		}
		c.Redirect(http.StatusFound, "/users/"+itoa(id)+"/delete")
		return
	}

	ctx := c.Request.Context()
	screen := uc.screen(c)
	if !wantsJSON {
		if err := screen.Load(ctx); handleAuthError(c, err) {
			return
		}
	}
	if _, err := screen.Delete(ctx, id, true); err != nil {
		if handleAuthError(c, err) {
			return
		}
		msg := apperr.Message(err, "The user could not be deleted.")
		if wantsJSON {
			c.JSON(statusFor(err), gin.H{"error": msg})
			return
		}
		uc.renderList(c, screen, gin.H{"error": msg})
		return
	}

	uc.Messenger.Notify("users")
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"deleted": id})
		return
	}
	uc.renderList(c, screen, gin.H{"success": "User deleted."})
}
