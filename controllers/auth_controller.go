// Package controllers controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go-event-admin/apperr"
	"go-event-admin/forms"
	"go-event-admin/logger"
	"go-event-admin/models"
	"go-event-admin/services"
	"go-event-admin/session"
)

// ---------------- Auth Controller ----------------

// AuthController serves login, registration and logout.
type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

// ShowLogin renders the login form; ?next= is carried through.
func (ac *AuthController) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"title": "Sign in",
		"form":  forms.LoginForm{},
		"next":  c.Query("next"),
	})
}

// Login validates the form, signs in once and lands on the requested
// page or the dashboard.
func (ac *AuthController) Login(c *gin.Context) {
	var form forms.LoginForm
	_ = c.ShouldBind(&form)
	next := c.PostForm("next")

	fail := func(status int, err error, general string) {
		render(c, status, "login.html", gin.H{
			"title":  "Sign in",
			"form":   forms.LoginForm{Email: form.Email},
			"next":   next,
			"fields": fieldsOf(err),
			"error":  general,
		})
	}

	if err := forms.Validate(form); err != nil {
		fail(http.StatusBadRequest, err, generalError(err, ""))
		return
	}

	store := session.FromContext(c)
	err := ac.Auth.Login(c.Request.Context(), store, form.Email, form.Password)
	switch {
	case err == nil:
		target := safeNext(next)
		logger.Info.Printf("[AuthController.Login] %s signed in, redirecting to %s", form.Email, target)
		c.Redirect(http.StatusFound, target)
	case errors.Is(err, services.ErrTokenRejected):
		fail(http.StatusUnauthorized, nil, "Your session could not be started. Please sign in again.")
	case apperr.IsAuth(err):
		fail(http.StatusUnauthorized, nil, "Incorrect email or password.")
	case errors.Is(err, services.ErrMissingToken):
		fail(http.StatusBadGateway, nil, "The server did not return an access token.")
	default:
		fail(statusFor(err), err, generalError(err, "Sign in failed. Please try again."))
	}
}

// ShowRegister renders the account form.
func (ac *AuthController) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{
		"title": "Create account",
		"form":  forms.RegisterForm{Role: string(models.RoleAttendee)},
		"roles": models.Roles,
	})
}

// Register creates the account and sends the user to sign in. It does
// not sign anyone in.
func (ac *AuthController) Register(c *gin.Context) {
	var form forms.RegisterForm
	_ = c.ShouldBind(&form)

	err := forms.Validate(form)
	if err == nil {
		_, err = ac.Auth.Register(c.Request.Context(), session.FromContext(c), form.Input())
	}
	if err != nil {
		if handleAuthError(c, err) {
			return
		}
		form.Password, form.ConfirmPassword = "", ""
		render(c, statusFor(err), "register.html", gin.H{
			"title":  "Create account",
			"form":   form,
			"roles":  models.Roles,
			"fields": fieldsOf(err),
			"error":  generalError(err, "Registration failed."),
		})
		return
	}

	session.FromContext(c).AddFlash(session.FlashSuccess, "Account created. You can now sign in.")
	c.Redirect(http.StatusFound, "/login")
}

// Logout always succeeds.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.Auth.Logout(session.FromContext(c))
	c.Redirect(http.StatusFound, "/login")
}
