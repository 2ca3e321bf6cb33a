// Package controllers holds the gin handlers behind every page.
// file: controllers/render.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go-event-admin/apperr"
	"go-event-admin/logger"
	"go-event-admin/middleware"
	"go-event-admin/models"
	"go-event-admin/session"
)

// render adds the layout data every page needs: the signed-in user,
// navigation flags and pending flash messages. data may carry "success"
// and "error" strings for this render only.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	s := session.FromContext(c)
	u := s.User()

	successes := s.Flashes(session.FlashSuccess)
	if msg, _ := data["success"].(string); msg != "" {
		successes = append(successes, msg)
	}
	errs := s.Flashes(session.FlashError)
	if msg, _ := data["error"].(string); msg != "" {
		errs = append(errs, msg)
	}

	data["user"] = u
	data["authenticated"] = s.Authenticated()
	data["showUsers"] = s.Authenticated() && (u == nil || u.Role == models.RoleAdmin)
	data["successes"] = successes
	data["errors"] = errs
	data["path"] = c.Request.URL.Path
	if _, ok := data["fields"]; !ok {
		data["fields"] = map[string]string{}
	}
	c.HTML(status, name, data)
}

// handleAuthError finishes the request when err is an unauthorized
// response. The session was already cleared by the gateway.
func handleAuthError(c *gin.Context, err error) bool {
	if !apperr.IsAuth(err) {
		return false
	}
	logger.Info.Printf("[controllers] session expired on %s, redirecting to login", c.Request.URL.Path)
	middleware.RedirectToLogin(c)
	return true
}

// statusFor picks the response status of a page showing err.
func statusFor(err error) int {
	if _, ok := apperr.AsValidation(err); ok {
		return http.StatusBadRequest
	}
	if se, ok := apperr.AsServer(err); ok && se.Status < http.StatusInternalServerError {
		return se.Status
	}
	return http.StatusBadGateway
}

// fieldsOf returns per-field messages, or an empty map.
func fieldsOf(err error) map[string]string {
	if ve, ok := apperr.AsValidation(err); ok && ve.Fields != nil {
		return ve.Fields
	}
	return map[string]string{}
}

// generalError is the banner for err, empty when only fields are wrong.
func generalError(err error, fallback string) string {
	if ve, ok := apperr.AsValidation(err); ok {
		if ve.General != "" {
			return ve.General
		}
		if len(ve.Fields) > 0 {
			return ""
		}
	}
	return apperr.Message(err, fallback)
}

var errBadID = errors.New("invalid id")

func paramID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// safeNext accepts only local absolute paths as a post-login target.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") ||
		strings.Contains(next, `\`) || strings.HasPrefix(next, "/login") {
		return middleware.LandingPath
	}
	return next
}

func notFound(c *gin.Context) {
	render(c, http.StatusNotFound, "not_found.html", gin.H{"title": "Not found"})
}

func isNotFound(err error) bool {
	se, ok := apperr.AsServer(err)
	return ok && se.Status == http.StatusNotFound
}

func itoa(i int) string { return strconv.Itoa(i) }
