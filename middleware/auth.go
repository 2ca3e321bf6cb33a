// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go-event-admin/logger"
	"go-event-admin/session"
)

// LandingPath is where authenticated users land by default.
const LandingPath = "/dashboard"

// -------------- authentication middleware --------------

// AuthRequired gates a route on the session:
// - still loading: render the loading page and nothing else.
// - not authenticated: redirect to /login, remembering the target.
// - otherwise the request proceeds.
// Usage:
//
//	router.Group("/", middleware.AuthRequired)
func AuthRequired(c *gin.Context) {
	s := session.FromContext(c)

	if s.Loading() {
		logger.Debug.Printf("[AuthRequired] session loading for %s", c.Request.URL.Path)
		c.HTML(http.StatusOK, "loading.html", gin.H{"title": "Loading"})
		c.Abort()
		return
	}

	if !s.Authenticated() {
		logger.Warn.Printf("[AuthRequired] no session for %s, redirecting to login", c.Request.URL.Path)
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"redirect": "/login"})
			return
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}

	c.Next()
}

// GuestOnly keeps signed-in users away from the login and register pages.
func GuestOnly(c *gin.Context) {
	if session.FromContext(c).Authenticated() {
		c.Redirect(http.StatusFound, LandingPath)
		c.Abort()
		return
	}
	c.Next()
}

// RedirectToLogin ends a request whose session was just cleared by an
// unauthorized API response.
func RedirectToLogin(c *gin.Context) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"redirect": "/login"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// WantsJSON reports whether the caller is a script rather than a page load.
func WantsJSON(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") == "fetch" {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}
