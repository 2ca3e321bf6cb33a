// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-event-admin/crud"
	"go-event-admin/forms"
	"go-event-admin/gateway"
	"go-event-admin/logger"
	"go-event-admin/models"
	"go-event-admin/services"
	"go-event-admin/session"
)

// Health answers load balancer checks. With a heartbeat it also reports
// whether the API was reachable on the last probe; this process stays
// healthy either way.
func Health(hb *gateway.Heartbeat) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "healthy"}
		if hb != nil {
			if up, checked, _ := hb.Status(); checked {
				body["api"] = map[bool]string{true: "up", false: "down"}[up]
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

// NotFound renders the 404 page for unknown paths.
func NotFound(c *gin.Context) {
	logger.Debug.Printf("NotFound: %s", c.Request.URL.Path)
	notFound(c)
}

// PageController serves the landing and profile pages.
type PageController struct {
	Gateway *gateway.Client
	Auth    *services.AuthService
}

func NewPageController(gw *gateway.Client, auth *services.AuthService) *PageController {
	return &PageController{Gateway: gw, Auth: auth}
}

// Dashboard greets the user and summarizes upcoming events. A failed
// fetch leaves the summary empty.
func (pc *PageController) Dashboard(c *gin.Context) {
	store := session.FromContext(c)
	svc := services.NewEventService(pc.Gateway.With(store))
	screen := crud.NewScreen[models.Event, models.EventInput]("events", svc, forms.Validate)
	if err := screen.Load(c.Request.Context()); handleAuthError(c, err) {
		return
	}

	events := screen.Items()
	registered, full := 0, 0
	for _, e := range events {
		registered += e.Registered
		if e.Capacity > 0 && e.Registered >= e.Capacity {
			full++
		}
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{
		"title":      "Dashboard",
		"eventCount": len(events),
		"registered": registered,
		"full":       full,
		"recent":     firstN(events, 5),
	})
}

// Profile shows the cached profile, fetching it once when missing, and
// the token expiry when the token is a JWT.
func (pc *PageController) Profile(c *gin.Context) {
	store := session.FromContext(c)
	u := store.User()
	if u == nil {
		me, err := pc.Auth.Profile(c.Request.Context(), store)
		if handleAuthError(c, err) {
			return
		}
		if err != nil {
			logger.Warn.Printf("Profile: could not load profile: %v", err)
		} else {
			u = &me
		}
	}

	data := gin.H{"title": "Profile", "profile": u}
	if claims, ok := store.TokenClaims(); ok {
		data["claims"] = claims
	}
	render(c, http.StatusOK, "profile.html", data)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
