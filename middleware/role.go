// Package middleware file: middleware/role.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-event-admin/logger"
	"go-event-admin/models"
	"go-event-admin/session"
)

// RoleRequired denies a signed-in user whose cached profile has a
// different role. It renders an access-denied page instead of
// redirecting. A session without a cached profile passes.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := session.FromContext(c).User()
		if u == nil || u.Role == role {
			c.Next()
			return
		}

		logger.Warn.Printf("[RoleRequired] %s (%s) blocked from %s, needs %s", u.Email, u.Role, c.Request.URL.Path, role)
		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.HTML(http.StatusForbidden, "access_denied.html", gin.H{
			"title":    "Access denied",
			"user":     u,
			"required": role.Label(),
			"back":     LandingPath,
		})
		c.Abort()
	}
}
