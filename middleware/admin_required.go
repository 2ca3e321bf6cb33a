// file: middleware/admin_required.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go-event-admin/models"
)

// AdminRequired restricts user management to administrators.
func AdminRequired() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}
