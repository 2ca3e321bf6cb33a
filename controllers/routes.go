// file: controllers/routes.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-event-admin/gateway"
	"go-event-admin/middleware"
	"go-event-admin/services"
	"go-event-admin/websocket"
)

// Deps are the shared collaborators of every handler.
type Deps struct {
	Gateway   *gateway.Client
	Hub       *websocket.Hub
	Heartbeat *gateway.Heartbeat
	PublicURL string
}

// RegisterRoutes mounts every page. The session middleware must already
// be installed on router.
func RegisterRoutes(router *gin.Engine, d Deps) {
	var messenger websocket.Messenger = websocket.NopMessenger{}
	if d.Hub != nil {
		messenger = d.Hub
	}

	auth := services.NewAuthService(d.Gateway)
	authCtl := NewAuthController(auth)
	pageCtl := NewPageController(d.Gateway, auth)
	eventCtl := NewEventController(d.Gateway, messenger, d.PublicURL)
	userCtl := NewUserController(d.Gateway, messenger)

	router.GET("/health", Health(d.Heartbeat))
	router.GET("/logout", authCtl.Logout)
	router.POST("/logout", authCtl.Logout)

	guest := router.Group("/", middleware.GuestOnly)
	{
		guest.GET("/login", authCtl.ShowLogin)
		guest.POST("/login", authCtl.Login)
		guest.GET("/register", authCtl.ShowRegister)
		guest.POST("/register", authCtl.Register)
	}

	protected := router.Group("/", middleware.AuthRequired)
	{
		protected.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, middleware.LandingPath) })
		protected.GET("/dashboard", pageCtl.Dashboard)
		protected.GET("/profile", pageCtl.Profile)

		protected.GET("/events", eventCtl.List)
		protected.GET("/events/new", eventCtl.New)
		protected.POST("/events", eventCtl.Create)
		protected.GET("/events/:id", eventCtl.Show)
		protected.GET("/events/:id/edit", eventCtl.Edit)
		protected.POST("/events/:id", eventCtl.Update)
		protected.GET("/events/:id/delete", eventCtl.ConfirmDelete)
		protected.POST("/events/:id/delete", eventCtl.Delete)
		protected.POST("/events/:id/register", eventCtl.Register)
		protected.GET("/events/:id/qrcode", eventCtl.QRCode)

		if d.Hub != nil {
			protected.GET("/updates", d.Hub.ServeWs)
		}
	}

	admin := protected.Group("/users", middleware.AdminRequired())
	{
		admin.GET("", userCtl.List)
		admin.GET("/new", userCtl.New)
		admin.POST("", userCtl.Create)
		admin.GET("/:id/edit", userCtl.Edit)
		admin.POST("/:id", userCtl.Update)
		admin.GET("/:id/delete", userCtl.ConfirmDelete)
		admin.POST("/:id/delete", userCtl.Delete)
	}

	router.NoRoute(NotFound)
}
