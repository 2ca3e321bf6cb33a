// main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/strategy/ctxmissing"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"
	"go-event-admin/config"
	"go-event-admin/controllers"
	"go-event-admin/gateway"
	"go-event-admin/logger"
	"go-event-admin/middleware"
	"go-event-admin/session"
	"go-event-admin/websocket"
)

func main() {
	if err := run(); err != nil {
		logger.Error.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.SetLogLevel(cfg.Server.Env)
	if err := logger.InitLogger(cfg.Log.Dir); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Gateway, optionally traced and measured
	opts := []gateway.Option{}
	if cfg.Tracing.Enabled {
		if err := xray.Configure(xray.Config{
			ServiceVersion:         "1.0.0",
			ContextMissingStrategy: ctxmissing.NewDefaultLogErrorStrategy(),
		}); err != nil {
			return fmt.Errorf("configure x-ray: %w", err)
		}
		opts = append(opts, gateway.WithHTTPClient(gateway.NewTracedHTTPClient(cfg.API.Timeout)))
	}
	if cfg.Metrics.Enabled {
		metrics := gateway.NewCloudWatchMetrics(cfg.Metrics.Namespace)
		defer metrics.Close()
		opts = append(opts, gateway.WithMetrics(metrics))
	}
	gw, err := gateway.New(gateway.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout}, opts...)
	if err != nil {
		return err
	}

	heartbeat := gateway.NewHeartbeat(gw, cfg.API.HeartbeatInterval)
	go heartbeat.Run(ctx)

	hub := websocket.NewHub(cfg.Server.PublicURL)
	go hub.Run(ctx)

	store, err := session.CookieStore(cfg.Session.Secret, session.Options{
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	})
	if err != nil {
		return err
	}
	if cfg.Session.Secret == config.DefaultSessionSecret {
		logger.Warn.Println("using the development session secret; set EVENTADMIN_SESSION_SECRET")
	}

	router := newRouter(cfg)
	if cfg.Tracing.Enabled {
		router.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	router.Use(session.Middleware(cfg.Session.Name, store)...)

	controllers.RegisterRoutes(router, controllers.Deps{
		Gateway:   gw,
		Hub:       hub,
		Heartbeat: heartbeat,
		PublicURL: cfg.Server.PublicURL,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("shutdown: %v", err)
		}
	}()

	logger.Info.Printf("event admin listening on %s, API at %s", cfg.Server.Addr, cfg.API.BaseURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info.Println("server stopped")
	return nil
}

// newRouter builds the engine with the layout-independent middleware,
// templates and static files.
func newRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Next()
	})

	templatesDir := filepath.Join(cfg.Server.TemplatesDir, "*.html")
	logger.Debug.Printf("Templates Path: %s", templatesDir)
	router.LoadHTMLGlob(templatesDir)
	router.Static("/static", cfg.Server.StaticDir)
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}
