package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/fpress/content-system/docs"
	"github.com/fpress/content-system/internal/api/handler"
	"github.com/fpress/content-system/internal/api/middleware"
	"github.com/fpress/content-system/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Auth    ports.AuthService
	Content ports.ContentService
	Users   ports.UserService
	Files   ports.FileService
	Meta    ports.SiteMetaService

	// Checks are probed by /health/ready, keyed by dependency name.
	Checks map[string]handler.Checker

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "cms",
		Registerer: registerer,
	}))
	e.Use(middleware.Session(deps.Auth, deps.Logger))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Users)
	pageHandler := handler.NewPageHandler(deps.Content, deps.Meta)
	userHandler := handler.NewUserHandler(deps.Users)
	fileHandler := handler.NewFileHandler(deps.Files, deps.Logger)
	metaHandler := handler.NewMetaHandler(deps.Meta)

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireAdmin()

	// --- Ops ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(deps.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout, requireAuth)
	e.POST("/admin/firstuse", authHandler.FirstUse)

	// --- Pages ---
	e.GET("/search", pageHandler.Search)
	e.POST("/page", pageHandler.Create, requireAuth)
	e.GET("/page/:id", pageHandler.Get, requireAuth)
	e.PUT("/page/:id", pageHandler.Update, requireAuth)
	e.DELETE("/page/:id", pageHandler.Delete, requireAuth)

	// --- Files ---
	e.POST("/upload", fileHandler.Upload, requireAuth)
	e.PUT("/files/:id", fileHandler.Update, requireAuth)
	e.DELETE("/files/:id", fileHandler.Delete, requireAuth)
	e.GET("/uploads/*", fileHandler.Serve)

	e.GET("/meta", metaHandler.Get)

	// --- Admin area ---
	// Guarded route by route so /admin/<slug> still reaches the page catch-all.
	e.GET("/admin/pages", pageHandler.List, requireAdmin)
	e.GET("/admin/deleted", pageHandler.ListDeleted, requireAdmin)
	e.GET("/admin/files", fileHandler.List, requireAdmin)
	e.PUT("/admin/meta", metaHandler.Update, requireAdmin)
	e.GET("/admin/users", userHandler.List, requireAdmin)
	e.POST("/admin/users", userHandler.Create, requireAdmin)
	e.PUT("/admin/users/:id", userHandler.Update, requireAdmin)
	e.POST("/admin/users/:id/deactivate", userHandler.Deactivate, requireAdmin)
	e.DELETE("/admin/users/:id", userHandler.Delete, requireAdmin)

	// Pages by slug match last.
	e.GET("/", pageHandler.Home)
	e.GET("/*", pageHandler.View)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Error != nil:
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("user", middleware.SessionFrom(c).Username).
				Msg("request")
			return nil
		},
	})
}
