package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/quillpost/blog-api/docs"
	"github.com/quillpost/blog-api/internal/api/handler"
	"github.com/quillpost/blog-api/internal/api/middleware"
	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// Dependencies are the services and adapters the HTTP layer is built from.
type Dependencies struct {
	Auth       ports.AuthService
	Users      ports.UserService
	Social     ports.SocialService
	Moderation ports.ModerationService
	Accounts   ports.AccountRepository
	Signer     ports.TokenSigner
	Health     *handler.HealthHandler
	Log        zerolog.Logger

	// SecureCookies marks the session cookie Secure. Disable only for local HTTP.
	SecureCookies bool
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, which also carries the domain counters.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "blog",
		Registerer: registerer(deps.Registry),
	}))

	// --- Dependencies ---
	sessions := handler.NewSessionIssuer(deps.Signer, deps.SecureCookies)
	authHandler := handler.NewAuthHandler(deps.Auth, sessions)
	userHandler := handler.NewUserHandler(deps.Users, deps.Social)
	adminHandler := handler.NewAdminHandler(deps.Users, deps.Moderation)
	requireSession := middleware.Auth(deps.Signer, deps.Accounts)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// --- User routes ---
	users := e.Group("/api/users")
	users.GET("/profile/:username", userHandler.Profile)
	users.GET("/:id/followers", userHandler.Followers)
	users.GET("/:id/following", userHandler.Following)
	users.GET("/me", userHandler.Me, requireSession)
	users.PUT("/me", userHandler.UpdateMe, requireSession)
	users.POST("/:id/follow", userHandler.Follow, requireSession)
	users.DELETE("/:id/follow", userHandler.Unfollow, requireSession)
	users.GET("/:id/relation", userHandler.Relation, requireSession)

	// --- Admin routes ---
	admin := e.Group("/api/admin/users", requireSession, middleware.RequireRole(domain.RoleAdmin))
	admin.GET("", adminHandler.List)
	admin.POST("", adminHandler.Create)
	admin.GET("/:id", adminHandler.Get)
	admin.PUT("/:id", adminHandler.Update)
	admin.DELETE("/:id", adminHandler.Delete)
	admin.PATCH("/:id/ban", adminHandler.Ban)
	admin.PATCH("/:id/unban", adminHandler.Unban)

	// --- Health probes (no auth required) ---
	if deps.Health != nil {
		e.GET("/health", deps.Health.Liveness)        // liveness  – is the process alive?
		e.GET("/health/ready", deps.Health.Readiness) // readiness – are dependencies up?
	}

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer(deps.Registry),
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerer(r *prometheus.Registry) prometheus.Registerer {
	if r == nil {
		return prometheus.DefaultRegisterer
	}
	return r
}

func gatherer(r *prometheus.Registry) prometheus.Gatherer {
	if r == nil {
		return prometheus.DefaultGatherer
	}
	return r
}

// requestLogger writes one structured access log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
