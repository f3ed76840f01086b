package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookshelf/library-system/docs"
	"github.com/bookshelf/library-system/internal/api/handler"
	"github.com/bookshelf/library-system/internal/api/middleware"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Logger   zerolog.Logger
	Resolver ports.IdentityResolver

	Auth      ports.AuthService
	Users     ports.UserService
	Books     ports.BookService
	Checkouts ports.CheckoutService

	// Readiness checks served on /health/db, keyed by dependency name.
	Readiness map[string]handler.PingFunc

	AllowedOrigins []string
	// MetricsRegisterer defaults to prometheus.DefaultRegisterer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	registerer := deps.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "library",
		Registerer: registerer,
	}))

	// --- Health probes, docs and metrics (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/db", handler.NewReadinessHandler(deps.Readiness).Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echoprometheus.NewHandler())

	auth := middleware.Auth(deps.Resolver)
	adminOnly := func(next middleware.AuthorizedHandler) echo.HandlerFunc {
		return auth(middleware.AdminOnly(next))
	}

	// --- Auth ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", auth(authHandler.Logout))

	v1 := e.Group("/api/v1")

	// --- Users ---
	users := handler.NewUserHandler(deps.Users)
	checkouts := handler.NewCheckoutHandler(deps.Checkouts)
	v1.GET("/users/me", auth(users.Me))
	v1.PUT("/users/me/password", auth(users.ChangePassword))
	v1.GET("/users/me/checkouts", auth(checkouts.Mine))
	v1.GET("/users", auth(users.List))
	v1.POST("/users", adminOnly(users.Create))
	v1.DELETE("/users/:user_id", adminOnly(users.Delete))
	v1.PUT("/users/:user_id/role", adminOnly(users.ChangeRole))

	// --- Books ---
	books := handler.NewBookHandler(deps.Books)
	v1.POST("/books", auth(books.Create))
	v1.GET("/books", auth(books.List))
	v1.GET("/books/checkouts", auth(checkouts.ListActive))
	v1.GET("/books/:book_id", auth(books.Get))
	v1.PUT("/books/:book_id", auth(books.Update))
	v1.DELETE("/books/:book_id", auth(books.Delete))

	// --- Checkouts ---
	v1.POST("/books/:book_id/checkouts", auth(checkouts.Checkout))
	v1.PUT("/books/:book_id/checkouts/:checkout_id/returned", auth(checkouts.Return))
	v1.GET("/books/:book_id/checkout-history", auth(checkouts.History))

	return e
}

// requestLogger writes one access log entry per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			if userID, ok := c.Get(middleware.UserIDKey).(string); ok {
				evt = evt.Str("user_id", userID)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
