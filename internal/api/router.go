package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/pocketledger/expense-tracker/docs"
	"github.com/pocketledger/expense-tracker/internal/api/handler"
	"github.com/pocketledger/expense-tracker/internal/api/middleware"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
	"github.com/pocketledger/expense-tracker/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Expenses ports.ExpenseService
	Checks   []handlers.Check
	Cookie   middleware.SessionCookie
	Log      zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:          "expense_http",
		Registerer:         d.Registerer,
		StatusCodeResolver: metricsStatus,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	expenseHandler := handler.NewExpenseHandler(d.Expenses)
	requireSession := middleware.RequireSession(d.Auth, d.Cookie)

	// --- Auth routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)
	e.GET("/api/user", authHandler.Me, requireSession)

	// --- Expense routes (session required) ---
	e.GET("/api/expenses", expenseHandler.List, requireSession)
	e.POST("/api/expenses", expenseHandler.Create, requireSession)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks, d.Log)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// metricsStatus labels a request with the status the error handler will
// send. Handler errors reach the middleware before they are rendered.
func metricsStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	status, _, _ := handler.Classify(err)
	return status
}

// requestLogger emits one zerolog entry per request. The error handler runs
// first so the logged status is the one the client received.
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
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error()
			} else if v.Status >= 400 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
