package web

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/core/service"
	"github.com/taskdeck/taskdeck/internal/infrastructure/config"
	"github.com/taskdeck/taskdeck/internal/web/handler"
	"github.com/taskdeck/taskdeck/internal/web/render"
)

// NewRouter builds the Echo instance with all routes registered. rdb may be
// nil when the in-memory submit guard is in use.
func NewRouter(cfg *config.Config, api ports.UpstreamAPI, tokens ports.TokenStore, guard ports.SubmitGuard, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("taskdeck"))
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.SessionSecret))))

	// --- Dependencies ---
	resolver := service.NewRoleResolver(api, log)
	dashboards := service.NewDashboardService(api, resolver, log)
	tasks := service.NewTaskService(api, guard, log)

	authHandler := handler.NewAuthHandler(api, tokens, log)
	dashboardHandler := handler.NewDashboardHandler(dashboards, tokens, log)
	taskHandler := handler.NewTaskHandler(tasks, api, tokens, log)
	healthHandler := handler.NewHealthHandler(rdb)

	// --- Pages ---
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	})
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)

	e.GET("/dashboard", dashboardHandler.Dashboard)
	e.POST("/tasks", taskHandler.Create)
	e.POST("/tasks/:id/status", taskHandler.UpdateStatus)
	e.GET("/tasks/:id/edit", taskHandler.EditForm)
	e.POST("/tasks/:id/edit", taskHandler.Edit)
	e.POST("/tasks/:id/delete", taskHandler.Delete)

	// --- Probes and metrics (no session required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness)     // readiness – is the guard backend up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
