package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/core/service"
	"github.com/taskdeck/taskdeck/internal/web/render"
)

// DashboardHandler renders the task dashboard. Each GET runs the full load
// pipeline: token check, role resolution, task fetch, filter, render.
type DashboardHandler struct {
	dash   *service.DashboardService
	tokens ports.TokenStore
	log    zerolog.Logger
}

func NewDashboardHandler(dash *service.DashboardService, tokens ports.TokenStore, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{dash: dash, tokens: tokens, log: log}
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	token, _ := h.tokens.Token(c.Request())

	// An unknown status value in the query is treated as "no filter" rather
	// than an error; it can only come from a tampered URL.
	statusFilter := domain.TaskStatus("")
	if raw := c.QueryParam("status"); raw != "" {
		if s, err := domain.ParseStatus(raw); err == nil {
			statusFilter = s
		}
	}

	d := h.dash.Load(c.Request().Context(), token, statusFilter)
	switch d.State {
	case service.StateAuthFailed:
		return redirectToLogin(c, h.tokens)
	case service.StateLoadFailed:
		page := h.page(c, d)
		page.LoadError = errorMessage(d.Err)
		return c.Render(http.StatusOK, "dashboard.html", page)
	default:
		return c.Render(http.StatusOK, "dashboard.html", h.page(c, d))
	}
}

func (h *DashboardHandler) page(c echo.Context, d service.Dashboard) render.DashboardPage {
	flash, flashErr := takeFlashes(c)
	return render.DashboardPage{
		Welcome:      welcome(d.User),
		IsManager:    d.User.Role == domain.RoleManager,
		Rows:         render.BuildRows(d.Filtered, d.User.Role, d.User.Email),
		StatusFilter: d.StatusFilter,
		Statuses:     render.StatusOptions(d.StatusFilter),
		Flash:        flash,
		FlashError:   flashErr,
	}
}

func welcome(u domain.User) string {
	name := u.Username
	if name == "" {
		name = u.Email
	}
	if name == "" {
		return "Welcome to the Task Dashboard"
	}
	role := string(u.Role)
	return fmt.Sprintf("Welcome, %s (%s)", name, strings.ToUpper(role[:1])+role[1:])
}
