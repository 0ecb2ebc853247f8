package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
	"github.com/taskdeck/taskdeck/internal/web/render"
)

// AuthHandler serves the login and registration pages and owns the session
// token lifecycle: set on login, cleared on logout.
type AuthHandler struct {
	api    ports.UpstreamAPI
	tokens ports.TokenStore
	log    zerolog.Logger
}

func NewAuthHandler(api ports.UpstreamAPI, tokens ports.TokenStore, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{api: api, tokens: tokens, log: log}
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	if _, ok := h.tokens.Token(c.Request()); ok {
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}
	notice, errMsg := takeFlashes(c)
	return c.Render(http.StatusOK, "login.html", render.AuthPage{Notice: notice, Error: errMsg})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", render.AuthPage{Error: "Invalid form submission."})
	}
	if err := c.Validate(&form); err != nil {
		return c.Render(http.StatusBadRequest, "login.html", render.AuthPage{Error: err.Error(), Email: form.Email})
	}

	token, err := h.api.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		var uerr *domain.UpstreamError
		msg := "Login failed. Please retry."
		if errors.As(err, &uerr) {
			msg = uerr.Message()
		}
		h.log.Info().Err(err).Str("email", form.Email).Msg("login rejected")
		return c.Render(http.StatusUnauthorized, "login.html", render.AuthPage{Error: msg, Email: form.Email})
	}

	if err := h.tokens.SetToken(c.Response(), c.Request(), token); err != nil {
		h.log.Error().Err(err).Msg("failed to persist session token")
		return c.Render(http.StatusInternalServerError, "login.html", render.AuthPage{Error: "Could not start a session. Please retry.", Email: form.Email})
	}

	h.log.Info().Str("email", form.Email).Msg("login succeeded")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", render.AuthPage{Role: "employee"})
}

func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", render.AuthPage{Error: "Invalid form submission.", Role: "employee"})
	}
	sticky := render.AuthPage{Username: form.Username, Email: form.Email, Role: form.Role, Skills: form.Skills}
	if err := c.Validate(&form); err != nil {
		sticky.Error = err.Error()
		return c.Render(http.StatusBadRequest, "register.html", sticky)
	}

	role := domain.ParseRole(form.Role)
	skills := form.skillList()
	if role == domain.RoleEmployee && len(skills) == 0 {
		sticky.Error = "skills are required for employee registration"
		return c.Render(http.StatusBadRequest, "register.html", sticky)
	}

	msg, err := h.api.Register(c.Request().Context(), ports.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Role:     role,
		Skills:   skills,
	})
	if err != nil {
		var uerr *domain.UpstreamError
		sticky.Error = "Registration failed. Please retry."
		if errors.As(err, &uerr) {
			sticky.Error = uerr.Message()
		}
		h.log.Info().Err(err).Str("email", form.Email).Msg("registration rejected")
		return c.Render(http.StatusBadRequest, "register.html", sticky)
	}

	if msg == "" {
		msg = "Account created. Please sign in."
	}
	setFlash(c, flashOK, msg)
	return c.Redirect(http.StatusSeeOther, "/login")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.tokens.Clear(c.Response(), c.Request()); err != nil {
		h.log.Warn().Err(err).Msg("failed to clear session")
	}
	setFlash(c, flashOK, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/login")
}
