package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/core/ports"
)

// redirectToLogin ends the session: clear the token, leave a note, go to the
// login page. Used whenever an upstream call reveals the token is no good.
func redirectToLogin(c echo.Context, tokens ports.TokenStore) error {
	_ = tokens.Clear(c.Response(), c.Request())
	setFlash(c, flashError, "Session expired. Please log in again.")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// errorMessage converts any error from the service layer into user-facing
// text, preferring the upstream-supplied detail.
func errorMessage(err error) string {
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) {
		return uerr.Message()
	}
	if errors.Is(err, domain.ErrDuplicateSubmit) {
		return "That action is already being processed."
	}
	return "Something went wrong. Please retry."
}
