// Package web assembles the Echo application: routes, middleware, and the
// central error boundary.
package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/taskdeck/internal/core/domain"
	"github.com/taskdeck/taskdeck/internal/web/render"
)

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler of last resort.
// Handlers catch their own failures and turn them into flashes or redirects;
// anything that still escapes lands here and renders the error page without
// leaking internals.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if rerr := c.Render(code, "error.html", render.ErrorPage{Message: msg}); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors: router 404s, method mismatches, bind failures.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, "That page does not exist."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Upstream failures that escaped a handler keep their user-facing text.
	var uerr *domain.UpstreamError
	if errors.As(err, &uerr) {
		status := uerr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		return status, uerr.Message()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please retry."
}
