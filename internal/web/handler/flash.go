package handler

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// Flash messages ride a short-lived session separate from the token cookie,
// surviving exactly one redirect (POST → GET after a mutation).

const flashSession = "taskdeck_flash"

const (
	flashOK    = "ok"
	flashError = "error"
)

func setFlash(c echo.Context, kind, msg string) {
	sess, err := session.Get(flashSession, c)
	if err != nil {
		return
	}
	sess.AddFlash(msg, kind)
	_ = sess.Save(c.Request(), c.Response())
}

// takeFlashes drains and returns the pending messages. gorilla's Flashes
// removes on read, so saving afterwards clears the cookie.
func takeFlashes(c echo.Context) (ok, errMsg string) {
	sess, err := session.Get(flashSession, c)
	if err != nil {
		return "", ""
	}
	if f := sess.Flashes(flashOK); len(f) > 0 {
		ok, _ = f[0].(string)
	}
	if f := sess.Flashes(flashError); len(f) > 0 {
		errMsg, _ = f[0].(string)
	}
	_ = sess.Save(c.Request(), c.Response())
	return ok, errMsg
}
