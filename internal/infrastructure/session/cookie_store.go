// Package session persists the single bearer token across page loads. It is
// the server-side counterpart of the browser-local storage the original UI
// used: one opaque string, set on login, cleared on logout or auth failure.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/taskdeck/taskdeck/internal/core/ports"
)

const (
	cookieName = "taskdeck_session"
	tokenKey   = "token"
)

// CookieStore keeps the token in an authenticated cookie. No expiry is
// tracked client-side; a stale token is discovered when an upstream call
// comes back with an auth error.
type CookieStore struct {
	store *sessions.CookieStore
}

var _ ports.TokenStore = (*CookieStore)(nil)

// NewCookieStore builds a CookieStore signed with secret. secure should be
// true whenever the deployment terminates TLS.
func NewCookieStore(secret string, secure bool) *CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session cookie, dies with the browser
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: s}
}

func (c *CookieStore) Token(r *http.Request) (string, bool) {
	sess, err := c.store.Get(r, cookieName)
	if err != nil {
		return "", false
	}
	token, ok := sess.Values[tokenKey].(string)
	return token, ok && token != ""
}

func (c *CookieStore) SetToken(w http.ResponseWriter, r *http.Request, token string) error {
	sess, _ := c.store.Get(r, cookieName)
	sess.Values[tokenKey] = token
	return sess.Save(r, w)
}

func (c *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.Get(r, cookieName)
	delete(sess.Values, tokenKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
