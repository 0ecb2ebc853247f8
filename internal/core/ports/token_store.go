package ports

import "net/http"

// TokenStore persists the single bearer token across page loads. Exactly one
// token exists per browser session: set on login, read on every authenticated
// request, cleared on logout or auth failure.
type TokenStore interface {
	// Token returns the stored token, or ok=false when the visitor has none.
	Token(r *http.Request) (token string, ok bool)
	SetToken(w http.ResponseWriter, r *http.Request, token string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}
