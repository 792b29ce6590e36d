// Package session ties a browser's POS surface to a session token. The token
// is an opaque uuid carried in a cookie; what it maps to (the active order)
// lives in the database, owned by the order service.
package session

import (
	"net/http"

	"github.com/google/uuid"
)

const cookieName = "pos_session"

// Token returns the request's session token, minting and setting a new one
// when the cookie is absent or unparseable.
func Token(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if c, err := r.Cookie(cookieName); err == nil {
		if token, err := uuid.Parse(c.Value); err == nil {
			return token
		}
	}

	token := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
