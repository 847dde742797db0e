package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geoparty/geoparty/internal/geoparty"
)

var errNoSession = errors.New("no valid session")

// userFromRequest resolves the identity capability: the authenticated user
// behind the request's bearer token, or errNoSession when absent or unknown.
func userFromRequest(r *http.Request, store Store) (geoparty.User, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return geoparty.User{}, errNoSession
	}
	return store.UserFromToken(r.Context(), token)
}
