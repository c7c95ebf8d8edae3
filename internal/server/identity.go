package server

import (
	"net/http"
	"strings"
)

// Identity headers. Authenticated user ids are set by the upstream auth
// layer, which this service trusts; session mechanics live outside this
// codebase. Anonymous callers supply a client-generated token instead.
const (
	// HeaderUserID carries the authenticated user id.
	HeaderUserID = "X-User-Id"
	// HeaderAnonymousID carries the client-generated anonymous token.
	HeaderAnonymousID = "X-Anonymous-Id"
	// AnonymousIDPrefix is the fixed prefix every anonymous token must have.
	// It keeps anonymous ids from colliding with real user ids.
	AnonymousIDPrefix = "anon_"
)

// callerIdentity resolves the owner id for a request. Authenticated ids win
// over anonymous tokens. Anonymous rows are scoped to their token exactly as
// session rows are scoped to a user id.
func callerIdentity(r *http.Request) (string, bool) {
	if id := strings.TrimSpace(r.Header.Get(HeaderUserID)); id != "" {
		return id, true
	}
	anon := strings.TrimSpace(r.Header.Get(HeaderAnonymousID))
	if strings.HasPrefix(anon, AnonymousIDPrefix) && len(anon) > len(AnonymousIDPrefix) {
		return anon, true
	}
	return "", false
}
