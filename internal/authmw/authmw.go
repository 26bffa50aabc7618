// Package authmw guards the agent-facing endpoints with a static bearer
// token.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerToken returns middleware that requires `Authorization: Bearer <token>`
// on every request. The scheme is matched case-insensitively per RFC 6750;
// the token comparison is constant time.
func BearerToken(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearerFromHeader(r.Header.Get("Authorization"))
			if !ok {
				deny(w, `{"error":"missing or malformed authorization header"}`)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				deny(w, `{"error":"invalid token"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerFromHeader(auth string) (string, bool) {
	const scheme = "Bearer "
	if len(auth) <= len(scheme) || !strings.EqualFold(auth[:len(scheme)], scheme) {
		return "", false
	}
	return auth[len(scheme):], true
}

func deny(w http.ResponseWriter, body string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="agent"`)
	http.Error(w, body, http.StatusUnauthorized)
}
