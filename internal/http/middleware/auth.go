// Package middleware wraps http.Handlers with cross-cutting behaviour:
// authentication, request logging and panic recovery.
package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aanand-mishra/academico-api/internal/auth"
)

// Realm is announced in the WWW-Authenticate challenge.
const Realm = "Realm"

// PublicPrefixes are the documentation and monitoring paths reachable
// without credentials.
var PublicPrefixes = []string{"/swagger-ui/", "/v3/api-docs", "/actuator/"}

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(username, password string) (auth.Account, bool)
}

// BasicAuth rejects with 401 every request outside publicPrefixes that does
// not carry valid HTTP Basic credentials. Nothing is remembered between
// requests: credentials are checked on every call.
//
// The authenticated account is stored in the request context; see
// auth.PrincipalFrom.
func BasicAuth(authn Authenticator, publicPrefixes []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublic(r.URL.Path, publicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				challenge(w)
				return
			}

			account, ok := authn.Authenticate(username, password)
			if !ok {
				zap.L().Info("rejected credentials", zap.String("username", username))
				challenge(w)
				return
			}

			recordPrincipal(r.Context(), account.Username)
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), account)))
		})
	}
}

func isPublic(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func challenge(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="`+Realm+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
