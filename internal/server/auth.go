package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/emrgen/shazam/internal/host"
	"github.com/sirupsen/logrus"
)

const (
	authorization   = "Authorization"
	HeaderUser      = "X-Shazam-User"
	HeaderSuperUser = "X-Shazam-Super-User"
)

type actorKey struct{}

// AuthTokenInterceptor rejects requests without the bearer token. An empty
// token disables the check.
func AuthTokenInterceptor(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken, ok := accessTokenFromHeader(r)
		if !ok || subtle.ConstantTimeCompare([]byte(accessToken), []byte(token)) != 1 {
			logrus.Warnf("rejected request to %s: invalid access token", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "access token verification failed"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ActorInterceptor reads the acting user from the headers set by the host.
func ActorInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(HeaderUser))
		if username == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + HeaderUser + " header"})
			return
		}

		privileged, _ := strconv.ParseBool(r.Header.Get(HeaderSuperUser))
		actor := host.Actor{Username: username, Privileged: privileged}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

func actorFromContext(ctx context.Context) host.Actor {
	actor, _ := ctx.Value(actorKey{}).(host.Actor)
	return actor
}

func accessTokenFromHeader(r *http.Request) (string, bool) {
	value := r.Header.Get(authorization)
	token, ok := strings.CutPrefix(value, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
