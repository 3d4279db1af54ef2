package http

import (
	"context"
	"net"
	"net/http"

	"github.com/rogerio-castellano/it-asset-tracker/internal/auth"
	rl "github.com/rogerio-castellano/it-asset-tracker/internal/http/rate_limiter"
)

type contextKey string

const userIDKey contextKey = "user_id"

// AuthMiddleware rejects requests without a valid bearer token. Handlers
// read the actor and role claims straight from the token; only the user
// id travels in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		if sub, ok := claims["sub"].(float64); ok {
			ctx = context.WithValue(ctx, userIDKey, int(sub))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.GetVisitor(ip).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserID(r *http.Request) int {
	if val, ok := r.Context().Value(userIDKey).(int); ok {
		return val
	}
	return 0
}
