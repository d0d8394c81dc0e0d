package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const apiClientContextKey = contextKey("apiClient")

// AuthMiddleware requires an HS256/384/512 signed Bearer JWT on every request.
// The token's subject is stored in the request context as the API client.
// With an empty secret every request is rejected.
func AuthMiddleware(secret string, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "Authorization header missing")
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				logger.WarnContext(ctx, "Invalid Authorization header format")
				writeError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			if len(key) == 0 {
				logger.ErrorContext(ctx, "API JWT secret is not configured, rejecting request")
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
			if err != nil || !token.Valid {
				logger.WarnContext(ctx, "Token validation failed", "error", err)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			client, _ := token.Claims.GetSubject()
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, apiClientContextKey, client)))
		})
	}
}

// APIClientFromContext returns the subject of the token that authenticated
// the request.
func APIClientFromContext(ctx context.Context) (string, bool) {
	client, ok := ctx.Value(apiClientContextKey).(string)
	return client, ok
}
