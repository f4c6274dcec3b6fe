package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/guildpanel/internal/model"
)

// accessTokenParam is the query parameter accepted when no Authorization
// header is sent
const accessTokenParam = "accessToken"

// Auth returns a middleware that requires a Discord access token. The token
// is taken from "Authorization: Bearer <token>" or, failing that, the
// accessToken query parameter. It is not validated here; Discord rejects
// bad tokens on the first upstream call.
func Auth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractToken(r)
			if !ok {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}
			if token == "" {
				model.NewUnauthorizedError("missing access token").WriteJSON(w)
				return
			}

			ctx := context.WithValue(r.Context(), AccessTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken returns the caller's token. ok is false only for a present
// but malformed Authorization header.
func extractToken(r *http.Request) (token string, ok bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return strings.TrimSpace(r.URL.Query().Get(accessTokenParam)), true
}

// GetAccessToken extracts the access token from context
func GetAccessToken(ctx context.Context) string {
	if token, ok := ctx.Value(AccessTokenKey).(string); ok {
		return token
	}
	return ""
}
