package middleware

import (
	"context"
	"net/http"

	"github.com/forgo/guildpanel/internal/model"
	"github.com/go-chi/chi/v5"
)

// GuildIDParam is the chi URL parameter carrying the guild id
const GuildIDParam = "guildID"

// ManageChecker decides whether a token may manage a guild and returns the
// caller's membership when it may
type ManageChecker interface {
	Require(ctx context.Context, token, guildID string) (*model.GuildMembership, error)
}

// ErrorWriter writes the response for a failed access check
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Context keys for guild access
const (
	GuildIDKey    contextKey = "guildID"
	MembershipKey contextKey = "membership"
)

// GetGuildID extracts the guild ID from context
func GetGuildID(ctx context.Context) string {
	if id, ok := ctx.Value(GuildIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMembership extracts the caller's membership in the current guild
func GetMembership(ctx context.Context) *model.GuildMembership {
	if m, ok := ctx.Value(MembershipKey).(*model.GuildMembership); ok {
		return m
	}
	return nil
}

// GuildAccess returns a middleware that requires MANAGE_GUILD on the guild
// named by the {guildID} route parameter. Must run after Auth. Denials are
// written by onError.
func GuildAccess(checker ManageChecker, onError ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := GetAccessToken(r.Context())
			if token == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			guildID := chi.URLParam(r, GuildIDParam)
			if guildID == "" {
				model.NewBadRequestError("invalid guild ID").WriteJSON(w)
				return
			}

			membership, err := checker.Require(r.Context(), token, guildID)
			if err != nil {
				onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), GuildIDKey, guildID)
			ctx = context.WithValue(ctx, MembershipKey, membership)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
