package middleware

import (
	"context"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"net/http"
	"slices"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing user data in request context
type contextKey string

const ClaimsContextKey contextKey = "claims"

// UserAuthMiddleware protects routes to only logged-in users
func (mw *Middleware) UserAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.AccessTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles only lets users with one of roles through.
// Must be used after UserAuthMiddleware
func (mw *Middleware) RequireRoles(roles ...tables.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaimsFromContext(r.Context())
			if !ok {
				gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
				return
			}

			if !slices.Contains(roles, tables.Role(claims.Role)) {
				mw.logger.Warn("User without required role attempted to access route",
					gecho.Field("user_id", claims.Sub),
					gecho.Field("role", claims.Role),
					gecho.Field("path", r.URL.Path),
				)
				gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
