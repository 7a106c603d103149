package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arleipolo/storefront-backend/api/responses"
	pkgauth "github.com/arleipolo/storefront-backend/pkg/auth"
	"github.com/arleipolo/storefront-backend/pkg/config"
	pkgerrors "github.com/arleipolo/storefront-backend/pkg/errors"
	"github.com/arleipolo/storefront-backend/pkg/logger"
)

type claimsKey struct{}

// Auth validates the bearer token and attaches the claims to the context.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated claims, if any.
func ClaimsFromContext(ctx context.Context) (*pkgauth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*pkgauth.Claims)
	return claims, ok
}
