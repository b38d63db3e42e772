package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/lighthouse-point/internal/http/response"
	"github.com/diagnosis/lighthouse-point/pkg/auth"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireServiceToken accepts only requests carrying a relay service token signed
// with secret. An empty secret turns the check off for local development.
func RequireServiceToken(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				response.Unauthorized(w, "invalid authorization header")
				return
			}
			claims, err := auth.Parse(raw, secret)
			if err != nil || claims.Scope != auth.RelayScope {
				logger.WarnContext(r.Context(), "Rejected relay token", "error", err)
				response.Unauthorized(w, "invalid authorization token")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(CtxClaims).(*auth.Claims)
	return claims
}
