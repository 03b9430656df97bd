package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"storefront/internal/auth"
	"storefront/internal/logger"
	"storefront/internal/user"
)

type contextKey string

const TokenClaimsKey contextKey = "jwtClaims"

func WithClaims(ctx context.Context, claims *user.CustomClaims) context.Context {
	return context.WithValue(ctx, TokenClaimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*user.CustomClaims, bool) {
	claims, ok := ctx.Value(TokenClaimsKey).(*user.CustomClaims)
	return claims, ok && claims != nil
}

// Auth reads an optional session token (cookie or Bearer header). Requests
// without one pass through as anonymous; a bad or expired token is rejected
// with 401.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := user.ParseToken(tokenStr, secret)
			if err != nil {
				logger.FromCtx(r.Context()).Info("rejected token", zap.Error(err))
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
