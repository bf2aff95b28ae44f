package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ideaforge-backend/pkg/auth"
	"ideaforge-backend/pkg/common"
)

// Authenticate validates the bearer token and places the caller's identity
// into the request context. Requests validated upstream by the API Gateway
// JWT authorizer carry the identity in headers instead of a parseable token.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-API-Gateway-Authorized") == "true" {
				userID := r.Header.Get("X-User-ID")
				if userID == "" {
					common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context from API Gateway")
					return
				}
				ctx := common.WithUserID(r.Context(), userID)
				if tier := r.Header.Get("X-User-Tier"); tier != "" {
					ctx = common.WithUserTier(ctx, tier)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			ctx := common.WithUserID(r.Context(), claims.UserID)
			if claims.Tier != "" {
				ctx = common.WithUserTier(ctx, claims.Tier)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit throttles authenticated callers per user. Unauthenticated
// requests pass through; Authenticate rejects them later.
func RateLimit(limiter *auth.UserRateLimiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := common.GetUserID(r.Context())
			if ok {
				allowed, err := limiter.Allow(r.Context(), userID)
				if err == nil && !allowed {
					common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
