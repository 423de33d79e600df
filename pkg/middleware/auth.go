package middleware

import (
	"net/http"
	"strings"

	"hoodjunction-auth/pkg/security"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer access token and attaches the principal
// to the request context.
func Auth(jwtService *security.JWTService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := jwtService.Verify(parts[1])
			if err != nil {
				logger.Warn("Rejected access token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.PhoneNumber, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
