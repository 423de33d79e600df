package wire

import (
	"hoodjunction-auth/internal/adaptor"
	"hoodjunction-auth/pkg/middleware"
	"hoodjunction-auth/pkg/security"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	jwtService *security.JWTService,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/firebase", authHandler.SignIn)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.Auth(jwtService, log)).Get("/api/me", authHandler.Me)
}
