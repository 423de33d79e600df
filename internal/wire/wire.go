package wire

import (
	"net/http"

	"hoodjunction-auth/internal/adaptor"
	"hoodjunction-auth/internal/data/repository"
	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/internal/usecase"
	"hoodjunction-auth/pkg/middleware"
	"hoodjunction-auth/pkg/security"
	"hoodjunction-auth/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled dependencies
type App struct {
	Router *chi.Mux
}

// Wiring assembles providers, services, handlers and routes
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	sms := provider.NewMSG91Provider(config.MSG91, logger)
	idp := provider.NewFirebaseProvider(config.Identity, logger)
	jwtService := security.NewJWTService(config.JWT.Secret, config.JWT.ExpiryHours)

	service := usecase.NewService(repo, sms, idp, jwtService, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, jwtService, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	jwtService *security.JWTService,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireOTP(r, handler.OTP, handler.ExternalOTP)
	wireAuth(r, handler.Auth, jwtService, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
