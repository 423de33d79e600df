package adaptor

import (
	"errors"
	"net/http"
	"strings"

	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/internal/usecase"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth        *AuthHandler
	OTP         *OTPHandler
	ExternalOTP *ExternalOTPHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(service.Identity, log),
		OTP:         NewOTPHandler(service.OTP, log),
		ExternalOTP: NewExternalOTPHandler(service.ExternalOTP, log),
	}
}

// handleServiceError maps service errors to HTTP responses. OTP and
// token failures are reported generically so callers cannot probe
// which codes were ever issued.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	errMsg := err.Error()

	switch {
	case errors.Is(err, provider.ErrDelivery):
		log.Warn(operation+" failed - delivery", zap.Error(err))
		utils.ResponseBadGateway(w, "Failed to deliver OTP")

	case strings.Contains(errMsg, "invalid or expired"):
		log.Warn(operation+" failed - invalid code", zap.Error(err))
		utils.ResponseBadRequest(w, "Invalid or expired code", nil)

	case strings.Contains(errMsg, "invalid credentials"):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "deactivated"):
		log.Warn(operation+" failed - account deactivated", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case strings.Contains(errMsg, "not found"):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "validation failed"):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
