package usecase

import (
	"hoodjunction-auth/internal/data/repository"
	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/pkg/security"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Identity    IdentityService
	OTP         OTPService
	ExternalOTP ExternalOTPService
}

func NewService(
	repo *repository.Repository,
	sms provider.SMSProvider,
	idp provider.IdentityProvider,
	jwt *security.JWTService,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	identity := NewIdentityService(repo.User, idp, jwt, log)

	return &Service{
		Identity:    identity,
		OTP:         NewOTPService(repo.OTP, sms, identity, config, log),
		ExternalOTP: NewExternalOTPService(idp, identity, config, log),
	}
}
