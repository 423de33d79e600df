package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"

	"hoodjunction-auth/internal/dto/response"
	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// ExternalOTPService is the ephemeral OTP path used for the
// provider-linked flow. Entries live only in process memory, one per
// phone, with lazy expiry on read.
type ExternalOTPService interface {
	// Send generates a code, overwriting any live entry for the phone,
	// and returns a verification id bound to this issuance.
	Send(ctx context.Context, phoneNumber string) (*response.ExternalOtpResponse, error)
	// Verify fails closed. An expired entry is deleted on read. The
	// verification id must match the one returned by Send. A wrong
	// code leaves the entry intact so the caller can retry until
	// expiry; a correct code consumes the entry.
	Verify(ctx context.Context, phoneNumber, code, verificationID string) bool
	// Authenticate verifies the code, links the provider account and
	// mints a session.
	Authenticate(ctx context.Context, phoneNumber, code, verificationID string) (*response.AuthResponse, error)
}

type cacheEntry struct {
	code           string
	verificationID string
	expiresAt      time.Time
}

type externalOTPService struct {
	mu      sync.Mutex
	entries map[string]cacheEntry

	idp      provider.IdentityProvider
	identity IdentityService
	config   *utils.Config
	log      *zap.Logger
}

func NewExternalOTPService(
	idp provider.IdentityProvider,
	identity IdentityService,
	config *utils.Config,
	log *zap.Logger,
) ExternalOTPService {
	return &externalOTPService{
		entries:  make(map[string]cacheEntry),
		idp:      idp,
		identity: identity,
		config:   config,
		log:      log,
	}
}

func (s *externalOTPService) Send(ctx context.Context, phoneNumber string) (*response.ExternalOtpResponse, error) {
	code := utils.GenerateOTP(s.config.OTP.Length)
	verificationID := utils.GenerateVerificationID()
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	s.mu.Lock()
	// Overwriting implicitly invalidates any previous code for the phone
	s.entries[phoneNumber] = cacheEntry{
		code:           code,
		verificationID: verificationID,
		expiresAt:      expiresAt,
	}
	s.mu.Unlock()

	if s.config.App.Debug {
		s.log.Debug("External OTP generated",
			zap.String("phone_number", phoneNumber),
			zap.String("code", code),
		)
	}

	// Read-only provider check, only to pick the message
	message := "OTP sent to new user."
	external, err := s.idp.FindByPhone(ctx, phoneNumber)
	if err != nil {
		s.log.Warn("Identity provider lookup failed during send",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
	} else if external != nil {
		message = "OTP sent to existing user."
	}

	s.log.Info("External OTP issued",
		zap.String("phone_number", phoneNumber),
		zap.String("verification_id", verificationID),
	)

	return &response.ExternalOtpResponse{
		PhoneNumber:    phoneNumber,
		VerificationID: verificationID,
		Message:        message,
		ExpiresAt:      expiresAt,
	}, nil
}

func (s *externalOTPService) Verify(ctx context.Context, phoneNumber, code, verificationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[phoneNumber]
	if !ok {
		s.log.Warn("No OTP entry for phone",
			zap.String("phone_number", phoneNumber))
		return false
	}

	if time.Now().After(entry.expiresAt) {
		// Lazy deletion on read
		delete(s.entries, phoneNumber)
		s.log.Warn("External OTP expired",
			zap.String("phone_number", phoneNumber))
		return false
	}

	if subtle.ConstantTimeCompare([]byte(entry.verificationID), []byte(verificationID)) != 1 {
		s.log.Warn("Verification id mismatch",
			zap.String("phone_number", phoneNumber))
		return false
	}

	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		// Entry stays; the caller may retry until expiry
		s.log.Warn("Wrong external OTP",
			zap.String("phone_number", phoneNumber))
		return false
	}

	// Single use
	delete(s.entries, phoneNumber)
	s.log.Info("External OTP verified",
		zap.String("phone_number", phoneNumber))
	return true
}

func (s *externalOTPService) Authenticate(ctx context.Context, phoneNumber, code, verificationID string) (*response.AuthResponse, error) {
	if !s.Verify(ctx, phoneNumber, code, verificationID) {
		return nil, fmt.Errorf("invalid or expired code")
	}

	user, err := s.identity.ResolveProviderPhone(ctx, phoneNumber)
	if err != nil {
		s.log.Error("Failed to resolve provider-linked user",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("authentication failed")
	}

	return s.identity.IssueSession(user)
}
