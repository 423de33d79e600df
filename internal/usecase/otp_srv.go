package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hoodjunction-auth/internal/data/entity"
	"hoodjunction-auth/internal/data/repository"
	"hoodjunction-auth/internal/dto/response"
	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPService is the durable OTP path. Records transition
// Issued -> Verified | Expired | Superseded and are kept for history.
type OTPService interface {
	// Generate persists a fresh code and hands it to the SMS gateway.
	// The record is persisted before delivery is attempted; a delivery
	// failure is returned alongside the surviving record.
	Generate(ctx context.Context, phoneNumber string) (*entity.Otp, error)
	// Resend supersedes any live code for the phone, then generates a
	// new one. At most one live code per phone afterwards.
	Resend(ctx context.Context, phoneNumber string) (*entity.Otp, error)
	// Verify fails closed: false for unknown, wrong, already used or
	// expired codes. An expired record is left untouched.
	Verify(ctx context.Context, phoneNumber, code string) (bool, error)
	// Authenticate verifies the code and mints a session for the
	// resolved user.
	Authenticate(ctx context.Context, phoneNumber, code string) (*response.AuthResponse, error)
}

type otpService struct {
	otps     repository.OTPRepository
	sms      provider.SMSProvider
	identity IdentityService
	config   *utils.Config
	log      *zap.Logger

	// phoneLocks serializes resends per phone so two racing resends
	// cannot each leave a live code behind. Different phones never
	// contend.
	phoneLocks sync.Map
}

func (s *otpService) lockPhone(phoneNumber string) *sync.Mutex {
	lock, _ := s.phoneLocks.LoadOrStore(phoneNumber, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func NewOTPService(
	otps repository.OTPRepository,
	sms provider.SMSProvider,
	identity IdentityService,
	config *utils.Config,
	log *zap.Logger,
) OTPService {
	return &otpService{
		otps:     otps,
		sms:      sms,
		identity: identity,
		config:   config,
		log:      log,
	}
}

func (s *otpService) Generate(ctx context.Context, phoneNumber string) (*entity.Otp, error) {
	code := utils.GenerateOTP(s.config.OTP.Length)
	now := time.Now()

	otp := &entity.Otp{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		PhoneNumber: phoneNumber,
		Code:        code,
		ExpiresAt:   now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
		Used:        false,
	}

	// Persist before delivery: a failed handoff must not lose the
	// record, and a persisted record does not imply delivery.
	if err := s.otps.Create(ctx, otp); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err),
			zap.String("phone_number", phoneNumber))
		return nil, fmt.Errorf("failed to generate OTP")
	}

	if s.config.App.Debug {
		// Dev profile only. Production logs metadata, never the code.
		s.log.Debug("OTP generated",
			zap.String("phone_number", phoneNumber),
			zap.String("code", code),
			zap.Time("expires_at", otp.ExpiresAt),
		)
	}

	if err := s.sms.Deliver(ctx, phoneNumber, code); err != nil {
		s.log.Error("Failed to deliver OTP", zap.Error(err),
			zap.String("phone_number", phoneNumber))
		return otp, fmt.Errorf("failed to deliver OTP: %w", err)
	}

	s.log.Info("OTP issued",
		zap.String("phone_number", phoneNumber),
		zap.Time("expires_at", otp.ExpiresAt),
	)

	return otp, nil
}

func (s *otpService) Resend(ctx context.Context, phoneNumber string) (*entity.Otp, error) {
	lock := s.lockPhone(phoneNumber)
	lock.Lock()
	defer lock.Unlock()

	// Close out every live code first so only the new one can verify
	superseded, err := s.otps.SupersedeActive(ctx, phoneNumber)
	if err != nil {
		s.log.Error("Failed to supersede OTPs", zap.Error(err),
			zap.String("phone_number", phoneNumber))
		return nil, fmt.Errorf("failed to resend OTP")
	}

	if superseded > 0 {
		s.log.Info("Superseded previous OTPs",
			zap.String("phone_number", phoneNumber),
			zap.Int64("count", superseded),
		)
	}

	return s.Generate(ctx, phoneNumber)
}

func (s *otpService) Verify(ctx context.Context, phoneNumber, code string) (bool, error) {
	otp, err := s.otps.FindUnused(ctx, phoneNumber, code)
	if err != nil {
		return false, fmt.Errorf("failed to verify OTP")
	}
	if otp == nil {
		return false, nil
	}

	// Expired records are never marked used, so expiry history stays
	// distinguishable from wrong-code history.
	if otp.IsExpired() {
		s.log.Warn("Expired OTP presented",
			zap.String("phone_number", phoneNumber))
		return false, nil
	}

	consumed, err := s.otps.MarkVerified(ctx, otp.ID)
	if err != nil {
		return false, fmt.Errorf("failed to verify OTP")
	}
	if !consumed {
		// Lost the race to a concurrent verify or resend.
		return false, nil
	}

	s.log.Info("OTP verified", zap.String("phone_number", phoneNumber))
	return true, nil
}

func (s *otpService) Authenticate(ctx context.Context, phoneNumber, code string) (*response.AuthResponse, error) {
	ok, err := s.Verify(ctx, phoneNumber, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Cause is never distinguished for the caller
		return nil, fmt.Errorf("invalid or expired code")
	}

	user, err := s.identity.ResolveByPhone(ctx, phoneNumber)
	if err != nil {
		s.log.Error("Failed to resolve user after OTP verification",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("authentication failed")
	}

	return s.identity.IssueSession(user)
}
