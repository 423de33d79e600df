package repository

import (
	"context"
	"fmt"

	"hoodjunction-auth/internal/data/entity"
	"hoodjunction-auth/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.Otp) error
	// FindUnused returns the unused record matching phone and code, or
	// nil. There is deliberately no expiry filter here: the service
	// checks expiry itself so an expired record is left untouched and
	// stays distinguishable from a wrong code in the history.
	FindUnused(ctx context.Context, phoneNumber, code string) (*entity.Otp, error)
	FindLatestByPhone(ctx context.Context, phoneNumber string) (*entity.Otp, error)
	// MarkVerified consumes the record. The conditional `used = false`
	// makes consumption atomic: of two racing verifies, only one sees
	// a row updated.
	MarkVerified(ctx context.Context, otpID uuid.UUID) (bool, error)
	// SupersedeActive invalidates every unused, unverified record for
	// the phone in one statement. Returns the number of records closed.
	SupersedeActive(ctx context.Context, phoneNumber string) (int64, error)
}

type otpRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOTPRepository(db database.PgxIface, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.Otp) error {
	query := `
		INSERT INTO otps (id, phone_number, code, expires_at,
		                  verified_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.PhoneNumber,
		otp.Code,
		otp.ExpiresAt,
		otp.VerifiedAt,
		otp.Used,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("phone_number", otp.PhoneNumber),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.PhoneNumber, err)
	}

	return nil
}

func (r *otpRepository) FindUnused(ctx context.Context, phoneNumber, code string) (*entity.Otp, error) {
	query := `
		SELECT id, phone_number, code, expires_at,
		       verified_at, used, created_at
		FROM otps
		WHERE phone_number = $1
		  AND code = $2
		  AND used = false
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.Otp
	err := r.db.QueryRow(ctx, query, phoneNumber, code).Scan(
		&otp.ID,
		&otp.PhoneNumber,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.VerifiedAt,
		&otp.Used,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find unused OTP",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("find unused OTP for %s: %w", phoneNumber, err)
	}

	return &otp, nil
}

func (r *otpRepository) FindLatestByPhone(ctx context.Context, phoneNumber string) (*entity.Otp, error) {
	query := `
		SELECT id, phone_number, code, expires_at,
		       verified_at, used, created_at
		FROM otps
		WHERE phone_number = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.Otp
	err := r.db.QueryRow(ctx, query, phoneNumber).Scan(
		&otp.ID,
		&otp.PhoneNumber,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.VerifiedAt,
		&otp.Used,
		&otp.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find latest OTP",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return nil, fmt.Errorf("find latest OTP for %s: %w", phoneNumber, err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, otpID uuid.UUID) (bool, error) {
	query := `
		UPDATE otps
		SET used = true, verified_at = NOW()
		WHERE id = $1 AND used = false
	`

	result, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to mark OTP verified",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return false, fmt.Errorf("mark OTP %s verified: %w", otpID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *otpRepository) SupersedeActive(ctx context.Context, phoneNumber string) (int64, error) {
	query := `
		UPDATE otps
		SET used = true
		WHERE phone_number = $1
		  AND used = false
		  AND verified_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, phoneNumber)
	if err != nil {
		r.log.Error("Failed to supersede active OTPs",
			zap.Error(err),
			zap.String("phone_number", phoneNumber),
		)
		return 0, fmt.Errorf("supersede active OTPs for %s: %w", phoneNumber, err)
	}

	return result.RowsAffected(), nil
}
