package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func GenerateUUIDString() string {
	return uuid.New().String()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateVerificationID creates an opaque correlation token for an
// OTP issuance.
func GenerateVerificationID() string {
	return uuid.New().String()
}

// ==================== OTP ====================

var ten = big.NewInt(10)

// GenerateOTP creates a uniformly random numeric OTP of the given
// length. Leading zeros are preserved: the result is always exactly
// length digits.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code)
}
