package security

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UnusablePassword returns the bcrypt hash of a random value that is
// never disclosed. Users created through the phone or federated paths
// authenticate only via those paths, so their local password slot must
// hold something that can never match an input.
func UnusablePassword() (string, error) {
	return HashPassword(uuid.New().String())
}
