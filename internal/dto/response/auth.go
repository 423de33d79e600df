package response

import (
	"time"

	"hoodjunction-auth/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Username  string          `json:"username"`
	Phone     string          `json:"phone,omitempty"`
	Role      entity.UserRole `json:"role"`
}
