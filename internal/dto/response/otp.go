package response

import "time"

type OtpResponse struct {
	PhoneNumber string    `json:"phone_number"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type ExternalOtpResponse struct {
	PhoneNumber    string    `json:"phone_number"`
	VerificationID string    `json:"verification_id"`
	Message        string    `json:"message"`
	ExpiresAt      time.Time `json:"expires_at"`
}
