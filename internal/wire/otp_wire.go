package wire

import (
	"hoodjunction-auth/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOTP(
	r chi.Router,
	otpHandler *adaptor.OTPHandler,
	externalHandler *adaptor.ExternalOTPHandler,
) {
	// Durable path: server-generated codes via the SMS gateway
	r.Post("/api/otp/send", otpHandler.Send)
	r.Post("/api/otp/resend", otpHandler.Resend)
	r.Post("/api/otp/verify", otpHandler.Verify)

	// Ephemeral path: provider-linked flow
	r.Post("/api/firebase/otp/send", externalHandler.Send)
	r.Post("/api/firebase/otp/verify", externalHandler.Verify)
}
