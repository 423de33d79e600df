package request

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,e164"`
	OTP         string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

type ExternalVerifyOTPRequest struct {
	PhoneNumber    string `json:"phone_number" validate:"required,e164"`
	OTP            string `json:"otp" validate:"required,numeric,min=4,max=8"`
	VerificationID string `json:"verification_id" validate:"required,uuid"`
}
