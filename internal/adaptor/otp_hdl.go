package adaptor

import (
	"encoding/json"
	"net/http"

	"hoodjunction-auth/internal/dto/request"
	"hoodjunction-auth/internal/dto/response"
	"hoodjunction-auth/internal/usecase"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// OTPHandler serves the durable OTP path: server-generated codes
// delivered over SMS and stored for history.
type OTPHandler struct {
	service usecase.OTPService
	log     *zap.Logger
}

func NewOTPHandler(service usecase.OTPService, log *zap.Logger) *OTPHandler {
	return &OTPHandler{
		service: service,
		log:     log,
	}
}

// Send handles POST /api/otp/send
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSendRequest(w, r)
	if !ok {
		return
	}

	otp, err := h.service.Generate(r.Context(), req.PhoneNumber)
	if err != nil {
		handleServiceError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP sent successfully", &response.OtpResponse{
		PhoneNumber: otp.PhoneNumber,
		ExpiresAt:   otp.ExpiresAt,
	})
}

// Resend handles POST /api/otp/resend
func (h *OTPHandler) Resend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeSendRequest(w, r)
	if !ok {
		return
	}

	otp, err := h.service.Resend(r.Context(), req.PhoneNumber)
	if err != nil {
		handleServiceError(w, h.log, err, "resend OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP resent successfully", &response.OtpResponse{
		PhoneNumber: otp.PhoneNumber,
		ExpiresAt:   otp.ExpiresAt,
	})
}

// Verify handles POST /api/otp/verify
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	auth, err := h.service.Authenticate(r.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		handleServiceError(w, h.log, err, "verify OTP")
		return
	}

	utils.ResponseSuccess(w, "Phone number verified", auth)
}

func (h *OTPHandler) decodeSendRequest(w http.ResponseWriter, r *http.Request) (*request.SendOTPRequest, bool) {
	var req request.SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return nil, false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return nil, false
	}

	return &req, true
}
