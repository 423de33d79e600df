package adaptor

import (
	"encoding/json"
	"net/http"

	"hoodjunction-auth/internal/dto/request"
	"hoodjunction-auth/internal/usecase"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// ExternalOTPHandler serves the ephemeral, provider-linked OTP path.
type ExternalOTPHandler struct {
	service usecase.ExternalOTPService
	log     *zap.Logger
}

func NewExternalOTPHandler(service usecase.ExternalOTPService, log *zap.Logger) *ExternalOTPHandler {
	return &ExternalOTPHandler{
		service: service,
		log:     log,
	}
}

// Send handles POST /api/firebase/otp/send
func (h *ExternalOTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Send(r.Context(), req.PhoneNumber)
	if err != nil {
		handleServiceError(w, h.log, err, "send external OTP")
		return
	}

	utils.ResponseSuccess(w, resp.Message, resp)
}

// Verify handles POST /api/firebase/otp/verify
func (h *ExternalOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req request.ExternalVerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	auth, err := h.service.Authenticate(r.Context(), req.PhoneNumber, req.OTP, req.VerificationID)
	if err != nil {
		handleServiceError(w, h.log, err, "verify external OTP")
		return
	}

	utils.ResponseSuccess(w, "Phone number verified", auth)
}
