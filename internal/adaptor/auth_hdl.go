package adaptor

import (
	"encoding/json"
	"net/http"

	"hoodjunction-auth/internal/dto/request"
	"hoodjunction-auth/internal/usecase"
	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler serves federated sign-in with an identity-provider token.
type AuthHandler struct {
	service usecase.IdentityService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.IdentityService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// SignIn handles POST /api/auth/firebase
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.FirebaseAuthRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	auth, err := h.service.AuthenticateWithToken(r.Context(), req.IDToken)
	if err != nil {
		handleServiceError(w, h.log, err, "federated sign-in")
		return
	}

	utils.ResponseSuccess(w, "Authentication successful", auth)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	phone, _ := utils.GetPhoneFromContext(r.Context())
	role, _ := utils.GetRoleFromContext(r.Context())

	utils.ResponseSuccess(w, "Authenticated principal", map[string]string{
		"user_id": userID.String(),
		"phone":   phone,
		"role":    role,
	})
}
