package request

type FirebaseAuthRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}
