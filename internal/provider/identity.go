package provider

import (
	"context"
	"errors"
)

// ErrInvalidToken marks a bearer credential the identity provider
// rejected. It surfaces to the boundary as an authentication failure.
var ErrInvalidToken = errors.New("invalid identity token")

// VerifiedIdentity is the subject extracted from a validated external
// credential. Only SubjectID is guaranteed to be present.
type VerifiedIdentity struct {
	SubjectID   string
	Email       string
	PhoneNumber string
	DisplayName string
}

// ExternalUser is the identity provider's own account record.
type ExternalUser struct {
	UID         string
	PhoneNumber string
	Email       string
}

// IdentityProvider is the federated identity collaborator. FindByPhone
// returns (nil, nil) when no account exists for the phone; only
// provider-unreachable conditions are errors.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*VerifiedIdentity, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*ExternalUser, error)
	CreateUser(ctx context.Context, phoneNumber string) (*ExternalUser, error)
}
