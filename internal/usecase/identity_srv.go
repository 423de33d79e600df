package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoodjunction-auth/internal/data/entity"
	"hoodjunction-auth/internal/data/repository"
	"hoodjunction-auth/internal/dto/response"
	"hoodjunction-auth/internal/provider"
	"hoodjunction-auth/pkg/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IdentityService interface {
	// Resolve maps a verified external identity to a local user,
	// creating one if nothing matches by email or phone. Repeated
	// calls with the same identity return the same user.
	Resolve(ctx context.Context, identity *provider.VerifiedIdentity) (*entity.User, error)
	// ResolveByPhone finds or creates the local user for a phone
	// number verified through the durable OTP path.
	ResolveByPhone(ctx context.Context, phoneNumber string) (*entity.User, error)
	// ResolveProviderPhone finds or creates the local user for a phone
	// verified through the provider-linked path, ensuring a provider
	// account exists and linking its id.
	ResolveProviderPhone(ctx context.Context, phoneNumber string) (*entity.User, error)
	// AuthenticateWithToken validates a federated credential and
	// returns a session for the resolved user.
	AuthenticateWithToken(ctx context.Context, idToken string) (*response.AuthResponse, error)
	IssueSession(user *entity.User) (*response.AuthResponse, error)
}

type identityService struct {
	users repository.UserRepository
	idp   provider.IdentityProvider
	jwt   *security.JWTService
	log   *zap.Logger
}

func NewIdentityService(
	users repository.UserRepository,
	idp provider.IdentityProvider,
	jwt *security.JWTService,
	log *zap.Logger,
) IdentityService {
	return &identityService{
		users: users,
		idp:   idp,
		jwt:   jwt,
		log:   log,
	}
}

func (s *identityService) Resolve(ctx context.Context, identity *provider.VerifiedIdentity) (*entity.User, error) {
	// Lookup order: email first, then phone
	var user *entity.User
	var err error

	if identity.Email != "" {
		user, err = s.users.FindByEmail(ctx, identity.Email)
		if err != nil {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
	}

	if user == nil && identity.PhoneNumber != "" {
		user, err = s.users.FindByPhone(ctx, identity.PhoneNumber)
		if err != nil {
			return nil, fmt.Errorf("find user by phone: %w", err)
		}
	}

	if user != nil {
		return s.backfill(ctx, user, identity)
	}

	// Username priority: email, then phone, then the subject id
	username := identity.SubjectID
	if identity.PhoneNumber != "" {
		username = identity.PhoneNumber
	}
	if identity.Email != "" {
		username = identity.Email
	}

	user, err = s.createUser(ctx, username, identity)
	if err != nil {
		return nil, err
	}

	s.log.Info("Created user from external identity",
		zap.String("user_id", user.ID.String()),
		zap.String("subject_id", identity.SubjectID),
	)

	return user, nil
}

// backfill merges newly observed identity attributes into the local
// record. The merge is additive: populated local fields always win.
func (s *identityService) backfill(ctx context.Context, user *entity.User, identity *provider.VerifiedIdentity) (*entity.User, error) {
	changed := false

	if user.FullName == "" && identity.DisplayName != "" {
		user.FullName = identity.DisplayName
		changed = true
	}
	if (user.ExternalID == nil || *user.ExternalID == "") && identity.SubjectID != "" {
		subjectID := identity.SubjectID
		user.ExternalID = &subjectID
		changed = true
	}
	if user.Email == nil && identity.Email != "" {
		email := identity.Email
		user.Email = &email
		changed = true
	}
	if user.Phone == nil && identity.PhoneNumber != "" {
		phone := identity.PhoneNumber
		user.Phone = &phone
		changed = true
	}

	if !changed {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("backfill user %s: %w", user.ID.String(), err)
	}

	return user, nil
}

func (s *identityService) createUser(ctx context.Context, username string, identity *provider.VerifiedIdentity) (*entity.User, error) {
	placeholder, err := security.UnusablePassword()
	if err != nil {
		return nil, fmt.Errorf("generate placeholder password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     username,
		PasswordHash: placeholder,
		FullName:     identity.DisplayName,
		Role:         entity.RoleUser,
		IsActive:     true,
	}

	if identity.Email != "" {
		email := identity.Email
		user.Email = &email
	}
	if identity.PhoneNumber != "" {
		phone := identity.PhoneNumber
		user.Phone = &phone
	}
	if identity.SubjectID != "" {
		subjectID := identity.SubjectID
		user.ExternalID = &subjectID
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *identityService) ResolveByPhone(ctx context.Context, phoneNumber string) (*entity.User, error) {
	user, err := s.users.FindByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("find user by phone: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.createUser(ctx, phoneNumber, &provider.VerifiedIdentity{PhoneNumber: phoneNumber})
	if err != nil {
		return nil, err
	}

	s.log.Info("Created user from verified phone",
		zap.String("user_id", user.ID.String()),
	)

	return user, nil
}

func (s *identityService) ResolveProviderPhone(ctx context.Context, phoneNumber string) (*entity.User, error) {
	external, err := s.idp.FindByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("identity provider lookup: %w", err)
	}
	if external == nil {
		external, err = s.idp.CreateUser(ctx, phoneNumber)
		if err != nil {
			return nil, fmt.Errorf("identity provider create: %w", err)
		}
	}

	user, err := s.ResolveByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}

	// Link the provider account id if the local record has none
	if user.ExternalID == nil || *user.ExternalID == "" {
		uid := external.UID
		user.ExternalID = &uid
		user.UpdatedAt = time.Now()
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link external id: %w", err)
		}
	}

	return user, nil
}

func (s *identityService) AuthenticateWithToken(ctx context.Context, idToken string) (*response.AuthResponse, error) {
	identity, err := s.idp.VerifyToken(ctx, idToken)
	if err != nil {
		if errors.Is(err, provider.ErrInvalidToken) {
			s.log.Warn("Rejected identity token")
			return nil, fmt.Errorf("invalid credentials")
		}
		s.log.Error("Identity provider token verification failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed")
	}

	user, err := s.Resolve(ctx, identity)
	if err != nil {
		s.log.Error("Failed to resolve identity",
			zap.Error(err),
			zap.String("subject_id", identity.SubjectID),
		)
		return nil, fmt.Errorf("authentication failed")
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to authenticate",
			zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account is deactivated")
	}

	return s.IssueSession(user)
}

func (s *identityService) IssueSession(user *entity.User) (*response.AuthResponse, error) {
	phone := ""
	if user.Phone != nil {
		phone = *user.Phone
	}

	token, expiresAt, err := s.jwt.Issue(user.ID, phone, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue session token",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("failed to create session")
	}

	return &response.AuthResponse{
		UserID:    user.ID.String(),
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
		Phone:     phone,
		Role:      user.Role,
	}, nil
}
