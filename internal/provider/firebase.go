package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hoodjunction-auth/pkg/utils"

	"go.uber.org/zap"
)

// firebaseProvider talks to a Firebase-style identity toolkit REST API.
// Token signatures are checked by the provider, not here.
type firebaseProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *zap.Logger
}

func NewFirebaseProvider(config utils.IdentityConfig, log *zap.Logger) IdentityProvider {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &firebaseProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		log:     log.With(zap.String("provider", "firebase")),
	}
}

type accountRecord struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	DisplayName string `json:"displayName"`
}

type accountsResponse struct {
	Users []accountRecord `json:"users"`
}

func (p *firebaseProvider) VerifyToken(ctx context.Context, idToken string) (*VerifiedIdentity, error) {
	payload := map[string]string{"idToken": idToken}

	var result accountsResponse
	status, err := p.post(ctx, "/v1/accounts:lookup", payload, &result)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, ErrInvalidToken
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("identity provider status %d", status)
	}
	if len(result.Users) == 0 {
		return nil, ErrInvalidToken
	}

	account := result.Users[0]
	return &VerifiedIdentity{
		SubjectID:   account.LocalID,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
		DisplayName: account.DisplayName,
	}, nil
}

func (p *firebaseProvider) FindByPhone(ctx context.Context, phoneNumber string) (*ExternalUser, error) {
	payload := map[string][]string{"phoneNumber": {phoneNumber}}

	var result accountsResponse
	status, err := p.post(ctx, "/v1/accounts:lookup", payload, &result)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("identity provider status %d", status)
	}
	if len(result.Users) == 0 {
		return nil, nil
	}

	account := result.Users[0]
	return &ExternalUser{
		UID:         account.LocalID,
		PhoneNumber: account.PhoneNumber,
		Email:       account.Email,
	}, nil
}

func (p *firebaseProvider) CreateUser(ctx context.Context, phoneNumber string) (*ExternalUser, error) {
	payload := map[string]string{"phoneNumber": phoneNumber}

	var result accountRecord
	status, err := p.post(ctx, "/v1/accounts", payload, &result)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("identity provider status %d", status)
	}

	p.log.Info("Created external identity",
		zap.String("uid", result.LocalID),
		zap.String("phone_number", phoneNumber),
	)

	return &ExternalUser{
		UID:         result.LocalID,
		PhoneNumber: phoneNumber,
		Email:       result.Email,
	}, nil
}

func (p *firebaseProvider) post(ctx context.Context, path string, payload, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("encode identity request: %w", err)
	}

	endpoint := p.baseURL + path + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Error("Identity provider request failed",
			zap.Error(err),
			zap.String("path", path),
		)
		return 0, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode identity response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
