package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hoodjunction-auth/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFirebase(t *testing.T, handler http.HandlerFunc) IdentityProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewFirebaseProvider(utils.IdentityConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		TimeoutSeconds: 2,
	}, zap.NewNop())
}

func TestFirebaseVerifyToken(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[{"localId":"uid-1","email":"ada@example.com","phoneNumber":"+15551234567","displayName":"Ada"}]}`))
	})

	identity, err := idp.VerifyToken(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", identity.SubjectID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "+15551234567", identity.PhoneNumber)
	assert.Equal(t, "Ada", identity.DisplayName)
}

func TestFirebaseVerifyTokenRejected(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := idp.VerifyToken(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestFirebaseVerifyTokenNoAccount(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[]}`))
	})

	_, err := idp.VerifyToken(context.Background(), "orphan")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestFirebaseFindByPhone(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[{"localId":"uid-2","phoneNumber":"+15551234567"}]}`))
	})

	external, err := idp.FindByPhone(context.Background(), "+15551234567")
	require.NoError(t, err)
	require.NotNil(t, external)
	assert.Equal(t, "uid-2", external.UID)
}

func TestFirebaseFindByPhoneNotFound(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"users":[]}`))
	})

	external, err := idp.FindByPhone(context.Background(), "+15550000000")
	require.NoError(t, err)
	assert.Nil(t, external, "a missing account is not an error")
}

func TestFirebaseCreateUser(t *testing.T) {
	idp := newTestFirebase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"localId":"uid-3"}`))
	})

	external, err := idp.CreateUser(context.Background(), "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "uid-3", external.UID)
	assert.Equal(t, "+15551234567", external.PhoneNumber)
}

func TestFirebaseUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	idp := NewFirebaseProvider(utils.IdentityConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 1,
	}, zap.NewNop())

	_, err := idp.VerifyToken(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken), "infrastructure failure is not a token rejection")
}
