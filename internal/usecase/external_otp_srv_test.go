package usecase

import (
	"context"
	"testing"
	"time"

	"hoodjunction-auth/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExternalOTPService(t *testing.T) (*externalOTPService, *fakeIDP, *fakeUserRepo) {
	t.Helper()
	idp := newFakeIDP()
	users := newFakeUserRepo()
	jwtService := security.NewJWTService("test-secret", 1)
	identity := NewIdentityService(users, idp, jwtService, zap.NewNop())
	service := NewExternalOTPService(idp, identity, testConfig(), zap.NewNop()).(*externalOTPService)
	return service, idp, users
}

func TestExternalOTPSendAndVerify(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)
	require.NotEmpty(t, resp.VerificationID)
	assert.Equal(t, "OTP sent to new user.", resp.Message)

	service.mu.Lock()
	code := service.entries[testPhone].code
	service.mu.Unlock()
	require.Len(t, code, 6)

	ok := service.Verify(ctx, testPhone, code, resp.VerificationID)
	assert.True(t, ok)

	// Entry is consumed on success
	ok = service.Verify(ctx, testPhone, code, resp.VerificationID)
	assert.False(t, ok)
}

func TestExternalOTPSendExistingUserMessage(t *testing.T) {
	service, idp, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	_, err := idp.CreateUser(ctx, testPhone)
	require.NoError(t, err)

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, "OTP sent to existing user.", resp.Message)
}

func TestExternalOTPWrongCodeKeepsEntry(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)

	ok := service.Verify(ctx, testPhone, "999999", resp.VerificationID)
	assert.False(t, ok)

	// A wrong code does not burn the entry; the right one still works
	service.mu.Lock()
	code := service.entries[testPhone].code
	service.mu.Unlock()

	ok = service.Verify(ctx, testPhone, code, resp.VerificationID)
	assert.True(t, ok)
}

func TestExternalOTPVerificationIDBinding(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)

	service.mu.Lock()
	code := service.entries[testPhone].code
	service.mu.Unlock()

	ok := service.Verify(ctx, testPhone, code, "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.False(t, ok, "a foreign verification id must not verify")

	ok = service.Verify(ctx, testPhone, code, resp.VerificationID)
	assert.True(t, ok)
}

func TestExternalOTPExpiredEntryDeleted(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)

	service.mu.Lock()
	entry := service.entries[testPhone]
	entry.expiresAt = time.Now().Add(-time.Minute)
	service.entries[testPhone] = entry
	service.mu.Unlock()

	ok := service.Verify(ctx, testPhone, entry.code, resp.VerificationID)
	assert.False(t, ok)

	// Lazy deletion on read
	service.mu.Lock()
	_, present := service.entries[testPhone]
	service.mu.Unlock()
	assert.False(t, present)
}

func TestExternalOTPResendOverwrites(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	first, err := service.Send(ctx, testPhone)
	require.NoError(t, err)
	service.mu.Lock()
	firstCode := service.entries[testPhone].code
	service.mu.Unlock()

	second, err := service.Send(ctx, testPhone)
	require.NoError(t, err)
	require.NotEqual(t, first.VerificationID, second.VerificationID)

	// The first issuance is implicitly invalidated by the overwrite:
	// its verification id no longer matches the stored entry
	ok := service.Verify(ctx, testPhone, firstCode, first.VerificationID)
	assert.False(t, ok)
}

func TestExternalOTPAuthenticateLinksProvider(t *testing.T) {
	service, idp, users := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)

	service.mu.Lock()
	code := service.entries[testPhone].code
	service.mu.Unlock()

	auth, err := service.Authenticate(ctx, testPhone, code, resp.VerificationID)
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, testPhone, auth.Phone)

	// The provider account was created and its id linked locally
	external, err := idp.FindByPhone(ctx, testPhone)
	require.NoError(t, err)
	require.NotNil(t, external)

	user, err := users.FindByPhone(ctx, testPhone)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, user.ExternalID)
	assert.Equal(t, external.UID, *user.ExternalID)
	assert.NotEmpty(t, user.PasswordHash, "placeholder password is set")
}

func TestExternalOTPAuthenticateWrongCode(t *testing.T) {
	service, _, _ := newTestExternalOTPService(t)
	ctx := context.Background()

	resp, err := service.Send(ctx, testPhone)
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, testPhone, "000000", resp.VerificationID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}
