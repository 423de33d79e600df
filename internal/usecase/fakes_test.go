package usecase

import (
	"context"
	"sync"
	"time"

	"hoodjunction-auth/internal/data/entity"
	"hoodjunction-auth/internal/provider"

	"github.com/google/uuid"
)

// fakeOTPRepo mimics the SQL semantics of the real repository: value
// copies in and out, conditional updates, newest-first matching.
type fakeOTPRepo struct {
	mu      sync.Mutex
	records []entity.Otp
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{}
}

func (f *fakeOTPRepo) Create(ctx context.Context, otp *entity.Otp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *otp)
	return nil
}

func (f *fakeOTPRepo) FindUnused(ctx context.Context, phoneNumber, code string) (*entity.Otp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *entity.Otp
	for i := range f.records {
		r := f.records[i]
		if r.PhoneNumber != phoneNumber || r.Code != code || r.Used {
			continue
		}
		if found == nil || r.CreatedAt.After(found.CreatedAt) {
			copied := r
			found = &copied
		}
	}
	return found, nil
}

func (f *fakeOTPRepo) FindLatestByPhone(ctx context.Context, phoneNumber string) (*entity.Otp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found *entity.Otp
	for i := range f.records {
		r := f.records[i]
		if r.PhoneNumber != phoneNumber {
			continue
		}
		if found == nil || r.CreatedAt.After(found.CreatedAt) {
			copied := r
			found = &copied
		}
	}
	return found, nil
}

func (f *fakeOTPRepo) MarkVerified(ctx context.Context, otpID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == otpID && !f.records[i].Used {
			now := time.Now()
			f.records[i].Used = true
			f.records[i].VerifiedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOTPRepo) SupersedeActive(ctx context.Context, phoneNumber string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for i := range f.records {
		r := &f.records[i]
		if r.PhoneNumber == phoneNumber && !r.Used && r.VerifiedAt == nil {
			r.Used = true
			count++
		}
	}
	return count, nil
}

func (f *fakeOTPRepo) get(otpID uuid.UUID) *entity.Otp {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == otpID {
			copied := f.records[i]
			return &copied
		}
	}
	return nil
}

// fakeUserRepo keeps users in memory with copy-in/copy-out semantics.
type fakeUserRepo struct {
	mu    sync.Mutex
	users []entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return f.findBy(func(u *entity.User) bool { return u.ID == id })
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return f.findBy(func(u *entity.User) bool { return u.Email != nil && *u.Email == email })
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phoneNumber string) (*entity.User, error) {
	return f.findBy(func(u *entity.User) bool { return u.Phone != nil && *u.Phone == phoneNumber })
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return nil
}

func (f *fakeUserRepo) findBy(match func(*entity.User) bool) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if match(&f.users[i]) {
			copied := f.users[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

// fakeSMS records delivered codes and can be told to fail.
type fakeSMS struct {
	mu    sync.Mutex
	sent  []string
	codes []string
	err   error
}

func (f *fakeSMS) Deliver(ctx context.Context, phoneNumber, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phoneNumber)
	f.codes = append(f.codes, code)
	return nil
}

func (f *fakeSMS) deliveries() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeIDP is an in-memory identity provider.
type fakeIDP struct {
	mu       sync.Mutex
	accounts map[string]*provider.ExternalUser
	identity *provider.VerifiedIdentity
	tokenErr error
}

func newFakeIDP() *fakeIDP {
	return &fakeIDP{accounts: make(map[string]*provider.ExternalUser)}
}

func (f *fakeIDP) VerifyToken(ctx context.Context, idToken string) (*provider.VerifiedIdentity, error) {
	if f.tokenErr != nil {
		return nil, f.tokenErr
	}
	if f.identity == nil {
		return nil, provider.ErrInvalidToken
	}
	return f.identity, nil
}

func (f *fakeIDP) FindByPhone(ctx context.Context, phoneNumber string) (*provider.ExternalUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[phoneNumber]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeIDP) CreateUser(ctx context.Context, phoneNumber string) (*provider.ExternalUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := &provider.ExternalUser{
		UID:         uuid.New().String(),
		PhoneNumber: phoneNumber,
	}
	f.accounts[phoneNumber] = account
	copied := *account
	return &copied, nil
}
