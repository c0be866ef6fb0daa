package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"StockTrack/internal/auth"
	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	"StockTrack/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.users {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, x := range m.users {
		if x.Email == email {
			return &x, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func newAccounts(users *memUsers, pub *recordingPublisher) (*AccountService, *auth.TokenManager) {
	tm := auth.NewTokenManager("test-secret", time.Hour)
	return NewAccountService(users, auth.NewHasher(bcrypt.MinCost), tm, pub, nil, nil), tm
}

func TestSignupAndLogin(t *testing.T) {
	users := newMemUsers()
	pub := &recordingPublisher{}
	svc, tm := newAccounts(users, pub)
	ctx := context.Background()

	token, err := svc.Signup(ctx, " Ann@Example.com ", "hunter2", "Ann")
	require.NoError(t, err)
	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", users.users[userID].Email)
	assert.NotEqual(t, "hunter2", users.users[userID].PasswordHash)
	assert.Equal(t, []models.EventType{models.EventUserRegistered}, pub.types())

	token, err = svc.Login(ctx, "ann@example.com", "hunter2")
	require.NoError(t, err)
	loginID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, loginID)

	p, err := svc.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, models.Profile{Name: "Ann", Email: "ann@example.com"}, *p)
}

func TestSignupDuplicate(t *testing.T) {
	svc, _ := newAccounts(newMemUsers(), &recordingPublisher{})
	ctx := context.Background()

	_, err := svc.Signup(ctx, "ann@example.com", "pw", "Ann")
	require.NoError(t, err)
	_, err = svc.Signup(ctx, "ANN@example.com", "pw", "Ann")
	assert.True(t, errs.Is(err, errs.Conflict))
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newAccounts(newMemUsers(), &recordingPublisher{})
	_, err := svc.Signup(context.Background(), "", "pw", "Ann")
	assert.True(t, errs.Is(err, errs.Validation))
	_, err = svc.Signup(context.Background(), "a@b.c", "", "Ann")
	assert.True(t, errs.Is(err, errs.Validation))
}

func TestSignupRejectsOverlongPassword(t *testing.T) {
	users := newMemUsers()
	svc, _ := newAccounts(users, &recordingPublisher{})

	_, err := svc.Signup(context.Background(), "ann@example.com", strings.Repeat("x", 73), "Ann")
	require.Error(t, err)
	assert.Equal(t, errs.Validation, errs.KindOf(err))
	assert.Empty(t, users.users)

	_, err = svc.Signup(context.Background(), "ann@example.com", strings.Repeat("x", 72), "Ann")
	assert.NoError(t, err)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAccounts(newMemUsers(), &recordingPublisher{})
	ctx := context.Background()
	_, err := svc.Signup(ctx, "ann@example.com", "right", "Ann")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ann@example.com", "wrong")
	assert.True(t, errs.Is(err, errs.Unauthorized))

	_, err = svc.Login(ctx, "nobody@example.com", "right")
	assert.True(t, errs.Is(err, errs.Unauthorized))
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	users := newMemUsers()
	users.err = errors.New("db down")
	svc, _ := newAccounts(users, &recordingPublisher{})

	_, err := svc.Login(context.Background(), "ann@example.com", "pw")
	assert.Equal(t, errs.Internal, errs.KindOf(err))
	_, ok := errs.As(err)
	assert.True(t, ok)
}

func TestProfileNotFound(t *testing.T) {
	svc, _ := newAccounts(newMemUsers(), &recordingPublisher{})
	_, err := svc.Profile(context.Background(), "missing")
	assert.True(t, errs.Is(err, errs.NotFound))
}
