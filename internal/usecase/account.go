package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"StockTrack/internal/auth"
	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	"StockTrack/pkg/errs"
	applogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"
	"StockTrack/pkg/util"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AccountService handles signup, login and profile lookups.
type AccountService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	events *eventSink
	newID  func() string
}

func NewAccountService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *AccountService {
	if m == nil {
		m = metrics.Nop{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &AccountService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: &eventSink{pub: pub, metrics: m, logger: l, now: time.Now, newID: uuid.NewString},
		newID:  uuid.NewString,
	}
}

// Signup registers a new user and returns a bearer token for it.
func (s *AccountService) Signup(ctx context.Context, email, password, name string) (string, error) {
	email = util.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", errs.Validationf("Email and password required")
	}

	if len(password) > auth.MaxPasswordBytes {
		return "", errs.Validationf("Password must be at most %d bytes", auth.MaxPasswordBytes)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", errs.Validationf("Password must be at most %d bytes", auth.MaxPasswordBytes)
		}
		return "", errs.Wrap(errs.Internal, "hash password", err)
	}

	u := &models.User{
		ID:           s.newID(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", errs.Conflictf("User already exists")
		}
		return "", errs.Wrap(errs.Internal, "create user", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "issue token", err)
	}

	s.events.emit(ctx, models.EventUserRegistered, u.ID, "", models.Profile{Name: u.Name, Email: u.Email})
	return token, nil
}

// Login verifies credentials. Unknown email and wrong password look the same to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	email = util.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", errs.Validationf("Email and password required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errs.Unauthorizedf("Invalid credentials")
		}
		return "", errs.Wrap(errs.Internal, "find user", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", errs.Unauthorizedf("Invalid credentials")
		}
		return "", errs.Wrap(errs.Internal, "compare password", err)
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", errs.Wrap(errs.Internal, "issue token", err)
	}
	return token, nil
}

// Profile returns the public view of userID.
func (s *AccountService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.NotFoundf("User not found")
		}
		return nil, errs.Wrap(errs.Internal, "find user", err)
	}
	return &models.Profile{Name: u.Name, Email: u.Email}, nil
}
