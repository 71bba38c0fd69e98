package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/pkg/metrics"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	presence ports.PresenceNotifier
	log      zerolog.Logger
	now      func() time.Time

	// dummyHash is compared on unknown emails so both failure paths pay for
	// one hash comparison.
	dummyHash string
}

const dummyPassword = "blog-api:no-such-account"

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, presence ports.PresenceNotifier, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warn().Err(err).Msg("dummy password hash unavailable")
	}
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		presence:  presence,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
	}
}

// Register creates a USER account. The caller issues the session.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if err := validateNewAccount(in.FullName, in.Email, in.Password, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	account := domain.NewAccount(in.FullName, in.Email, in.Username, hash, "", nil, s.now())
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues("signup").Inc()
	s.log.Info().Str("account_id", created.ID).Msg("account registered")
	return created, nil
}

// Login verifies the credentials. Unknown email and wrong password both yield
// ErrInvalidCredentials. A banned account is only reported once the password
// has matched.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.hasher.Compare(s.dummyHash, password)
			metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.AuthAttemptsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Compare(account.PasswordHash, password) {
		metrics.AuthAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if account.Banned {
		metrics.AuthAttemptsTotal.WithLabelValues("banned").Inc()
		s.log.Warn().Str("account_id", account.ID).Msg("banned account attempted login")
		return nil, domain.ErrAccountBanned
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	s.presence.Notify(ctx, s.presenceEvent(domain.PresenceOnline, account.ID, account.FullName))
	return account, nil
}

// Logout announces the account as offline. An empty id (no session) is a no-op.
func (s *AuthService) Logout(ctx context.Context, accountID string) {
	if accountID == "" {
		return
	}
	s.presence.Notify(ctx, s.presenceEvent(domain.PresenceOffline, accountID, ""))
}

func (s *AuthService) presenceEvent(name, accountID, fullName string) domain.PresenceEvent {
	return domain.PresenceEvent{
		ID:        uuid.NewString(),
		Name:      name,
		AccountID: accountID,
		FullName:  fullName,
		At:        s.now(),
	}
}

// validateNewAccount checks the fields shared by sign-up and admin creation.
func validateNewAccount(fullName, email, password, username string) error {
	if strings.TrimSpace(fullName) == "" {
		return invalidData("fullName is required")
	}
	if !domain.ValidEmail(domain.NormalizeEmail(email)) {
		return invalidData("email must be a valid email")
	}
	if password == "" {
		return invalidData("password is required")
	}
	if username != "" {
		if err := validateUsername(username); err != nil {
			return err
		}
	}
	return nil
}

func validateUsername(username string) error {
	if !domain.ValidUsername(username) {
		return invalidData("username must be 3-30 characters of letters, digits, '_' or '.'")
	}
	return nil
}

func invalidData(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidAccountData, msg)
}
