package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserService implements profile management and administrative CRUD.
type UserService struct {
	repo     ports.AccountRepository
	hasher   ports.PasswordHasher
	social   ports.SocialService
	presence ports.PresenceTracker // optional
	log      zerolog.Logger
	now      func() time.Time
}

func NewUserService(
	repo ports.AccountRepository,
	hasher ports.PasswordHasher,
	social ports.SocialService,
	presence ports.PresenceTracker,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		social:   social,
		presence: presence,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// Profile returns the public view of the account owning username, with its
// follow counters and live-session flag.
func (s *UserService) Profile(ctx context.Context, username string) (*ports.Profile, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stats, err := s.social.Stats(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	profile := &ports.Profile{Account: account, Stats: *stats}
	if s.presence != nil {
		online, err := s.presence.IsOnline(ctx, account.ID)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("presence lookup failed")
		}
		profile.Online = online
	}
	return profile, nil
}

// UpdateProfile applies a self-service partial update. An empty update
// returns the current account unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ports.ProfileUpdate) (*domain.Account, error) {
	patch, err := buildPatch(in.FullName, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, patch)
}

// AdminCreate creates an account with explicit roles. Empty roles default to {USER}.
func (s *UserService) AdminCreate(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	if err := validateNewAccount(in.FullName, in.Email, in.Password, in.Username); err != nil {
		return nil, err
	}
	roles, err := domain.ParseRoles(in.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create account: hash password: %w", err)
	}

	account := domain.NewAccount(in.FullName, in.Email, in.Username, hash, in.ProfileImage, roles, s.now())
	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues("admin").Inc()
	s.log.Info().Str("account_id", created.ID).Strs("roles", roleNames(created.Roles)).Msg("account created by admin")
	return created, nil
}

// AdminUpdate is UpdateProfile plus role replacement. Invalid roles are
// rejected before anything is written.
func (s *UserService) AdminUpdate(ctx context.Context, id string, in ports.AdminUpdate) (*domain.Account, error) {
	patch, err := buildPatch(in.FullName, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if in.Roles != nil {
		roles, err := domain.ParseRoles(in.Roles)
		if err != nil {
			return nil, err
		}
		if len(roles) == 0 {
			return nil, invalidData("roles cannot be empty")
		}
		patch.Roles = roles
	}
	if patch.Empty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", id).Msg("account updated by admin")
	return updated, nil
}

// Delete removes the account and then its follow edges. A failure to purge
// the edges is logged only: the account is already gone.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.social.Forget(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("account_id", id).Msg("failed to purge follow edges")
	}
	s.log.Info().Str("account_id", id).Msg("account deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, in ports.ListAccountsInput) (*ports.ListAccountsResult, error) {
	page, limit := clampPage(in.Page, in.Limit)

	filter := ports.ListAccountsFilter{
		Search: strings.TrimSpace(in.Search),
		Banned: in.Banned,
		Page:   page,
		Limit:  limit,
	}
	if in.Role != "" {
		roles, err := domain.ParseRoles([]string{in.Role})
		if err != nil {
			return nil, err
		}
		filter.Role = roles[0]
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListAccountsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// buildPatch validates the profile fields that are present.
func buildPatch(fullName, email, username *string) (domain.AccountPatch, error) {
	var patch domain.AccountPatch
	if fullName != nil {
		v := strings.TrimSpace(*fullName)
		if v == "" {
			return patch, invalidData("fullName cannot be empty")
		}
		patch.FullName = &v
	}
	if email != nil {
		v := domain.NormalizeEmail(*email)
		if !domain.ValidEmail(v) {
			return patch, invalidData("email must be a valid email")
		}
		patch.Email = &v
	}
	if username != nil {
		// An empty username clears it.
		v := domain.NormalizeUsername(*username)
		if v != "" {
			if err := validateUsername(v); err != nil {
				return patch, err
			}
		}
		patch.Username = &v
	}
	return patch, nil
}

func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func roleNames(roles []domain.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
