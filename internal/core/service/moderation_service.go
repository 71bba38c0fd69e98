package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/pkg/metrics"
)

// ModerationService flips the ban flag through the account store. It never
// touches any other account field.
type ModerationService struct {
	repo ports.AccountRepository
	log  zerolog.Logger
}

func NewModerationService(repo ports.AccountRepository, log zerolog.Logger) *ModerationService {
	return &ModerationService{repo: repo, log: log}
}

func (s *ModerationService) Ban(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.setBanned(ctx, accountID, true, "ban")
}

func (s *ModerationService) Unban(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.setBanned(ctx, accountID, false, "unban")
}

func (s *ModerationService) setBanned(ctx context.Context, accountID string, banned bool, action string) (*domain.Account, error) {
	account, err := s.repo.SetBanned(ctx, accountID, banned)
	if err != nil {
		return nil, err
	}
	metrics.ModerationActionsTotal.WithLabelValues(action).Inc()
	s.log.Info().Str("account_id", accountID).Str("action", action).Msg("moderation applied")
	return account, nil
}
