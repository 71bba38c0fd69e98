package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
	"github.com/quillpost/blog-api/internal/pkg/metrics"
)

// SocialService owns the follow graph. Accounts are only read through the
// repository port, to check existence and to render follower lists.
type SocialService struct {
	follows  ports.FollowRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
	now      func() time.Time
}

func NewSocialService(follows ports.FollowRepository, accounts ports.AccountRepository, log zerolog.Logger) *SocialService {
	return &SocialService{
		follows:  follows,
		accounts: accounts,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Follow creates the edge followerID -> followingID. Following an account
// that is already followed succeeds with Changed=false.
func (s *SocialService) Follow(ctx context.Context, followerID, followingID string) (*ports.FollowResult, error) {
	if followerID == followingID {
		return nil, domain.ErrSelfFollow
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range []string{followerID, followingID} {
		g.Go(func() error {
			_, err := s.accounts.FindByID(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	created, err := s.follows.Create(ctx, domain.FollowEdge{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("follow: %w", err)
	}
	metrics.FollowOperationsTotal.WithLabelValues("follow", outcome(created)).Inc()

	stats, err := s.Stats(ctx, followingID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("follower", followerID).Str("following", followingID).Bool("created", created).Msg("follow")
	return &ports.FollowResult{
		FollowerID:  followerID,
		FollowingID: followingID,
		Following:   true,
		Changed:     created,
		Stats:       *stats,
	}, nil
}

// Unfollow removes the edge. Removing a missing edge succeeds with Changed=false.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followingID string) (*ports.FollowResult, error) {
	if followerID == followingID {
		return nil, domain.ErrSelfFollow
	}

	removed, err := s.follows.Delete(ctx, followerID, followingID)
	if err != nil {
		return nil, fmt.Errorf("unfollow: %w", err)
	}
	metrics.FollowOperationsTotal.WithLabelValues("unfollow", outcome(removed)).Inc()

	stats, err := s.Stats(ctx, followingID)
	if err != nil {
		return nil, err
	}

	s.log.Debug().Str("follower", followerID).Str("following", followingID).Bool("removed", removed).Msg("unfollow")
	return &ports.FollowResult{
		FollowerID:  followerID,
		FollowingID: followingID,
		Following:   false,
		Changed:     removed,
		Stats:       *stats,
	}, nil
}

func (s *SocialService) Relation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error) {
	var status domain.RelationStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		status.IsFollowing, err = s.follows.Exists(gctx, actorID, targetID)
		return err
	})
	g.Go(func() (err error) {
		status.IsFollowedBy, err = s.follows.Exists(gctx, targetID, actorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("relation: %w", err)
	}
	return &status, nil
}

func (s *SocialService) Stats(ctx context.Context, accountID string) (*domain.FollowStats, error) {
	var stats domain.FollowStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Followers, err = s.follows.CountFollowers(gctx, accountID)
		return err
	})
	g.Go(func() (err error) {
		stats.Following, err = s.follows.CountFollowing(gctx, accountID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("follow stats: %w", err)
	}
	return &stats, nil
}

func (s *SocialService) Followers(ctx context.Context, accountID string, page, limit int) ([]ports.AccountSummary, error) {
	page, limit = clampPage(page, limit)
	ids, err := s.follows.FollowerIDs(ctx, accountID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("followers: %w", err)
	}
	return s.summaries(ctx, ids)
}

func (s *SocialService) Following(ctx context.Context, accountID string, page, limit int) ([]ports.AccountSummary, error) {
	page, limit = clampPage(page, limit)
	ids, err := s.follows.FollowingIDs(ctx, accountID, int64((page-1)*limit), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("following: %w", err)
	}
	return s.summaries(ctx, ids)
}

func (s *SocialService) Forget(ctx context.Context, accountID string) error {
	n, err := s.follows.DeleteAll(ctx, accountID)
	if err != nil {
		return fmt.Errorf("forget %s: %w", accountID, err)
	}
	s.log.Debug().Str("account_id", accountID).Int64("edges", n).Msg("follow edges purged")
	return nil
}

func (s *SocialService) summaries(ctx context.Context, ids []string) ([]ports.AccountSummary, error) {
	out := make([]ports.AccountSummary, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	accounts, err := s.accounts.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		out = append(out, ports.AccountSummary{
			ID:           a.ID,
			FullName:     a.FullName,
			Username:     a.Username,
			ProfileImage: a.ProfileImage,
		})
	}
	return out, nil
}

func outcome(changed bool) string {
	if changed {
		return "changed"
	}
	return "noop"
}
