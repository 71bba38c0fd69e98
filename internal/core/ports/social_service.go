package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// FollowResult is returned by Follow and Unfollow.
type FollowResult struct {
	FollowerID  string             `json:"followerId"`
	FollowingID string             `json:"followingId"`
	Following   bool               `json:"following"`
	Changed     bool               `json:"changed"` // false when the call was a no-op
	Stats       domain.FollowStats `json:"stats"`   // of the followed account
}

// AccountSummary is the compact account view used in follower lists.
type AccountSummary struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage"`
}

// SocialService manages the follow graph. Follow and Unfollow are idempotent.
type SocialService interface {
	Follow(ctx context.Context, followerID, followingID string) (*FollowResult, error)
	Unfollow(ctx context.Context, followerID, followingID string) (*FollowResult, error)
	Relation(ctx context.Context, actorID, targetID string) (*domain.RelationStatus, error)
	Stats(ctx context.Context, accountID string) (*domain.FollowStats, error)
	Followers(ctx context.Context, accountID string, page, limit int) ([]AccountSummary, error)
	Following(ctx context.Context, accountID string, page, limit int) ([]AccountSummary, error)
	// Forget drops every edge touching accountID.
	Forget(ctx context.Context, accountID string) error
}
