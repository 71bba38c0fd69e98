package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// FollowRepository stores follow edges. Only the social graph service talks to it.
type FollowRepository interface {
	// Create inserts the edge. created is false when the edge already existed.
	Create(ctx context.Context, edge domain.FollowEdge) (created bool, err error)
	// Delete removes the edge. removed is false when there was nothing to remove.
	Delete(ctx context.Context, followerID, followingID string) (removed bool, err error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	CountFollowers(ctx context.Context, accountID string) (int64, error)
	CountFollowing(ctx context.Context, accountID string) (int64, error)
	// FollowerIDs / FollowingIDs return one page of ids, newest edge first.
	FollowerIDs(ctx context.Context, accountID string, skip, limit int64) ([]string, error)
	FollowingIDs(ctx context.Context, accountID string, skip, limit int64) ([]string, error)
	// DeleteAll removes every edge touching accountID.
	DeleteAll(ctx context.Context, accountID string) (int64, error)
}
