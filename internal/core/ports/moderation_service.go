package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// ModerationService maintains the ban flag. Both operations are idempotent.
type ModerationService interface {
	Ban(ctx context.Context, accountID string) (*domain.Account, error)
	Unban(ctx context.Context, accountID string) (*domain.Account, error)
}
