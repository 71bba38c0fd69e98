package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// ListAccountsFilter carries the admin listing query.
type ListAccountsFilter struct {
	Search string      // optional: partial match on full_name, email or username
	Role   domain.Role // optional
	Banned *bool       // optional
	Page   int         // 1-based
	Limit  int         // capped at 100 by the service
}

// AccountRepository persists accounts. It is the only owner of account records.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	// FindByIDs returns the accounts that exist, in the order of ids.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Update applies patch and returns the stored snapshot after the write.
	Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
	// SetBanned changes only the ban flag.
	SetBanned(ctx context.Context, id string, banned bool) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
}
