package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// ProfileUpdate is a self-service partial update.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Username *string
}

// AdminUpdate extends ProfileUpdate with role replacement. Roles nil = unchanged.
type AdminUpdate struct {
	FullName *string
	Email    *string
	Username *string
	Roles    []string
}

// CreateAccountInput is used by administrators to create accounts directly.
type CreateAccountInput struct {
	FullName     string
	Email        string
	Password     string
	Username     string
	ProfileImage string
	Roles        []string
}

// Profile is the public view of an account.
type Profile struct {
	Account *domain.Account    `json:"user"`
	Stats   domain.FollowStats `json:"stats"`
	Online  bool               `json:"online"`
}

// ListAccountsInput carries the admin list query parameters.
type ListAccountsInput struct {
	Search string
	Role   string
	Banned *bool
	Page   int
	Limit  int
}

// ListAccountsResult is one page of accounts.
type ListAccountsResult struct {
	Items      []*domain.Account `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

// UserService covers profile management and administrative CRUD.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	Profile(ctx context.Context, username string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.Account, error)
	AdminCreate(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	AdminUpdate(ctx context.Context, id string, update AdminUpdate) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, input ListAccountsInput) (*ListAccountsResult, error)
}
