package ports

import (
	"context"

	"github.com/quillpost/blog-api/internal/core/domain"
)

// RegisterInput is the self-service sign-up payload.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Username string // optional
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*domain.Account, error)
	Logout(ctx context.Context, accountID string)
}
