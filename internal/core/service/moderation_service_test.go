package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpost/blog-api/internal/core/domain"
)

func TestModerationService_BanUnbanRestoresState(t *testing.T) {
	ctx := context.Background()
	repo := newStubAccountRepo()
	svc := NewModerationService(repo, zerolog.Nop())
	before := repo.seed("Alice", "alice@x.com", "alice", domain.RoleUser, domain.RoleAdmin)

	banned, err := svc.Ban(ctx, before.ID)
	require.NoError(t, err)
	assert.True(t, banned.Banned)

	// idempotent
	banned, err = svc.Ban(ctx, before.ID)
	require.NoError(t, err)
	assert.True(t, banned.Banned)

	after, err := svc.Unban(ctx, before.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	after, err = svc.Unban(ctx, before.ID)
	require.NoError(t, err)
	assert.False(t, after.Banned)
}

func TestModerationService_NotFound(t *testing.T) {
	svc := NewModerationService(newStubAccountRepo(), zerolog.Nop())

	_, err := svc.Ban(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	_, err = svc.Unban(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
