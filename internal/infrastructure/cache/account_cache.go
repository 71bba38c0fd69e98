package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// AccountCache decorates an AccountRepository with an in-process FindByID
// cache. The auth middleware resolves the acting account on every request, so
// this is the hot path.
//
// Writes bump a per-account generation before and after reaching storage. A
// lookup only fills the cache when no write touched the account while it was
// reading, so a ban or demotion is never hidden behind a stale entry.
type AccountCache struct {
	ports.AccountRepository
	store *gocache.Cache

	mu  sync.Mutex
	gen map[string]uint64
}

// NewAccountCache wraps repo. A non-positive ttl disables caching.
func NewAccountCache(repo ports.AccountRepository, ttl time.Duration) ports.AccountRepository {
	if ttl <= 0 {
		return repo
	}
	return &AccountCache{
		AccountRepository: repo,
		store:             gocache.New(ttl, 2*ttl),
		gen:               make(map[string]uint64),
	}
}

func (c *AccountCache) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if v, ok := c.store.Get(id); ok {
		return clone(v.(*domain.Account)), nil
	}

	c.mu.Lock()
	gen := c.gen[id]
	c.mu.Unlock()

	account, err := c.AccountRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen[id] == gen {
		c.store.SetDefault(id, clone(account))
	}
	c.mu.Unlock()
	return account, nil
}

func (c *AccountCache) Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	c.invalidate(id)
	defer c.invalidate(id)
	return c.AccountRepository.Update(ctx, id, patch)
}

func (c *AccountCache) SetBanned(ctx context.Context, id string, banned bool) (*domain.Account, error) {
	c.invalidate(id)
	defer c.invalidate(id)
	return c.AccountRepository.SetBanned(ctx, id, banned)
}

func (c *AccountCache) Delete(ctx context.Context, id string) error {
	c.invalidate(id)
	defer c.invalidate(id)
	return c.AccountRepository.Delete(ctx, id)
}

func (c *AccountCache) invalidate(id string) {
	c.mu.Lock()
	c.gen[id]++
	c.store.Delete(id)
	c.mu.Unlock()
}

func clone(a *domain.Account) *domain.Account {
	cp := *a
	cp.Roles = slices.Clone(a.Roles)
	return &cp
}
