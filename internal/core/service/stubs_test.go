package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/quillpost/blog-api/internal/core/domain"
	"github.com/quillpost/blog-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Account repository
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	seq     int
	findErr error // returned by every lookup when set
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Roles = append([]domain.Role(nil), a.Roles...)
	return &c
}

func (r *stubAccountRepo) conflict(id, email, username string) error {
	for _, a := range r.byID {
		if a.ID == id {
			continue
		}
		if a.Email == email {
			return domain.ErrDuplicateEmail
		}
		if username != "" && a.Username == username {
			return domain.ErrDuplicateUsername
		}
	}
	return nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conflict("", account.Email, account.Username); err != nil {
		return nil, err
	}
	r.seq++
	c := cloneAccount(account)
	c.ID = fmt.Sprintf("acc-%d", r.seq)
	r.byID[c.ID] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	email = domain.NormalizeEmail(email)
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username = domain.NormalizeUsername(username)
	for _, a := range r.byID {
		if a.Username != "" && a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Update(_ context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	next := cloneAccount(a)
	if patch.FullName != nil {
		next.FullName = *patch.FullName
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Username != nil {
		next.Username = *patch.Username
	}
	if patch.Roles != nil {
		next.Roles = append([]domain.Role(nil), patch.Roles...)
	}
	if err := r.conflict(id, next.Email, next.Username); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	r.byID[id] = next
	return cloneAccount(next), nil
}

func (r *stubAccountRepo) SetBanned(_ context.Context, id string, banned bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	a.Banned = banned
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubAccountRepo) List(_ context.Context, f ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*domain.Account
	for _, a := range r.byID {
		if f.Role != "" && !a.HasRole(f.Role) {
			continue
		}
		if f.Banned != nil && a.Banned != *f.Banned {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.FullName), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, cloneAccount(a))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// seed stores an account directly, bypassing validation.
func (r *stubAccountRepo) seed(fullName, email, username string, roles ...domain.Role) *domain.Account {
	a := domain.NewAccount(fullName, email, username, "hashed:secret", "", roles, time.Now().UTC())
	created, err := r.Create(context.Background(), a)
	if err != nil {
		panic(err)
	}
	return created
}

// ---------------------------------------------------------------------------
// Follow repository
// ---------------------------------------------------------------------------

type edgeKey struct{ follower, following string }

type stubFollowRepo struct {
	mu    sync.Mutex
	edges map[edgeKey]time.Time
	err   error
}

func newStubFollowRepo() *stubFollowRepo {
	return &stubFollowRepo{edges: make(map[edgeKey]time.Time)}
}

func (r *stubFollowRepo) Create(_ context.Context, e domain.FollowEdge) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	k := edgeKey{e.FollowerID, e.FollowingID}
	if _, ok := r.edges[k]; ok {
		return false, nil
	}
	r.edges[k] = e.CreatedAt
	return true, nil
}

func (r *stubFollowRepo) Delete(_ context.Context, follower, following string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	k := edgeKey{follower, following}
	if _, ok := r.edges[k]; !ok {
		return false, nil
	}
	delete(r.edges, k)
	return true, nil
}

func (r *stubFollowRepo) Exists(_ context.Context, follower, following string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[edgeKey{follower, following}]
	return ok, r.err
}

func (r *stubFollowRepo) count(match func(edgeKey) bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.edges {
		if match(k) {
			n++
		}
	}
	return n
}

func (r *stubFollowRepo) CountFollowers(_ context.Context, id string) (int64, error) {
	return r.count(func(k edgeKey) bool { return k.following == id }), r.err
}

func (r *stubFollowRepo) CountFollowing(_ context.Context, id string) (int64, error) {
	return r.count(func(k edgeKey) bool { return k.follower == id }), r.err
}

func (r *stubFollowRepo) ids(match func(edgeKey) (string, bool), skip, limit int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for k := range r.edges {
		if id, ok := match(k); ok {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	if skip >= int64(len(out)) {
		return nil
	}
	out = out[skip:]
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (r *stubFollowRepo) FollowerIDs(_ context.Context, id string, skip, limit int64) ([]string, error) {
	return r.ids(func(k edgeKey) (string, bool) { return k.follower, k.following == id }, skip, limit), r.err
}

func (r *stubFollowRepo) FollowingIDs(_ context.Context, id string, skip, limit int64) ([]string, error) {
	return r.ids(func(k edgeKey) (string, bool) { return k.following, k.follower == id }, skip, limit), r.err
}

func (r *stubFollowRepo) DeleteAll(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for k := range r.edges {
		if k.follower == id || k.following == id {
			delete(r.edges, k)
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Hasher, presence
// ---------------------------------------------------------------------------

// fakeHasher keeps tests fast; bcrypt itself is covered by the security package.
type fakeHasher struct {
	hashErr error
}

func (h fakeHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + p, nil
}

func (fakeHasher) Compare(hash, p string) bool { return hash == "hashed:"+p }

// recordingHasher records every hash it is asked to compare against.
type recordingHasher struct {
	fakeHasher
	compared []string
}

func (h *recordingHasher) Compare(hash, p string) bool {
	h.compared = append(h.compared, hash)
	return h.fakeHasher.Compare(hash, p)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, event domain.PresenceEvent) {
	m.Called(ctx, event)
}

type stubTracker struct {
	online map[string]bool
	err    error
}

func (t stubTracker) IsOnline(_ context.Context, id string) (bool, error) {
	return t.online[id], t.err
}

var errStorage = fmt.Errorf("find: %w", errors.Join(domain.ErrStorageUnavailable, errors.New("connection refused")))
