package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	a := NewAccount("  Ada Lovelace ", " Ada@Example.COM", "Ada", "$2a$10$hash", "", nil, now)

	assert.Equal(t, "Ada Lovelace", a.FullName)
	assert.Equal(t, "ada@example.com", a.Email)
	assert.Equal(t, "ada", a.Username)
	assert.Equal(t, DefaultProfileImage, a.ProfileImage)
	assert.Equal(t, []Role{RoleUser}, a.Roles)
	assert.False(t, a.Banned)
	assert.Equal(t, now, a.CreatedAt)
	assert.Equal(t, now, a.UpdatedAt)

	b := NewAccount("B", "b@x.com", "", "h", "https://img/b.png", []Role{RoleAdmin}, now)
	assert.Equal(t, "https://img/b.png", b.ProfileImage)
	assert.Equal(t, []Role{RoleAdmin}, b.Roles)
}

func TestAccount_JSONOmitsPasswordHash(t *testing.T) {
	a := NewAccount("A", "a@x.com", "", "$2a$10$supersecret", "", nil, time.Now())
	body, err := json.Marshal(a)
	require.NoError(t, err)

	assert.NotContains(t, string(body), "supersecret")
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	assert.NotContains(t, m, "password_hash")
	assert.NotContains(t, m, "PasswordHash")
	assert.Equal(t, []any{"USER"}, m["roles"])
	assert.Equal(t, "A", m["fullName"])
	assert.Contains(t, m, "isBanned")
	assert.Contains(t, m, "profileImage")
}

func TestAccountPatch_Empty(t *testing.T) {
	assert.True(t, AccountPatch{}.Empty())
	name := "x"
	assert.False(t, AccountPatch{FullName: &name}.Empty())
	assert.False(t, AccountPatch{Roles: []Role{}}.Empty())
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@x.com"))
	assert.False(t, ValidEmail("A <a@x.com>"))
	assert.False(t, ValidEmail("nope"))
	assert.False(t, ValidEmail(""))
}

func TestValidUsername(t *testing.T) {
	for _, ok := range []string{"abc", "Ada.L", "user_01", " padded "} {
		assert.True(t, ValidUsername(ok), ok)
	}
	for _, bad := range []string{"", "ab", "a b", "ünï", "dash-ed", "x123456789012345678901234567890"} {
		assert.False(t, ValidUsername(bad), bad)
	}
}
