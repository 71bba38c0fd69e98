package domain

import (
	"net/mail"
	"strings"
	"time"
)

// DefaultProfileImage is used when an account is created without a profile image.
const DefaultProfileImage = "https://avatar.iran.liara.run/public"

// Account is a registered identity on the platform.
type Account struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profileImage"`
	Roles        []Role    `json:"roles"`
	Banned       bool      `json:"isBanned"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewAccount builds an account ready to be persisted. Email and username are
// normalized, the profile image falls back to DefaultProfileImage and an empty
// role set becomes {USER}. passwordHash must already be derived.
func NewAccount(fullName, email, username, passwordHash, profileImage string, roles []Role, now time.Time) *Account {
	if profileImage == "" {
		profileImage = DefaultProfileImage
	}
	if len(roles) == 0 {
		roles = []Role{RoleUser}
	}
	return &Account{
		FullName:     strings.TrimSpace(fullName),
		Email:        NormalizeEmail(email),
		Username:     NormalizeUsername(username),
		PasswordHash: passwordHash,
		ProfileImage: profileImage,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole reports whether the account holds role.
func (a *Account) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin).
func (a *Account) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// AccountPatch carries a partial update. Nil fields are left untouched.
type AccountPatch struct {
	FullName *string
	Email    *string
	Username *string
	Roles    []Role // nil = unchanged
}

// Empty reports whether the patch changes nothing.
func (p AccountPatch) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.Username == nil && p.Roles == nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidUsername reports whether username, once normalized, is 3 to 30
// characters of letters, digits, '_' and '.'.
func ValidUsername(username string) bool {
	u := NormalizeUsername(username)
	if len(u) < 3 || len(u) > 30 {
		return false
	}
	for _, r := range u {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '.') {
			return false
		}
	}
	return true
}

// ValidEmail reports whether email is a bare RFC 5322 address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
