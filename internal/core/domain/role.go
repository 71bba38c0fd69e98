package domain

import (
	"fmt"
	"strings"
)

// Role is a capability tag held by an account.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AllRoles is the closed set of roles an account may hold.
var AllRoles = []Role{RoleUser, RoleAdmin}

// Valid reports whether r belongs to AllRoles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRoles converts raw role names into Roles. Every unknown name is
// collected into a single *InvalidRolesError. Duplicates are dropped.
func ParseRoles(raw []string) ([]Role, error) {
	roles := make([]Role, 0, len(raw))
	seen := make(map[Role]struct{}, len(raw))
	var invalid []string
	for _, name := range raw {
		r := Role(name)
		if !r.Valid() {
			invalid = append(invalid, name)
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	if len(invalid) > 0 {
		return nil, &InvalidRolesError{Roles: invalid}
	}
	return roles, nil
}

// InvalidRolesError lists the role names that are outside AllRoles.
type InvalidRolesError struct {
	Roles []string
}

func (e *InvalidRolesError) Error() string {
	return fmt.Sprintf("Invalid roles provided: %s", strings.Join(e.Roles, ", "))
}

// Is lets errors.Is(err, ErrInvalidRoles) match.
func (e *InvalidRolesError) Is(target error) bool {
	return target == ErrInvalidRoles
}
