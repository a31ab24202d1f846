package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Role is a coarse permission tag attached to a user at creation.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// MaxUserNameLength is the longest user name accepted, in characters.
const MaxUserNameLength = 256

// KnownRoles is the registered role set, in display order.
var KnownRoles = []Role{RoleAdmin, RoleUser}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownRole        = errors.New("unknown role")
)

// ParseRole resolves name against the registered roles, ignoring case, and
// returns the canonical role.
func ParseRole(name string) (Role, error) {
	for _, r := range KnownRoles {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// NormalizeUserName returns the comparison key used for user name uniqueness
// and lookup.
func NormalizeUserName(userName string) string {
	return cases.Fold().String(userName)
}

// User is an account in the credential store.
type User struct {
	ID           int64     `json:"id"`
	UserName     string    `json:"userName"`
	PasswordHash string    `json:"-"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"-"`
}

// HasRole reports whether the user holds r.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Identity returns the authenticated identity of u bound to sessionID.
func (u *User) Identity(sessionID string) Identity {
	roles := make([]Role, len(u.Roles))
	copy(roles, u.Roles)
	return Identity{UserID: u.ID, UserName: u.UserName, Roles: roles, SessionID: sessionID}
}

// NewUserInput is the unvalidated payload for user creation.
type NewUserInput struct {
	UserName string
	Password string
	Roles    []string
}

// Validate checks the user name and role list and returns the canonical,
// de-duplicated roles. Password strength is checked by ValidatePassword.
func (in NewUserInput) Validate() ([]Role, error) {
	switch {
	case strings.TrimSpace(in.UserName) == "":
		return nil, NewValidationError("userName", "userName is required")
	case utf8.RuneCountInString(in.UserName) > MaxUserNameLength:
		return nil, NewValidationError("userName", "userName must be at most 256 characters")
	case len(in.Roles) == 0:
		return nil, NewValidationError("roles", "at least one role is required")
	}

	roles := make([]Role, 0, len(in.Roles))
	seen := make(map[Role]struct{}, len(in.Roles))
	for _, name := range in.Roles {
		r, err := ParseRole(name)
		if err != nil {
			return nil, NewValidationError("roles", "unknown role: "+name)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}

	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	return roles, nil
}
