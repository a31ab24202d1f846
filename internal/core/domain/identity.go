package domain

import (
	"errors"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a store is asked to keep a session
	// whose expiry has already passed.
	ErrSessionExpired = errors.New("session already expired")
)

// Identity is the caller attached to a request. The zero value is Anonymous.
type Identity struct {
	UserID    int64
	UserName  string
	Roles     []Role
	SessionID string
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool { return i.UserID == 0 }

func (i Identity) HasRole(r Role) bool {
	for _, have := range i.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// Session binds an opaque id to a user until ExpiresAt or revocation.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
