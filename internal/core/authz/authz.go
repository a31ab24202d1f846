// Package authz decides whether a caller may perform an action. It combines
// a coarse role check with a per-resource ownership check: holding the
// required role always suffices, otherwise the caller must be the resource's
// recorded owner.
package authz

import "github.com/sp23/transit-system/internal/core/domain"

// Reason explains a denial.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
)

func (r Reason) String() string {
	switch r {
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	default:
		return "none"
	}
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	Allow               = Decision{Allowed: true}
	DenyUnauthenticated = Decision{Reason: ReasonUnauthenticated}
	DenyForbidden       = Decision{Reason: ReasonForbidden}
)

// Err returns the domain error for a denial, or nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonUnauthenticated {
		return domain.ErrUnauthenticated
	}
	return domain.ErrForbidden
}

// Authorize decides whether id may act. requiredRole is ignored when empty;
// ownerID is ignored when nil. With neither set there is nothing to check and
// every caller is allowed.
func Authorize(id domain.Identity, requiredRole domain.Role, ownerID *int64) Decision {
	if requiredRole == "" && ownerID == nil {
		return Allow
	}
	if id.IsAnonymous() {
		return DenyUnauthenticated
	}
	if requiredRole != "" && id.HasRole(requiredRole) {
		return Allow
	}
	if ownerID != nil && *ownerID == id.UserID {
		return Allow
	}
	return DenyForbidden
}

// RequireAdmin is Authorize with the Admin role and no owner.
func RequireAdmin(id domain.Identity) Decision {
	return Authorize(id, domain.RoleAdmin, nil)
}

// AdminOrManager allows admins and the station's manager.
func AdminOrManager(id domain.Identity, s domain.Station) Decision {
	return Authorize(id, domain.RoleAdmin, s.ManagerID)
}
