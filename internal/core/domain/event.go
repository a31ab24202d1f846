package domain

import "time"

// AuditAction names a security-relevant operation recorded in the audit trail.
type AuditAction string

const (
	AuditLogin         AuditAction = "auth.login"
	AuditLoginFailed   AuditAction = "auth.login_failed"
	AuditLogout        AuditAction = "auth.logout"
	AuditUserCreated   AuditAction = "user.create"
	AuditStationCreate AuditAction = "station.create"
	AuditStationUpdate AuditAction = "station.update"
	AuditStationDelete AuditAction = "station.delete"
)

// AuditEvent records who did what to which record.
type AuditEvent struct {
	Action   AuditAction
	ActorID  int64 // 0 when the actor is not known (failed login)
	TargetID int64
	Detail   string // optional
	At       time.Time
}
