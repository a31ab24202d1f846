package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

const (
	defaultSessionTTL  = 24 * time.Hour
	defaultMaxFailures = 5
	defaultLockout     = 5 * time.Minute
)

// LoginThrottle counts consecutive failed logins per normalised user name.
type LoginThrottle interface {
	Failures(ctx context.Context, key string) (int64, error)
	// RecordFailure increments the counter and (re)starts its expiry window.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

// AuthOptions tunes the session manager.
type AuthOptions struct {
	// Secret signs session tokens (HS256). Required.
	Secret      []byte
	SessionTTL  time.Duration
	MaxFailures int64
	Lockout     time.Duration
}

// AuthService implements login, logout and identity resolution on top of a
// server-side session store. The cookie token is a signed envelope around the
// opaque session id; revocation is deleting the session.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	throttle LoginThrottle
	audit    ports.AuditRepository
	opts     AuthOptions
	log      zerolog.Logger
	now      func() time.Time

	// compared against when the user does not exist so both failure paths
	// cost one bcrypt comparison
	dummyHash []byte
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	throttle LoginThrottle,
	audit ports.AuditRepository,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = defaultMaxFailures
	}
	if opts.Lockout <= 0 {
		opts.Lockout = defaultLockout
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("transit-dummy-password"), bcrypt.MinCost)

	return &AuthService{
		users:     users,
		sessions:  sessions,
		throttle:  throttle,
		audit:     audit,
		opts:      opts,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
	}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func (s *AuthService) Login(ctx context.Context, userName, password string) (*ports.LoginResult, error) {
	if userName == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	key := domain.NormalizeUserName(userName)

	if s.locked(ctx, key) {
		s.log.Warn().Str("username", userName).Msg("login rejected: account locked")
		s.record(ctx, domain.AuditLoginFailed, 0, 0, "locked")
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.record(ctx, domain.AuditLoginFailed, 0, 0, "unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, key)
		s.record(ctx, domain.AuditLoginFailed, 0, user.ID, "bad password")
		return nil, domain.ErrInvalidCredentials
	}
	s.resetFailures(ctx, key)

	now := s.now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("login: create session: %w", err)
	}

	token, err := s.signToken(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Msg("login succeeded")
	s.record(ctx, domain.AuditLogin, user.ID, user.ID, "")

	return &ports.LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Anonymous, nil
	}

	claims, ok := s.parseToken(token)
	if !ok {
		return domain.Anonymous, nil
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Anonymous, nil
		}
		return domain.Anonymous, fmt.Errorf("resolve identity: %w", err)
	}
	if session.Expired(s.now()) || strconv.FormatInt(session.UserID, 10) != claims.Subject {
		return domain.Anonymous, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Anonymous, nil
		}
		return domain.Anonymous, fmt.Errorf("resolve identity: %w", err)
	}
	return user.Identity(session.ID), nil
}

func (s *AuthService) Logout(ctx context.Context, caller domain.Identity) error {
	if caller.IsAnonymous() || caller.SessionID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, caller.SessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Int64("user_id", caller.UserID).Msg("logout")
	s.record(ctx, domain.AuditLogout, caller.UserID, caller.UserID, "")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, caller domain.Identity) (*domain.User, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, caller.UserID)
}

func (s *AuthService) signToken(session domain.Session) (string, error) {
	claims := sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        session.ID,
		Subject:   strconv.FormatInt(session.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
}

func (s *AuthService) parseToken(token string) (*sessionClaims, bool) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, false
	}
	return claims, true
}

func (s *AuthService) locked(ctx context.Context, key string) bool {
	if s.throttle == nil {
		return false
	}
	n, err := s.throttle.Failures(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return n >= s.opts.MaxFailures
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if _, err := s.throttle.RecordFailure(ctx, key, s.opts.Lockout); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) resetFailures(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login failures")
	}
}

// record writes an audit event. Failures are logged and never fail the caller.
func (s *AuthService) record(ctx context.Context, action domain.AuditAction, actor, target int64, detail string) {
	writeAudit(ctx, s.audit, s.log, &domain.AuditEvent{
		Action:   action,
		ActorID:  actor,
		TargetID: target,
		Detail:   detail,
		At:       s.now(),
	})
}

func writeAudit(ctx context.Context, repo ports.AuditRepository, log zerolog.Logger, event *domain.AuditEvent) {
	if repo == nil {
		return
	}
	if err := repo.InsertEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("action", string(event.Action)).Msg("failed to insert audit event")
	}
}

// HashPassword returns the bcrypt hash stored in the credential store.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
