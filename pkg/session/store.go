// Package session owns the authenticated identity for the lifetime of one
// invocation: the bearer token plus the validated user and organization.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/tably-ai/tably-cli/pkg/gateway"
	"github.com/tably-ai/tably-cli/pkg/logging"
	"github.com/tably-ai/tably-cli/pkg/models"
)

// Status is the tri-state initialization state of the session. Consumers
// must be able to tell "still restoring" apart from "confirmed logged out".
type Status int

const (
	StatusRestoring Status = iota
	StatusAnonymous
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusAnonymous:
		return "anonymous"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// AuthGateway is the slice of the gateway the session store depends on.
type AuthGateway interface {
	Login(ctx context.Context, req gateway.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req gateway.RegisterRequest) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.MeResponse, error)
}

var _ AuthGateway = (*gateway.Client)(nil)

// Store holds the session. User and organization are only ever set together
// with a token the backend has validated.
type Store struct {
	mu     sync.RWMutex
	gw     AuthGateway
	tokens TokenStore
	logger *zap.Logger

	status Status
	token  string
	user   *models.User
	org    *models.Organization
}

// NewStore creates a session store. The session starts in StatusRestoring
// until Restore or Login/Register resolves it.
func NewStore(gw AuthGateway, tokens TokenStore, logger *zap.Logger) *Store {
	return &Store{
		gw:     gw,
		tokens: tokens,
		logger: logger.Named("session"),
		status: StatusRestoring,
	}
}

// Status returns the current initialization state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Token returns the validated bearer token, or "" when not authenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the authenticated user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Organization returns the authenticated user's organization, or nil.
func (s *Store) Organization() *models.Organization {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.org
}

// Restore validates a previously persisted token against the who-am-I
// endpoint. An invalid, expired, or missing token is an expected logged-out
// outcome, not an error: the persisted token is discarded and the session
// ends up anonymous. The returned status is never StatusRestoring.
func (s *Store) Restore(ctx context.Context) Status {
	token, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted token", zap.String("error", logging.SanitizeError(err)))
		return s.becomeAnonymous(true)
	}
	if token == "" {
		return s.becomeAnonymous(false)
	}

	// A token that is visibly expired is not worth a round trip, but the
	// backend stays the validation authority for everything else.
	if tokenExpired(token) {
		s.logger.Debug("persisted token is expired, discarding")
		return s.becomeAnonymous(true)
	}

	me, err := s.gw.Me(ctx, token)
	if err != nil {
		s.logger.Info("persisted token rejected by server, discarding",
			zap.String("error", logging.SanitizeError(err)))
		return s.becomeAnonymous(true)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticated
	s.token = token
	s.user = &me.User
	s.org = &me.Organization
	s.logger.Debug("session restored", zap.String("user_id", me.User.ID))
	return s.status
}

// Login authenticates with email and password. Two sequential calls: the
// auth call, then who-am-I using the freshly returned token. Gateway errors
// propagate unchanged.
func (s *Store) Login(ctx context.Context, email, password string) error {
	auth, err := s.gw.Login(ctx, gateway.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.adopt(ctx, auth.Token)
}

// Register creates an account and organization, then authenticates exactly
// like Login.
func (s *Store) Register(ctx context.Context, req gateway.RegisterRequest) error {
	auth, err := s.gw.Register(ctx, req)
	if err != nil {
		return err
	}
	return s.adopt(ctx, auth.Token)
}

// adopt persists a fresh token and fetches the organization profile with
// it. The in-memory identity is only populated once who-am-I succeeds.
func (s *Store) adopt(ctx context.Context, token string) error {
	if err := s.tokens.Save(token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	me, err := s.gw.Me(ctx, token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAuthenticated
	s.token = token
	s.user = &me.User
	s.org = &me.Organization
	s.logger.Debug("session established",
		zap.String("user_id", me.User.ID),
		zap.String("token", logging.SanitizeToken(token)))
	return nil
}

// Logout clears the persisted token and in-memory identity unconditionally.
// No network call is involved; a failure to remove the token file is the
// only possible error and the in-memory session is cleared regardless.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.status = StatusAnonymous
	s.token = ""
	s.user = nil
	s.org = nil
	s.mu.Unlock()

	return s.tokens.Clear()
}

func (s *Store) becomeAnonymous(discardToken bool) Status {
	if discardToken {
		if err := s.tokens.Clear(); err != nil {
			s.logger.Warn("failed to discard token", zap.Error(err))
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = StatusAnonymous
	s.token = ""
	s.user = nil
	s.org = nil
	return s.status
}

// tokenExpired inspects the token's exp claim without verifying the
// signature. Unparseable tokens are not treated as expired here; the
// who-am-I call decides their fate.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
