package session

import (
	"context"
	"fmt"
	"strings"

	slogctx "github.com/veqryn/slog-context"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
)

// ErrNoToken is returned by operations that need a logged-in user when no
// token is stored. No network call is made in that case.
var ErrNoToken = serviceerr.New(serviceerr.KindUnauthenticated, "session", "not logged in")

// UserAPI is the part of the backend the session talks to.
type UserAPI interface {
	Me(ctx context.Context) (*domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	PasswordToken(ctx context.Context, username, password string) (string, error)
}

type RoleStatus int

const (
	RoleAbsent RoleStatus = iota // no token stored
	RoleOk
	RoleFailed // lookup failed, see Err
)

func (s RoleStatus) String() string {
	switch s {
	case RoleOk:
		return "ok"
	case RoleFailed:
		return "failed"
	default:
		return "absent"
	}
}

// RoleResult is the outcome of a role lookup. Role is set only when Status
// is RoleOk, Err only when it is RoleFailed.
type RoleResult struct {
	Status RoleStatus
	Role   domain.Role
	Err    error
}

// Reason reports the error kind of a failed lookup.
func (r RoleResult) Reason() serviceerr.Kind {
	return serviceerr.KindOf(r.Err)
}

func (r RoleResult) IsAdmin() bool {
	return r.Status == RoleOk && r.Role == domain.RoleAdmin
}

// Session derives everything from the stored token. The role is fetched
// on every call and never cached.
type Session struct {
	tokens *TokenStore
	users  UserAPI
}

func New(tokens *TokenStore, users UserAPI) *Session {
	return &Session{tokens: tokens, users: users}
}

func (s *Session) GetToken(ctx context.Context) (string, bool) {
	return s.tokens.GetToken(ctx)
}

func (s *Session) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.tokens.GetToken(ctx)
	return ok
}

func (s *Session) GetRole(ctx context.Context) RoleResult {
	if !s.IsAuthenticated(ctx) {
		return RoleResult{Status: RoleAbsent}
	}

	user, err := s.users.Me(ctx)
	if err != nil {
		slogctx.Debug(ctx, "role lookup failed", "kind", serviceerr.KindOf(err), "error", err)
		return RoleResult{Status: RoleFailed, Err: err}
	}
	if !user.Role.Valid() {
		return RoleResult{
			Status: RoleFailed,
			Err:    serviceerr.New(serviceerr.KindMalformed, "session.role", fmt.Sprintf("unknown role %q", user.Role)),
		}
	}
	return RoleResult{Status: RoleOk, Role: user.Role}
}

// Profile returns the current user. It fails with ErrNoToken without a
// request when nobody is logged in.
func (s *Session) Profile(ctx context.Context) (*domain.User, error) {
	if !s.IsAuthenticated(ctx) {
		return nil, ErrNoToken
	}
	return s.users.Me(ctx)
}

// Login exchanges credentials for a token and stores it.
func (s *Session) Login(ctx context.Context, username, password string) error {
	const op = "session.login"

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return serviceerr.Validation(op, "username and password are required")
	}

	token, err := s.users.PasswordToken(ctx, username, password)
	if err != nil {
		return err
	}
	if token == "" {
		return serviceerr.New(serviceerr.KindMalformed, op, "empty access token")
	}

	if err := s.tokens.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	slogctx.Info(ctx, "logged in", "username", username)
	return nil
}

// Logout deletes the stored token. Logging out twice is fine.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.tokens.Delete(ctx); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (s *Session) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	if err := validateRegistration(reg); err != nil {
		return nil, err
	}
	return s.users.Register(ctx, reg)
}

func validateRegistration(reg domain.Registration) error {
	const op = "session.register"

	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"username", reg.Username},
		{"email", reg.Email},
		{"password", reg.Password},
		{"address", reg.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return serviceerr.Validation(op, "missing required fields: %s", strings.Join(missing, ", "))
	}
	if !reg.Role.Valid() {
		return serviceerr.Validation(op, "role must be %q or %q", domain.RoleUser, domain.RoleAdmin)
	}
	return nil
}
