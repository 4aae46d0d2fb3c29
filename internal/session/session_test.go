package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/internal/backend"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/serviceerr"
	"github.com/fjod/go_cart/storefront/internal/storage"
)

type fakeUsers struct {
	meCalls       int
	registerCalls int
	tokenCalls    int

	user  *domain.User
	err   error
	token string
}

func (f *fakeUsers) Me(context.Context) (*domain.User, error) {
	f.meCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUsers) Register(_ context.Context, reg domain.Registration) (*domain.User, error) {
	f.registerCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: 9, Username: reg.Username, Role: reg.Role}, nil
}

func (f *fakeUsers) PasswordToken(context.Context, string, string) (string, error) {
	f.tokenCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func setupSession(t *testing.T, token string, users *fakeUsers) (*Session, storage.Store) {
	t.Helper()
	st := storage.NewMemoryStore()
	if token != "" {
		require.NoError(t, st.Set(context.Background(), storage.KeyToken, []byte(token)))
	}
	return New(NewTokenStore(st), users), st
}

func TestGetRole_NoTokenMakesNoCalls(t *testing.T) {
	users := &fakeUsers{user: &domain.User{Role: domain.RoleAdmin}}
	s, _ := setupSession(t, "", users)

	res := s.GetRole(context.Background())

	assert.Equal(t, RoleAbsent, res.Status)
	assert.Empty(t, res.Role)
	assert.Equal(t, 0, users.meCalls)
}

func TestGetRole_NeverCached(t *testing.T) {
	users := &fakeUsers{user: &domain.User{Role: domain.RoleUser}}
	s, st := setupSession(t, "tok", users)
	ctx := context.Background()

	res := s.GetRole(ctx)
	require.Equal(t, RoleOk, res.Status)
	assert.Equal(t, domain.RoleUser, res.Role)
	assert.False(t, res.IsAdmin())

	users.user = &domain.User{Role: domain.RoleAdmin}
	res = s.GetRole(ctx)
	assert.True(t, res.IsAdmin())
	assert.Equal(t, 2, users.meCalls)

	_, err := st.Get(ctx, "role")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetRole_FailureIsTyped(t *testing.T) {
	for _, kind := range []serviceerr.Kind{
		serviceerr.KindTransport,
		serviceerr.KindUnauthenticated,
		serviceerr.KindBusiness,
		serviceerr.KindMalformed,
	} {
		t.Run(string(kind), func(t *testing.T) {
			users := &fakeUsers{err: serviceerr.New(kind, "users.me", "boom")}
			s, _ := setupSession(t, "tok", users)

			res := s.GetRole(context.Background())
			assert.Equal(t, RoleFailed, res.Status)
			assert.Equal(t, kind, res.Reason())
			assert.Equal(t, 1, users.meCalls)
		})
	}
}

func TestGetRole_UnknownRoleIsMalformed(t *testing.T) {
	users := &fakeUsers{user: &domain.User{Role: "root"}}
	s, _ := setupSession(t, "tok", users)

	res := s.GetRole(context.Background())
	assert.Equal(t, RoleFailed, res.Status)
	assert.Equal(t, serviceerr.KindMalformed, res.Reason())
}

func TestGetToken(t *testing.T) {
	s, st := setupSession(t, "", &fakeUsers{})
	ctx := context.Background()

	_, ok := s.GetToken(ctx)
	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated(ctx))

	require.NoError(t, st.Set(ctx, storage.KeyToken, []byte("abc")))
	token, ok := s.GetToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	require.NoError(t, st.Set(ctx, storage.KeyToken, []byte("  ")))
	_, ok = s.GetToken(ctx)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	s, st := setupSession(t, "tok", &fakeUsers{})
	ctx := context.Background()

	require.NoError(t, s.Logout(ctx))
	_, err := st.Get(ctx, storage.KeyToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Logout(ctx))
}

func TestLogin(t *testing.T) {
	users := &fakeUsers{token: "fresh"}
	s, st := setupSession(t, "", users)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "ann", "pw"))

	data, err := st.Get(ctx, storage.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestLogin_Validation(t *testing.T) {
	users := &fakeUsers{token: "fresh"}
	s, _ := setupSession(t, "", users)

	err := s.Login(context.Background(), " ", "pw")
	assert.True(t, serviceerr.IsKind(err, serviceerr.KindValidation))
	err = s.Login(context.Background(), "ann", "")
	assert.True(t, serviceerr.IsKind(err, serviceerr.KindValidation))
	assert.Equal(t, 0, users.tokenCalls)
}

func TestLogin_WrongCredentialsKeepNoToken(t *testing.T) {
	users := &fakeUsers{err: serviceerr.New(serviceerr.KindUnauthenticated, "users.token", "incorrect username or password")}
	s, _ := setupSession(t, "", users)

	err := s.Login(context.Background(), "ann", "bad")
	assert.True(t, serviceerr.IsKind(err, serviceerr.KindUnauthenticated))
	assert.False(t, s.IsAuthenticated(context.Background()))
}

func TestProfile_NoToken(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: 1}}
	s, _ := setupSession(t, "", users)

	_, err := s.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNoToken)
	assert.True(t, serviceerr.IsKind(err, serviceerr.KindUnauthenticated))
	assert.Equal(t, 0, users.meCalls)
}

func TestRegister_Validation(t *testing.T) {
	valid := domain.Registration{
		Username: "ann",
		Email:    "ann@example.com",
		Password: "pw",
		Address:  "Main st 1",
		Role:     domain.RoleUser,
	}

	tests := []struct {
		name   string
		mutate func(*domain.Registration)
		ok     bool
	}{
		{"valid", func(*domain.Registration) {}, true},
		{"admin", func(r *domain.Registration) { r.Role = domain.RoleAdmin }, true},
		{"no username", func(r *domain.Registration) { r.Username = "" }, false},
		{"no email", func(r *domain.Registration) { r.Email = " " }, false},
		{"no password", func(r *domain.Registration) { r.Password = "" }, false},
		{"no address", func(r *domain.Registration) { r.Address = "" }, false},
		{"bad role", func(r *domain.Registration) { r.Role = "owner" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}
			s, _ := setupSession(t, "", users)
			reg := valid
			tt.mutate(&reg)

			_, err := s.Register(context.Background(), reg)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, 1, users.registerCalls)
				return
			}
			assert.True(t, serviceerr.IsKind(err, serviceerr.KindValidation))
			assert.Equal(t, 0, users.registerCalls)
		})
	}
}

func TestSession_AgainstBackend(t *testing.T) {
	var meCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		if r.PostForm.Get("username") != "ann" || r.PostForm.Get("password") != "pw" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"jwt-1","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /users/users/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls++
		if r.Header.Get("Authorization") != "Bearer jwt-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"username":"ann","address":"Main st 1","role":"admin"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := NewTokenStore(storage.NewMemoryStore())
	client := backend.New(backend.Options{BaseURL: srv.URL, Timeout: time.Second}, tokens)
	s := New(tokens, client)
	ctx := context.Background()

	assert.Equal(t, RoleAbsent, s.GetRole(ctx).Status)
	assert.Equal(t, 0, meCalls)

	err := s.Login(ctx, "ann", "wrong")
	var se *serviceerr.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, serviceerr.KindUnauthenticated, se.Kind)
	assert.False(t, s.IsAuthenticated(ctx))

	require.NoError(t, s.Login(ctx, "ann", "pw"))
	res := s.GetRole(ctx)
	assert.True(t, res.IsAdmin())
	assert.Equal(t, 1, meCalls)

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, RoleAbsent, s.GetRole(ctx).Status)
	assert.Equal(t, 1, meCalls)
}
