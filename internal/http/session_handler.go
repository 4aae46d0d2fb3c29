package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	d "github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/session"
)

type Session interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	GetRole(ctx context.Context) session.RoleResult
	Register(ctx context.Context, reg d.Registration) (*d.User, error)
}

type SessionHandler struct {
	session Session
	timeout time.Duration
}

func NewSessionHandler(s Session, timeout time.Duration) *SessionHandler {
	return &SessionHandler{
		session: s,
		timeout: timeout,
	}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RoleResponse struct {
	Status string `json:"status"`
	Role   string `json:"role,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.session.Login(ctx, req.Username, req.Password); err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusOK, map[string]string{"status": "logged_in"})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		handleServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Role reports the role lookup outcome as data. A failed lookup is still a
// 200; the failure is in the body.
func (h *SessionHandler) Role(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res := h.session.GetRole(ctx)
	resp := RoleResponse{Status: res.Status.String()}
	switch res.Status {
	case session.RoleOk:
		resp.Role = string(res.Role)
	case session.RoleFailed:
		resp.Reason = string(res.Reason())
	}

	respondJSON(ctx, w, http.StatusOK, resp)
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req d.Registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.session.Register(ctx, req)
	if err != nil {
		handleServiceError(ctx, w, err)
		return
	}

	respondJSON(ctx, w, http.StatusCreated, user)
}
