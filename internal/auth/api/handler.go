package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"roster/internal/auth"
	"roster/internal/auth/session"
	"roster/internal/httpapi"
	"roster/internal/identity"
	"roster/internal/metrics"
	"roster/internal/security/credential"
)

// Handler wires HTTP auth endpoints to the strategy registry, session
// manager and principal store.
type Handler struct {
	log *slog.Logger
	cfg Config

	codec      credential.Config
	principals identity.Store
	strategies *auth.Registry
	sessions   *session.Manager
	guard      *auth.Guard

	metrics *metrics.Auth
}

// NewHandler constructs the auth Handler.
func NewHandler(
	log *slog.Logger,
	cfg Config,
	codec credential.Config,
	principals identity.Store,
	strategies *auth.Registry,
	sessions *session.Manager,
	guard *auth.Guard,
	m *metrics.Auth,
) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if principals == nil || strategies == nil || sessions == nil || guard == nil {
		return nil, errors.New("authapi: missing dependency")
	}
	if m == nil {
		m = metrics.NewAuthNop()
	}

	return &Handler{
		log:        log,
		cfg:        cfg,
		codec:      codec,
		principals: principals,
		strategies: strategies,
		sessions:   sessions,
		guard:      guard,
		metrics:    m,
	}, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/signup", h.handleSignup)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/me", h.handleMe)
	mux.HandleFunc("/registered", h.handleRegistered)
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req signupRequest
	if err := httpapi.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request",
			"username, password, and email must not be empty to signup")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	enc, err := h.codec.Derive(req.Password)
	if err != nil {
		h.log.Error("auth.signup.derive.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	id, err := identity.NewID(now)
	if err != nil {
		h.log.Error("auth.signup.id.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	p := identity.Principal{
		ID:          id,
		Email:       email,
		EmailNorm:   identity.NormalizeEmail(email),
		DisplayName: username,
		Credential:  enc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.principals.Insert(ctx, p); err != nil {
		if identity.IsConflict(err) {
			httpapi.WriteError(w, http.StatusConflict, "conflict", "email already registered")
			return
		}
		h.log.Error("auth.signup.insert.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "failed to add user")
		return
	}

	h.metrics.Signups.Inc()
	h.log.Info("auth.signup", "principal_id", p.ID)

	httpapi.WriteJSON(w, http.StatusCreated, signupResponse{User: p.Summary()})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := httpapi.DecodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request",
			"email and password must not be empty to authenticate")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	strategy, err := h.strategies.Get(auth.LocalName)
	if err != nil {
		h.log.Error("auth.login.strategy.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	principal, err := strategy.Authenticate(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			httpapi.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is invalid")
			return
		}
		h.metrics.Logins.WithLabelValues("error").Inc()
		h.log.Error("auth.login.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	sess, err := h.sessions.Serialize(ctx, now, principal)
	if err != nil {
		h.metrics.Logins.WithLabelValues("error").Inc()
		h.log.Error("auth.login.serialize.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.metrics.Logins.WithLabelValues("success").Inc()
	h.log.Info("auth.login", "principal_id", principal.ID)

	h.setSessionCookie(w, sess.ID, sess.ExpiresAt)

	httpapi.WriteJSON(w, http.StatusOK, loginResponse{
		User: principal,
		Session: sessionResponse{
			SessionID: sess.ID,
			ExpiresAt: sess.ExpiresAt,
		},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	if token := h.sessionToken(r); token != "" {
		if err := h.sessions.Revoke(ctx, now, token); err != nil {
			h.log.Error("auth.logout.fail", "err", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
			return
		}
		h.metrics.Logouts.Inc()
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	principal, ok := h.requireSession(w, r)
	if !ok {
		return
	}

	httpapi.WriteJSON(w, http.StatusOK, meResponse{User: principal})
}

func (h *Handler) handleRegistered(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if _, ok := h.requireSession(w, r); !ok {
		return
	}

	all, err := h.principals.List(r.Context())
	if err != nil {
		h.log.Error("auth.registered.list.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	users := make([]identity.Summary, 0, len(all))
	for _, p := range all {
		users = append(users, p.Summary())
	}

	httpapi.WriteJSON(w, http.StatusOK, registeredResponse{Users: users})
}

// requireSession resolves the request's session token via the guard.
// Every failure surfaces as the same 401.
func (h *Handler) requireSession(w http.ResponseWriter, r *http.Request) (identity.Summary, bool) {
	principal, err := h.guard.Authorize(r.Context(), time.Now().UTC(), h.sessionToken(r))
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			httpapi.WriteError(w, http.StatusUnauthorized, "unauthorized",
				"authentication needed for this endpoint")
			return identity.Summary{}, false
		}
		h.log.Error("auth.guard.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return identity.Summary{}, false
	}
	return principal, true
}
