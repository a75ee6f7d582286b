package directory

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"roster/internal/httpapi"
	"roster/internal/identity"
	"roster/internal/security/credential"
)

// Handler implements CRUD over registered principals.
type Handler struct {
	log          *slog.Logger
	codec        credential.Config
	principals   identity.Store
	maxBodyBytes int64
}

// NewHandler constructs the directory Handler. maxBodyBytes bounds
// request bodies the same way the auth endpoints do.
func NewHandler(log *slog.Logger, codec credential.Config, principals identity.Store, maxBodyBytes int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{
		log:          log,
		codec:        codec,
		principals:   principals,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register wires directory routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/users", h.handleUsers)
	mux.HandleFunc("/users/{id}", h.handleUserByID)
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type userResponse struct {
	User identity.Summary `json:"user"`
}

type usersResponse struct {
	Users []identity.Summary `json:"users"`
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleUserByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		h.updateUser(w, r)
	case http.MethodDelete:
		h.deleteUser(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	all, err := h.principals.List(r.Context())
	if err != nil {
		h.log.Error("directory.list.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	users := make([]identity.Summary, 0, len(all))
	for _, p := range all {
		users = append(users, p.Summary())
	}
	httpapi.WriteJSON(w, http.StatusOK, usersResponse{Users: users})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpapi.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request",
			"username, password, and email must not be empty")
		return
	}

	now := time.Now().UTC()

	enc, err := h.codec.Derive(req.Password)
	if err != nil {
		h.log.Error("directory.create.derive.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	id, err := identity.NewID(now)
	if err != nil {
		h.log.Error("directory.create.id.fail", "err", err)
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

	if err := h.principals.Insert(r.Context(), p); err != nil {
		if identity.IsConflict(err) {
			httpapi.WriteError(w, http.StatusConflict, "conflict", "email already registered")
			return
		}
		h.log.Error("directory.create.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "failed to add user")
		return
	}

	h.log.Info("directory.create", "principal_id", p.ID)
	httpapi.WriteJSON(w, http.StatusCreated, userResponse{User: p.Summary()})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	var req updateUserRequest
	if err := httpapi.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" && email == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	ctx := r.Context()

	p, err := h.principals.FindByID(ctx, id)
	if err != nil {
		if identity.IsNotFound(err) {
			httpapi.WriteError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.Error("directory.update.find.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	if username != "" {
		p.DisplayName = username
	}
	if email != "" {
		p.Email = email
		p.EmailNorm = identity.NormalizeEmail(email)
	}
	p.UpdatedAt = time.Now().UTC()

	if err := h.principals.Update(ctx, p); err != nil {
		switch {
		case identity.IsConflict(err):
			httpapi.WriteError(w, http.StatusConflict, "conflict", "email already registered")
		case identity.IsNotFound(err):
			httpapi.WriteError(w, http.StatusNotFound, "not_found", "user not found")
		default:
			h.log.Error("directory.update.fail", "err", err)
			httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "failed to update user")
		}
		return
	}

	h.log.Info("directory.update", "principal_id", p.ID)
	httpapi.WriteJSON(w, http.StatusOK, userResponse{User: p.Summary()})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	if err := h.principals.Delete(r.Context(), id); err != nil {
		if identity.IsNotFound(err) {
			httpapi.WriteError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		h.log.Error("directory.delete.fail", "err", err)
		httpapi.WriteError(w, http.StatusInternalServerError, "server_error", "failed to delete user")
		return
	}

	h.log.Info("directory.delete", "principal_id", id)
	w.WriteHeader(http.StatusNoContent)
}
