package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bibliogo/apiserver/internal/auth"
	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// superAdminID is the bootstrap administrator; only it may create
// further administrators.
const superAdminID = "0"

// UserHandler provides HTTP handlers for the user directory.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user routes on the given router. All routes
// require authentication.
func UserRouter(r chi.Router, handler *UserHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)
	r.Post("/", handler.CreateUser)
	r.Put("/", handler.UpdateUser)
	r.Get("/{userID}", handler.GetUser)
	r.Delete("/{userID}", handler.DeleteUser)
}

func (h *UserHandler) currentUser(r *http.Request) (types.User, error) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return types.User{}, err
	}
	return h.userService.Get(r.Context(), subject)
}

// CreateUser registers a new member. Only administrators may create
// users; only the root administrator may create administrators.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "only administrators can create users")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !auth.ValidateStrength(req.Password) {
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
		return
	}

	role := types.RoleMember
	if req.Admin {
		if caller.ID != superAdminID {
			writeError(w, http.StatusForbidden, "only the root administrator can create administrators")
			return
		}
		role = types.RoleAdmin
	}

	user := types.User{
		ID:           req.ID,
		Name:         req.Name,
		Surname1:     req.Surname1,
		Surname2:     req.Surname2,
		Role:         role,
		PasswordHash: auth.HashPassword(req.Password),
	}
	if err := h.userService.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// GetUser returns a user's profile. Members can only read themselves.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID := chi.URLParam(r, "userID")
	if !caller.IsAdmin() && caller.ID != userID {
		writeError(w, http.StatusForbidden, "only administrators can read other users")
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateUser mutates the caller's own name fields.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.userService.Update(r.Context(), subject, req.Name, req.Surname1, req.Surname2); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser removes a user. Only administrators may delete, and a
// user holding active loans cannot be removed.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := h.currentUser(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "only administrators can delete users")
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.userService.Delete(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotAvailable):
			writeError(w, http.StatusConflict, "user has active loans")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete user")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CreateUserRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Surname1 string `json:"surname1"`
	Surname2 string `json:"surname2"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Surname1 string `json:"surname1"`
	Surname2 string `json:"surname2"`
}
