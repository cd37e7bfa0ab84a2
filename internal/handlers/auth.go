package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bibliogo/apiserver/internal/auth"
	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// RevocationChecker is the read side of the revocation ledger consulted
// on every authenticated request. The authenticator and the ledger stay
// two distinct collaborators.
type RevocationChecker interface {
	IsRevoked(jti string) (bool, error)
}

// Revoker is the write side used on logout.
type Revoker interface {
	Revoke(jti string) error
}

// AuthHandler provides login, logout, and password-change endpoints.
type AuthHandler struct {
	userService *services.UserService
	attempts    *auth.AttemptLogger
	revocations Revoker
	checker     RevocationChecker
	secret      []byte
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(
	userService *services.UserService,
	attempts *auth.AttemptLogger,
	revocations Revoker,
	checker RevocationChecker,
	jwtSecret string,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		attempts:    attempts,
		revocations: revocations,
		checker:     checker,
		secret:      []byte(jwtSecret),
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Post("/logout", handler.Logout)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
	r.With(handler.RequireAuth).Put("/password", handler.ChangePassword)
}

// RequireAuth enforces bearer-token authentication, rejects revoked
// tokens, and injects the subject into the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return h.authenticate(next, true)
}

// OptionalAuth injects the subject when a valid token is presented but
// lets anonymous requests through.
func (h *AuthHandler) OptionalAuth(next http.Handler) http.Handler {
	return h.authenticate(next, false)
}

func (h *AuthHandler) authenticate(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			if required {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ParseToken(tokenString, h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		revoked, err := h.checker.IsRevoked(claims.JTI)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to verify token")
			return
		}
		if revoked {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), contextSubjectKey, claims.Subject)
		ctx = context.WithValue(ctx, contextJTIKey, claims.JTI)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login verifies credentials, logs the attempt, and returns a session
// token issued for the user identifier.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, ok := h.userService.Authenticate(r.Context(), req.ID, req.Password)
	if err := h.attempts.Log(req.ID, ok); err != nil {
		slog.Error("write auth attempt log", "error", err)
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.IssueToken(user.ID, h.secret, auth.DefaultTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token})
}

// Logout revokes the presented token's identifier. Revoking the same
// token twice is a conflict, not a no-op.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	jti, err := jtiFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.revocations.Revoke(jti); err != nil {
		if errors.Is(err, store.ErrAlreadyRevoked) {
			writeError(w, http.StatusConflict, "token already revoked")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to revoke token")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.Get(r.Context(), subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// ChangePassword swaps the caller's password after validating strength
// and the old password. A weak password or a wrong old password is a
// plain rejection, not a server error.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if !auth.ValidateStrength(req.NewPassword) {
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
		return
	}

	ok, err := h.userService.ChangePassword(r.Context(), subject,
		auth.HashPassword(req.OldPassword), auth.HashPassword(req.NewPassword))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "old password does not match")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

const weakPasswordMessage = "password must be at least eight characters and contain " +
	"an uppercase letter, a lowercase letter, a digit, and a special character"

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
