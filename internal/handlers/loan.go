package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// LoanHandler provides HTTP handlers for the circulation ledger.
type LoanHandler struct {
	loanService *services.LoanService
	userService *services.UserService
}

// NewLoanHandler constructs a handler with the provided services.
func NewLoanHandler(loanService *services.LoanService, userService *services.UserService) *LoanHandler {
	return &LoanHandler{loanService: loanService, userService: userService}
}

// LoanRouter registers circulation routes on the given router. All
// routes require authentication.
func LoanRouter(r chi.Router, handler *LoanHandler, authMiddleware func(http.Handler) http.Handler) {
	r.Use(authMiddleware)
	r.Post("/", handler.CreateLoan)
	r.Delete("/{isbn}", handler.ReturnLoan)
}

// CreateLoan lends a book to a user. Administrators only.
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caller, err := h.userService.Get(r.Context(), subject)
	if err != nil || !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "only administrators can lend books")
		return
	}

	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.ISBN = strings.TrimSpace(req.ISBN)
	req.UserID = strings.TrimSpace(req.UserID)
	if req.ISBN == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if err := h.loanService.Lend(r.Context(), req.ISBN, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotAvailable) {
			writeError(w, http.StatusConflict, "book is already on loan")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create loan")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ReturnLoan returns a book. Only the recorded borrower may return it.
func (h *LoanHandler) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	isbn := chi.URLParam(r, "isbn")
	if err := h.loanService.Return(r.Context(), isbn, subject); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "book is not on loan")
		case errors.Is(err, store.ErrInvalidReturn):
			writeError(w, http.StatusForbidden, "book is loaned to another user")
		default:
			writeError(w, http.StatusInternalServerError, "failed to return loan")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type CreateLoanRequest struct {
	ISBN   string `json:"isbn"`
	UserID string `json:"user_id"`
}
