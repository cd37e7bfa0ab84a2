package handlers

import (
	"errors"
	"net/http"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/export"
	"github.com/bibliogo/apiserver/internal/report"
	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// ReportHandler serves generated documents and the export archive.
type ReportHandler struct {
	cfg         config.Config
	generator   *report.Generator
	pipeline    *export.Pipeline
	userService *services.UserService
	bookService *services.BookService
	loanService *services.LoanService
}

// NewReportHandler constructs a handler with the provided dependencies.
func NewReportHandler(
	cfg config.Config,
	generator *report.Generator,
	pipeline *export.Pipeline,
	userService *services.UserService,
	bookService *services.BookService,
	loanService *services.LoanService,
) *ReportHandler {
	return &ReportHandler{
		cfg:         cfg,
		generator:   generator,
		pipeline:    pipeline,
		userService: userService,
		bookService: bookService,
		loanService: loanService,
	}
}

// ReportRouter registers document routes on the given router.
func ReportRouter(r chi.Router, handler *ReportHandler, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Get("/card", handler.MembershipCard)
	r.Get("/sheet/{isbn}", handler.BookSheet)
	r.With(authMiddleware).Get("/loans", handler.LoanLedger)
	r.Get("/export", handler.Export)
}

// MembershipCard generates and serves the caller's membership card.
func (h *ReportHandler) MembershipCard(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.Get(r.Context(), subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	path, err := h.generator.MembershipCard(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate card")
		return
	}
	http.ServeFile(w, r, path)
}

// BookSheet generates and serves the bibliographic sheet for a book.
func (h *ReportHandler) BookSheet(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	book, err := h.bookService.Get(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load book")
		return
	}

	coverPath, _ := h.bookService.FindCover(isbn)
	path, err := h.generator.BookSheet(book, coverPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate sheet")
		return
	}
	http.ServeFile(w, r, path)
}

// LoanLedger generates and serves the active-loan listing.
// Administrators only.
func (h *ReportHandler) LoanLedger(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	caller, err := h.userService.Get(r.Context(), subject)
	if err != nil || !caller.IsAdmin() {
		writeError(w, http.StatusForbidden, "only administrators can generate the loan report")
		return
	}

	loans, err := h.loanService.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load loans")
		return
	}

	books := make(map[string]types.Book, len(loans))
	users := make(map[string]types.User, len(loans))
	for _, l := range loans {
		if _, ok := books[l.ISBN]; !ok {
			if b, err := h.bookService.Get(r.Context(), l.ISBN); err == nil {
				books[l.ISBN] = b
			}
		}
		if _, ok := users[l.UserID]; !ok {
			if u, err := h.userService.Get(r.Context(), l.UserID); err == nil {
				users[l.UserID] = u
			}
		}
	}

	path, err := h.generator.LoanLedger(loans, books, users)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate loan report")
		return
	}
	http.ServeFile(w, r, path)
}

// Export runs the export pipeline and serves the resulting archive.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	path, err := h.pipeline.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export library")
		return
	}
	http.ServeFile(w, r, path)
}
