package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibliogo/apiserver/internal/lookup"
	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/bibliogo/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	minISBNLength  = 10
	maxCoverMemory = 16 << 20
)

// BookHandler provides HTTP handlers for the catalog.
type BookHandler struct {
	bookService *services.BookService
	loanService *services.LoanService
	userService *services.UserService
	imageDir    string
}

// NewBookHandler constructs a handler with the provided services.
func NewBookHandler(
	bookService *services.BookService,
	loanService *services.LoanService,
	userService *services.UserService,
	imageDir string,
) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		loanService: loanService,
		userService: userService,
		imageDir:    imageDir,
	}
}

// BookRouter registers catalog routes on the given router.
func BookRouter(
	r chi.Router,
	handler *BookHandler,
	authMiddleware func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) {
	r.With(authMiddleware).Post("/", handler.CreateBook)
	r.Route("/{isbn}", func(r chi.Router) {
		r.With(optionalAuth).Get("/", handler.GetBook)
		r.With(authMiddleware).Put("/", handler.UpdateBook)
		r.With(authMiddleware).Delete("/", handler.DeleteBook)
		r.Get("/references/{format}", handler.GetReference)
		r.With(authMiddleware).Post("/cover", handler.UploadCover)
		r.Get("/cover", handler.DownloadCover)
	})
}

func (h *BookHandler) isAdmin(r *http.Request) bool {
	subject, err := subjectFromContext(r.Context())
	if err != nil {
		return false
	}
	user, err := h.userService.Get(r.Context(), subject)
	return err == nil && user.IsAdmin()
}

// GetBook returns a catalog entry. Administrators additionally see the
// current borrower and loan date; everyone else sees availability.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
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

	loan, onLoan, err := h.loanService.ActiveLoan(r.Context(), isbn)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load loan state")
		return
	}

	resp := BookResponse{Book: book}
	if h.isAdmin(r) {
		if onLoan {
			resp.Borrower = loan.UserID
			resp.LoanedAt = loan.StartedAt.Format("02/01/2006 15:04:05")
		}
	} else {
		available := !onLoan
		resp.Available = &available
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateBook adds a book, either with full metadata or, when any field
// is missing, by remote ISBN lookup. Administrators only.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "only administrators can create books")
		return
	}

	var req BookUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.ISBN = strings.TrimSpace(req.ISBN)
	if len(req.ISBN) < minISBNLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("isbn must be at least %d characters", minISBNLength))
		return
	}

	var book types.Book
	var err error
	if req.Title != "" && req.Author != "" && req.Publisher != "" && req.Year != "" {
		book = types.Book{
			ISBN:      req.ISBN,
			Title:     req.Title,
			Author:    req.Author,
			Publisher: req.Publisher,
			Year:      req.Year,
		}
		err = h.bookService.Create(r.Context(), book)
	} else {
		book, err = h.bookService.CreateByISBN(r.Context(), req.ISBN)
	}
	if err != nil {
		var lookupErr *lookup.LookupError
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "book already exists")
		case errors.As(err, &lookupErr):
			writeError(w, http.StatusFailedDependency, lookupErr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create book")
		}
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

// UpdateBook mutates a book's metadata. Administrators only; a book on
// loan cannot be edited.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "only administrators can update books")
		return
	}

	var req BookUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	isbn := chi.URLParam(r, "isbn")
	err := h.bookService.Update(r.Context(), isbn, req.Title, req.Author, req.Publisher, req.Year)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotAvailable):
			writeError(w, http.StatusConflict, "book is on loan")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "book not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update book")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBook removes a book. Administrators only; a book on loan
// cannot be deleted.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "only administrators can delete books")
		return
	}

	isbn := chi.URLParam(r, "isbn")
	if err := h.bookService.Delete(r.Context(), isbn); err != nil {
		switch {
		case errors.Is(err, store.ErrNotAvailable):
			writeError(w, http.StatusConflict, "book is on loan")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "book not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete book")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetReference returns the book's citation in the requested format.
func (h *BookHandler) GetReference(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	format := chi.URLParam(r, "format")

	references, err := h.bookService.References(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build references")
		return
	}

	citation, ok := references[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid reference format")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"format": format, "reference": citation})
}

// UploadCover stores a cover image named <isbn>.<ext>. Administrators only.
func (h *BookHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		writeError(w, http.StatusForbidden, "only administrators can upload covers")
		return
	}

	isbn := chi.URLParam(r, "isbn")
	if _, err := h.bookService.Get(r.Context(), isbn); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "book not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load book")
		return
	}

	if err := r.ParseMultipartForm(maxCoverMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing cover file")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	if ext == "" {
		writeError(w, http.StatusBadRequest, "cover file needs an extension")
		return
	}

	if err := os.MkdirAll(h.imageDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}
	dst, err := os.Create(filepath.Join(h.imageDir, isbn+"."+ext))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store cover")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// DownloadCover serves the cover image for an ISBN, if one exists.
func (h *BookHandler) DownloadCover(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")
	path, ok := h.bookService.FindCover(isbn)
	if !ok {
		writeError(w, http.StatusNotFound, "book not found or has no cover")
		return
	}
	http.ServeFile(w, r, path)
}

// BookUpsertRequest carries catalog metadata for create and update.
type BookUpsertRequest struct {
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
	Year      string `json:"year"`
}

// BookResponse enriches a catalog entry with circulation state.
type BookResponse struct {
	types.Book
	Available *bool  `json:"available,omitempty"`
	Borrower  string `json:"borrower,omitempty"`
	LoanedAt  string `json:"loaned_at,omitempty"`
}
