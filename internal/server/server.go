package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bibliogo/apiserver/config"
	"github.com/bibliogo/apiserver/internal/auth"
	"github.com/bibliogo/apiserver/internal/export"
	"github.com/bibliogo/apiserver/internal/handlers"
	"github.com/bibliogo/apiserver/internal/lookup"
	"github.com/bibliogo/apiserver/internal/report"
	"github.com/bibliogo/apiserver/internal/services"
	"github.com/bibliogo/apiserver/internal/storage"
	"github.com/bibliogo/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer  *http.Server
	router      *chi.Mux
	revocations *store.RevocationStore
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	revocations, err := store.NewRevocationStore(cfg.RevocationDBPath)
	if err != nil {
		return nil, err
	}

	publisher, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		revocations.Close()
		return nil, err
	}
	if publisher != nil {
		if err := publisher.EnsureBucket(ctx); err != nil {
			revocations.Close()
			return nil, err
		}
		slog.Info("publishing export archives", "bucket", publisher.Bucket())
	}

	userService := services.NewUserService(cfg)
	bookService := services.NewBookService(cfg, lookup.NewGoogleBooksClient())
	loanService := services.NewLoanService(cfg)

	attempts := auth.NewAttemptLogger(cfg.AuthLogPath)
	authHandler := handlers.NewAuthHandler(userService, attempts, revocations, revocations, jwtSecret)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService, loanService, userService, cfg.ImageDir)
	loanHandler := handlers.NewLoanHandler(loanService, userService)
	reportHandler := handlers.NewReportHandler(
		cfg,
		report.NewGenerator(cfg.ExportDir),
		export.NewPipeline(cfg, publisher),
		userService,
		bookService,
		loanService,
	)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userHandler, authHandler.RequireAuth)
	})
	router.Route("/books", func(r chi.Router) {
		handlers.BookRouter(r, bookHandler, authHandler.RequireAuth, authHandler.OptionalAuth)
	})
	router.Route("/loans", func(r chi.Router) {
		handlers.LoanRouter(r, loanHandler, authHandler.RequireAuth)
	})
	router.Route("/reports", func(r chi.Router) {
		handlers.ReportRouter(r, reportHandler, authHandler.RequireAuth)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer:  httpServer,
		router:      router,
		revocations: revocations,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.revocations != nil {
		_ = s.revocations.Close()
	}
	return s.httpServer.Close()
}
