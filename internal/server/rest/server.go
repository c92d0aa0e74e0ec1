// Package rest exposes the readlist services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/readlist/internal/logging"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionService is the part of services.SessionService the HTTP API uses.
type SessionService interface {
	Signup(ctx context.Context, name, email, password string) (*services.IssuedToken, error)
	Login(ctx context.Context, email, password string) (*services.IssuedToken, error)
	Verify(ctx context.Context, token string) (*auth.Identity, error)
	Logout(ctx context.Context, identity *auth.Identity) error
	LogoutEnabled() bool
}

// AccountService is the part of services.AccountService the HTTP API uses.
type AccountService interface {
	DeleteAccount(ctx context.Context, caller *auth.Identity, userID int64, password string) error
	UpdateEmail(ctx context.Context, caller *auth.Identity, userID int64, newEmail, password string) error
	GetProfile(ctx context.Context, caller *auth.Identity, userID int64) (*models.Profile, error)
}

// BookService is the part of services.BookService the HTTP API uses.
type BookService interface {
	AddBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookKey string) (*models.Book, error)
	RemoveBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookID int64) error
	ListBooks(ctx context.Context, caller *auth.Identity, list models.BookList) ([]*models.Book, error)
}

// Server is the HTTP front end.
type Server struct {
	address         string
	logger          logging.Logger
	sessions        SessionService
	accounts        AccountService
	books           BookService
	shutdownTimeout time.Duration
}

// NewServer constructs a Server listening on address once Run is called.
func NewServer(address string, l logging.Logger, ss SessionService, as AccountService, bs BookService, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		sessions:        ss,
		accounts:        as,
		books:           bs,
		shutdownTimeout: shutdownTimeout,
	}
}

// Router builds the route tree. Signup, login and the health check are the
// only routes reachable without a bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/token", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/verify", s.verify)
			if s.sessions.LogoutEnabled() {
				r.Post("/logout", s.logout)
			}
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", s.getProfile)
			r.Delete("/", s.deleteAccount)
			r.Put("/email", s.updateEmail)
		})

		s.mountList(r, "/books-to-read", models.ListToRead)
		s.mountList(r, "/books-read", models.ListRead)
	})

	return r
}

func (s *Server) mountList(r chi.Router, prefix string, list models.BookList) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", s.listBooks(list))
		r.Post("/", s.addBook(list))
		r.Delete("/{id}", s.removeBook(list))
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listen) }()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
