// Package grpc exposes the readlist services over gRPC. Messages are
// google.protobuf.Struct values carrying the same fields as the HTTP API.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/readlist/internal/logging"
	pb "github.com/dmitrijs2005/readlist/internal/proto"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"github.com/dmitrijs2005/readlist/internal/server/models"
	"github.com/dmitrijs2005/readlist/internal/server/services"
	"google.golang.org/grpc"
)

// SessionService is the part of services.SessionService used here.
type SessionService interface {
	Signup(ctx context.Context, name, email, password string) (*services.IssuedToken, error)
	Login(ctx context.Context, email, password string) (*services.IssuedToken, error)
	Verify(ctx context.Context, token string) (*auth.Identity, error)
	Logout(ctx context.Context, identity *auth.Identity) error
}

// AccountService is the part of services.AccountService used here.
type AccountService interface {
	DeleteAccount(ctx context.Context, caller *auth.Identity, userID int64, password string) error
	UpdateEmail(ctx context.Context, caller *auth.Identity, userID int64, newEmail, password string) error
	GetProfile(ctx context.Context, caller *auth.Identity, userID int64) (*models.Profile, error)
}

// BookService is the part of services.BookService used here.
type BookService interface {
	AddBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookKey string) (*models.Book, error)
	RemoveBook(ctx context.Context, caller *auth.Identity, list models.BookList, bookID int64) error
	ListBooks(ctx context.Context, caller *auth.Identity, list models.BookList) ([]*models.Book, error)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	sessions SessionService
	accounts AccountService
	books    BookService
}

var _ pb.AccountServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ss SessionService, as AccountService, bs BookService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		sessions: ss,
		accounts: as,
		books:    bs,
	}
}

// NewServer builds a grpc.Server with the service and its interceptors
// registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
