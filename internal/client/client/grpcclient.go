package client

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/readlist/internal/client/models"
	"github.com/dmitrijs2005/readlist/internal/common"
	pb "github.com/dmitrijs2005/readlist/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	conn *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to target. Extra dial options are appended
// after the defaults (insecure transport and the token interceptor).
func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) invoke(ctx context.Context, method string, payload map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, pb.FullMethod(method), in, out); err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *GRPCClient) Signup(ctx context.Context, name, email string, password []byte) (*models.Token, error) {
	out, err := s.invoke(ctx, pb.MethodSignup, map[string]any{"name": name, "email": email, "password": string(password)})
	if err != nil {
		return nil, err
	}
	return decodeToken(out), nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*models.Token, error) {
	out, err := s.invoke(ctx, pb.MethodLogin, map[string]any{"email": email, "password": string(password)})
	if err != nil {
		return nil, err
	}
	return decodeToken(out), nil
}

func (s *GRPCClient) Verify(ctx context.Context) (*models.Identity, error) {
	out, err := s.invoke(ctx, pb.MethodVerify, nil)
	if err != nil {
		return nil, err
	}
	return decodeIdentity(out), nil
}

func (s *GRPCClient) Logout(ctx context.Context) error {
	_, err := s.invoke(ctx, pb.MethodLogout, nil)
	return err
}

func (s *GRPCClient) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	out, err := s.invoke(ctx, pb.MethodGetProfile, map[string]any{"id": userID})
	if err != nil {
		return nil, err
	}
	return decodeProfile(out), nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context, userID int64, password []byte) error {
	_, err := s.invoke(ctx, pb.MethodDeleteAccount, map[string]any{"id": userID, "password": string(password)})
	return err
}

func (s *GRPCClient) UpdateEmail(ctx context.Context, userID int64, email string, password []byte) error {
	_, err := s.invoke(ctx, pb.MethodUpdateEmail, map[string]any{"id": userID, "email": email, "password": string(password)})
	return err
}

func (s *GRPCClient) AddBook(ctx context.Context, list, bookKey string) (*models.Book, error) {
	out, err := s.invoke(ctx, pb.MethodAddBook, map[string]any{"list": list, "bookKey": bookKey})
	if err != nil {
		return nil, err
	}
	b := decodeBook(out)
	return &b, nil
}

func (s *GRPCClient) RemoveBook(ctx context.Context, list string, bookID int64) error {
	_, err := s.invoke(ctx, pb.MethodRemoveBook, map[string]any{"list": list, "id": bookID})
	return err
}

func (s *GRPCClient) ListBooks(ctx context.Context, list string) ([]models.Book, error) {
	out, err := s.invoke(ctx, pb.MethodListBooks, map[string]any{"list": list})
	if err != nil {
		return nil, err
	}
	return decodeBooks(out, "books"), nil
}
