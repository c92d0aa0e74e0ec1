package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/readlist/internal/common"
	pb "github.com/dmitrijs2005/readlist/internal/proto"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods can be called without a bearer token.
var publicMethods = map[string]bool{
	pb.FullMethod(pb.MethodSignup): true,
	pb.FullMethod(pb.MethodLogin):  true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := auth.BearerToken(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, msgCouldNotValidate)
	}

	identity, err := s.sessions.Verify(ctx, token)
	if err != nil {
		s.logger.Debug(ctx, "request rejected", "method", info.FullMethod, "reason", err.Error())
		return nil, status.Error(codes.Unauthenticated, msgCouldNotValidate)
	}

	return handler(auth.WithIdentity(ctx, identity), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "rpc failed", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
	} else {
		s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
	}
	return resp, err
}
