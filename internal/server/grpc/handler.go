package grpc

import (
	"context"

	"github.com/dmitrijs2005/readlist/internal/common"
	"github.com/dmitrijs2005/readlist/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// fail converts err into a status error, logging the cause of anything that
// surfaces as Internal.
func (s *GRPCServer) fail(ctx context.Context, err error) error {
	code, msg := statusCode(err)
	if code == codes.Internal {
		s.logger.Error(ctx, "request failed", "error", err.Error())
	}
	return status.Error(code, msg)
}

func (s *GRPCServer) reply(ctx context.Context, payload map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return out, nil
}

func caller(ctx context.Context) (*auth.Identity, error) {
	id, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return nil, common.ErrUnauthenticated
	}
	return id, nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tok, err := s.sessions.Signup(ctx, stringField(req, "name"), stringField(req, "email"), stringField(req, "password"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	s.logger.Info(ctx, "user signed up")
	return s.reply(ctx, tokenPayload(tok))
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	email := stringField(req, "email")
	if email == "" {
		email = stringField(req, "username")
	}
	tok, err := s.sessions.Login(ctx, email, stringField(req, "password"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, tokenPayload(tok))
}

func (s *GRPCServer) Verify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, identityPayload(id))
}

func (s *GRPCServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.sessions.Logout(ctx, id); err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, message("logged out"))
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	userID, err := idField(req, "id")
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	p, err := s.accounts.GetProfile(ctx, id, userID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, profilePayload(p))
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	userID, err := idField(req, "id")
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.accounts.DeleteAccount(ctx, id, userID, stringField(req, "password")); err != nil {
		return nil, s.fail(ctx, err)
	}
	s.logger.Info(ctx, "account deleted", "user_id", userID)
	return s.reply(ctx, message("user deleted"))
}

func (s *GRPCServer) UpdateEmail(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	userID, err := idField(req, "id")
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.accounts.UpdateEmail(ctx, id, userID, stringField(req, "email"), stringField(req, "password")); err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, message("email updated"))
}

func (s *GRPCServer) AddBook(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	list, err := listField(req)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	b, err := s.books.AddBook(ctx, id, list, stringField(req, "bookKey"))
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, bookPayload(b))
}

func (s *GRPCServer) RemoveBook(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	list, err := listField(req)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	bookID, err := idField(req, "id")
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := s.books.RemoveBook(ctx, id, list, bookID); err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, message("book removed"))
}

func (s *GRPCServer) ListBooks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	list, err := listField(req)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	books, err := s.books.ListBooks(ctx, id, list)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return s.reply(ctx, map[string]any{"books": bookList(books)})
}
