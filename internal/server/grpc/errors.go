package grpc

import (
	"errors"

	"github.com/dmitrijs2005/readlist/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	msgCouldNotValidate = "could not validate credentials"
	msgInternal         = "internal error"
)

// statusCode maps a service error to a gRPC code and the message shown to
// the client.
func statusCode(err error) (codes.Code, string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return codes.Unauthenticated, common.ErrInvalidCredentials.Error()
	case common.IsAuthError(err):
		return codes.Unauthenticated, msgCouldNotValidate
	case errors.Is(err, common.ErrWrongPassword):
		return codes.Unauthenticated, common.ErrWrongPassword.Error()
	case errors.Is(err, common.ErrCorruptCredential):
		return codes.Internal, msgInternal
	case errors.Is(err, common.ErrWeakPassword):
		return codes.InvalidArgument, common.ErrWeakPassword.Error()
	case errors.Is(err, common.ErrValidation):
		return codes.InvalidArgument, err.Error()
	case errors.Is(err, common.ErrEmailTaken):
		return codes.AlreadyExists, common.ErrEmailTaken.Error()
	case errors.Is(err, common.ErrEmailConflict):
		return codes.AlreadyExists, common.ErrEmailConflict.Error()
	case errors.Is(err, common.ErrBookAlreadyListed):
		return codes.AlreadyExists, common.ErrBookAlreadyListed.Error()
	case errors.Is(err, common.ErrForbidden):
		return codes.PermissionDenied, common.ErrForbidden.Error()
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound, common.ErrorNotFound.Error()
	case errors.Is(err, common.ErrUnsupported):
		return codes.Unimplemented, common.ErrUnsupported.Error()
	}
	return codes.Internal, msgInternal
}

func toStatus(err error) error {
	code, msg := statusCode(err)
	return status.Error(code, msg)
}
