package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/readlist/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

var codeErrors = map[codes.Code]error{
	codes.Unavailable:      ErrUnavailable,
	codes.DeadlineExceeded: ErrUnavailable,
	codes.Unauthenticated:  ErrUnauthorized,
	codes.InvalidArgument:  common.ErrValidation,
	codes.AlreadyExists:    common.ErrorAlreadyExists,
	codes.PermissionDenied: common.ErrForbidden,
	codes.NotFound:         common.ErrorNotFound,
	codes.Unimplemented:    common.ErrUnsupported,
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if kind, found := codeErrors[st.Code()]; found {
		return fmt.Errorf("%w: %s", kind, st.Message())
	}
	return fmt.Errorf("%w: %s", common.ErrorInternal, st.Message())
}
