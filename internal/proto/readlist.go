// Package proto declares the readlist gRPC service shared by the server and
// the CLI. readlist.proto is the interface definition. Every method takes and
// returns a google.protobuf.Struct, whose Go type ships with the protobuf
// module, so the service descriptor below is kept by hand in the shape
// protoc-gen-go-grpc produces. A test keeps the descriptor and the .proto
// file in step.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the readlist gRPC service.
const ServiceName = "readlist.AccountService"

// Method names, also used by the client.
const (
	MethodSignup        = "Signup"
	MethodLogin         = "Login"
	MethodVerify        = "Verify"
	MethodLogout        = "Logout"
	MethodGetProfile    = "GetProfile"
	MethodDeleteAccount = "DeleteAccount"
	MethodUpdateEmail   = "UpdateEmail"
	MethodAddBook       = "AddBook"
	MethodRemoveBook    = "RemoveBook"
	MethodListBooks     = "ListBooks"
)

// FullMethod returns the wire name of a method, e.g. "/readlist.AccountService/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AccountServiceServer is the server API for AccountService.
type AccountServiceServer interface {
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Verify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEmail(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBooks(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for AccountService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc(MethodSignup, AccountServiceServer.Signup),
		methodDesc(MethodLogin, AccountServiceServer.Login),
		methodDesc(MethodVerify, AccountServiceServer.Verify),
		methodDesc(MethodLogout, AccountServiceServer.Logout),
		methodDesc(MethodGetProfile, AccountServiceServer.GetProfile),
		methodDesc(MethodDeleteAccount, AccountServiceServer.DeleteAccount),
		methodDesc(MethodUpdateEmail, AccountServiceServer.UpdateEmail),
		methodDesc(MethodAddBook, AccountServiceServer.AddBook),
		methodDesc(MethodRemoveBook, AccountServiceServer.RemoveBook),
		methodDesc(MethodListBooks, AccountServiceServer.ListBooks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "readlist.proto",
}

// RegisterAccountServiceServer registers srv on s.
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
