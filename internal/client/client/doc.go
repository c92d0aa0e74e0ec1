// Package client talks to the readlist gRPC API.
//
// The Client interface is the transport-agnostic contract used by the CLI
// services; GRPCClient implements it over a single connection. Requests and
// replies are google.protobuf.Struct values with the same field names as the
// HTTP API. A unary interceptor attaches "authorization: Bearer <token>" to
// every call once a token has been set.
//
// # Error Handling
//
// Status codes are mapped onto sentinel errors that callers match with
// errors.Is: ErrUnavailable, ErrUnauthorized and the common package's
// ErrValidation, ErrorAlreadyExists, ErrForbidden, ErrorNotFound and
// ErrUnsupported. The server's message is kept in the error text.
package client
