// Package client contains the gRPC transport to the Growth Journal document
// server.
//
// # Overview
//
// GRPCClient implements remote.Store and remote.Presigner on top of the
// growthjournal.DocumentStore service. Messages are protobuf Structs built by
// package remote. Every call carries the configured access
// token in the metadata key common.AccessTokenHeaderName and is bounded by a
// per-call timeout.
//
// # Error Handling
//
// gRPC status codes are mapped onto the remote error taxonomy, so callers
// match with errors.Is against remote.ErrUnavailable,
// remote.ErrPermissionDenied, remote.ErrNotFound and
// remote.ErrInvalidArgument. The returned error is a *remote.Error naming the
// operation and the addressed document.
package client
