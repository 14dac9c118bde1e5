// Package grpc serves the growthjournal.DocumentStore service: bearer token
// authentication, request metrics and the mapping of service errors onto
// gRPC status codes.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"github.com/dmitrijs2005/growthjournal/internal/server/auth"
	"google.golang.org/grpc"
)

// DocumentService is the business layer the handlers call.
type DocumentService interface {
	Put(ctx context.Context, caller auth.Identity, collection, id string, doc remote.Document) error
	Get(ctx context.Context, caller auth.Identity, collection, id string) (remote.Document, error)
	ListByParent(ctx context.Context, caller auth.Identity, collection, parentField, parentID string) ([]remote.Document, error)
	Delete(ctx context.Context, caller auth.Identity, collection, id string) error
	PresignUpload(ctx context.Context, caller auth.Identity, mediaID, contentHash, contentType string) (remote.Upload, error)
}

// Observer receives one call per finished RPC.
type Observer interface {
	Observe(method, code string, elapsed time.Duration)
}

type GRPCServer struct {
	address   string
	documents DocumentService
	observer  Observer
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, ds DocumentService, o Observer, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		documents: ds,
		observer:  o,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.accessTokenInterceptor))
	remote.RegisterDocumentStoreServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	return srv.Serve(listen)
}

var _ remote.DocumentStoreServer = (*GRPCServer)(nil)
