package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const defaultCallTimeout = 15 * time.Second

// GRPCClient talks to the document server. It implements remote.Store and
// remote.Presigner.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      remote.DocumentStoreClient
	accessToken string
	callTimeout time.Duration
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
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
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewDocumentClient dials endpointURL lazily; the first call connects.
func NewDocumentClient(endpointURL, accessToken string) (*GRPCClient, error) {
	if endpointURL == "" {
		return nil, ErrNoEndpoint
	}
	c :=&GRPCClient{endpointURL: endpointURL, accessToken: accessToken, callTimeout: defaultCallTimeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = remote.NewDocumentStoreClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.callTimeout)
}

func (s *GRPCClient) Put(ctx context.Context, collection, id string, doc remote.Document) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	doc.ID = id
	_, err := s.client.Put(ctx, &remote.PutRequest{Collection: collection, ID: id, Document: doc})
	return s.mapError("put", collection, id, err)
}

func (s *GRPCClient) Get(ctx context.Context, collection, id string) (remote.Document, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Get(ctx, &remote.GetRequest{Collection: collection, ID: id})
	if err != nil {
		return remote.Document{}, false, s.mapError("get", collection, id, err)
	}
	if !resp.Found || resp.Document == nil {
		return remote.Document{}, false, nil
	}
	return *resp.Document, true, nil
}

func (s *GRPCClient) ListByParent(ctx context.Context, collection, parentField, parentID string) ([]remote.Document, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListByParent(ctx, &remote.ListByParentRequest{
		Collection:  collection,
		ParentField: parentField,
		ParentID:    parentID,
	})
	if err != nil {
		return nil, s.mapError("list", collection, "", err)
	}
	return resp.Documents, nil
}

func (s *GRPCClient) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.Delete(ctx, &remote.DeleteRequest{Collection: collection, ID: id})
	return s.mapError("delete", collection, id, err)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.client.Ping(ctx, &remote.PingRequest{})
	return s.mapError("ping", "", "", err)
}

func (s *GRPCClient) PresignUpload(ctx context.Context, mediaID, contentHash, contentType string) (remote.Upload, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.PresignUpload(ctx, &remote.PresignUploadRequest{
		MediaID:     mediaID,
		ContentHash: contentHash,
		ContentType: contentType,
	})
	if err != nil {
		return remote.Upload{}, s.mapError("presign", "media", mediaID, err)
	}
	return remote.Upload{UploadURL: resp.UploadURL, RemoteURL: resp.RemoteURL}, nil
}

// mapError translates a gRPC status into the remote error taxonomy.
func (s *GRPCClient) mapError(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	var kind error
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		kind = remote.ErrPermissionDenied
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted, codes.Aborted:
		kind = remote.ErrUnavailable
	case codes.NotFound:
		kind = remote.ErrNotFound
	case codes.InvalidArgument:
		kind = remote.ErrInvalidArgument
	default:
		return &remote.Error{Op: op, Collection: collection, ID: id, Err: fmt.Errorf("rpc error: %w", err)}
	}
	return &remote.Error{Op: op, Collection: collection, ID: id, Err: fmt.Errorf("%w: %s", kind, st.Message())}
}
