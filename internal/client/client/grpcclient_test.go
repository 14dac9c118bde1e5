package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

/*************
 * Fake document client
 *************/

type fakeDocs struct {
	lastPut     *remote.PutRequest
	lastGet     *remote.GetRequest
	lastList    *remote.ListByParentRequest
	lastDelete  *remote.DeleteRequest
	lastPresign *remote.PresignUploadRequest
	deadline    bool

	getResp     *remote.GetResponse
	listResp    *remote.ListByParentResponse
	presignResp *remote.PresignUploadResponse
	err         error
}

func (f *fakeDocs) Put(ctx context.Context, in *remote.PutRequest, opts ...grpc.CallOption) (*remote.PutResponse, error) {
	f.lastPut = in
	_, f.deadline = ctx.Deadline()
	return &remote.PutResponse{}, f.err
}

func (f *fakeDocs) Get(ctx context.Context, in *remote.GetRequest, opts ...grpc.CallOption) (*remote.GetResponse, error) {
	f.lastGet = in
	return f.getResp, f.err
}

func (f *fakeDocs) ListByParent(ctx context.Context, in *remote.ListByParentRequest, opts ...grpc.CallOption) (*remote.ListByParentResponse, error) {
	f.lastList = in
	return f.listResp, f.err
}

func (f *fakeDocs) Delete(ctx context.Context, in *remote.DeleteRequest, opts ...grpc.CallOption) (*remote.DeleteResponse, error) {
	f.lastDelete = in
	return &remote.DeleteResponse{}, f.err
}

func (f *fakeDocs) Ping(ctx context.Context, in *remote.PingRequest, opts ...grpc.CallOption) (*remote.PingResponse, error) {
	return &remote.PingResponse{}, f.err
}

func (f *fakeDocs) PresignUpload(ctx context.Context, in *remote.PresignUploadRequest, opts ...grpc.CallOption) (*remote.PresignUploadResponse, error) {
	f.lastPresign = in
	return f.presignResp, f.err
}

func newTestClient(f *fakeDocs) *GRPCClient {
	return &GRPCClient{client: f, callTimeout: time.Second}
}

/*************
 * interceptor
 *************/

func TestInterceptor_AttachesAccessToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		toks := md.Get(common.AccessTokenHeaderName)
		require.Equal(t, []string{"A1"}, toks)
		return nil
	}
	ctx := metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, "stale")
	require.NoError(t, c.accessTokenInterceptor(ctx, remote.PutFullMethod, nil, nil, nil, invoker))
}

func TestInterceptor_NoTokenLeavesMetadataAlone(t *testing.T) {
	c := &GRPCClient{}
	invoker := func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return status.Error(codes.Internal, "boom")
	}
	require.Error(t, c.accessTokenInterceptor(context.Background(), remote.PingFullMethod, nil, nil, nil, invoker))
}

/*************
 * mapError
 *************/

func TestMapError(t *testing.T) {
	c := &GRPCClient{}
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, remote.ErrPermissionDenied},
		{codes.PermissionDenied, remote.ErrPermissionDenied},
		{codes.Unavailable, remote.ErrUnavailable},
		{codes.DeadlineExceeded, remote.ErrUnavailable},
		{codes.NotFound, remote.ErrNotFound},
		{codes.InvalidArgument, remote.ErrInvalidArgument},
	}
	for _, tt := range tests {
		err := c.mapError("get", "children", "c-1", status.Error(tt.code, "x"))
		require.ErrorIs(t, err, tt.want, tt.code.String())
		var re *remote.Error
		require.ErrorAs(t, err, &re)
		require.Equal(t, "children", re.Collection)
		require.Equal(t, "c-1", re.ID)
	}

	require.NoError(t, c.mapError("get", "", "", nil))
	err := c.mapError("get", "", "", errors.New("plain"))
	require.ErrorContains(t, err, "rpc error:")
	require.False(t, remote.IsTransient(err))
}

/*************
 * Store operations
 *************/

func TestPut_SendsDocumentWithDeadline(t *testing.T) {
	f := &fakeDocs{}
	c := newTestClient(f)
	doc := remote.NewDocument("").Set("name", "Mia")

	require.NoError(t, c.Put(context.Background(), "children", "c-1", doc))
	require.Equal(t, "children", f.lastPut.Collection)
	require.Equal(t, "c-1", f.lastPut.ID)
	require.Equal(t, "c-1", f.lastPut.Document.ID)
	require.Equal(t, "Mia", f.lastPut.Document.StringField("name"))
	require.True(t, f.deadline)
}

func TestPut_MapsError(t *testing.T) {
	f := &fakeDocs{err: status.Error(codes.PermissionDenied, "not yours")}
	c := newTestClient(f)
	err := c.Put(context.Background(), "children", "c-1", remote.NewDocument("c-1"))
	require.ErrorIs(t, err, remote.ErrPermissionDenied)
}

func TestGet(t *testing.T) {
	doc := remote.NewDocument("u-1").Set("email", "a@example.com")
	f := &fakeDocs{getResp: &remote.GetResponse{Found: true, Document: &doc}}
	c := newTestClient(f)

	got, ok, err := c.Get(context.Background(), "users", "u-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a@example.com", got.StringField("email"))
	require.Equal(t, "u-1", f.lastGet.ID)

	f.getResp = &remote.GetResponse{}
	_, ok, err = c.Get(context.Background(), "users", "u-2")
	require.NoError(t, err)
	require.False(t, ok)

	f.err = status.Error(codes.Unavailable, "down")
	_, _, err = c.Get(context.Background(), "users", "u-1")
	require.ErrorIs(t, err, remote.ErrUnavailable)
}

func TestListByParent(t *testing.T) {
	f := &fakeDocs{listResp: &remote.ListByParentResponse{Documents: []remote.Document{remote.NewDocument("d-1"), remote.NewDocument("d-2")}}}
	c := newTestClient(f)

	docs, err := c.ListByParent(context.Background(), "diaries", "childId", "c-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, &remote.ListByParentRequest{Collection: "diaries", ParentField: "childId", ParentID: "c-1"}, f.lastList)
}

func TestDeleteAndPing(t *testing.T) {
	f := &fakeDocs{}
	c := newTestClient(f)
	require.NoError(t, c.Delete(context.Background(), "events", "e-1"))
	require.Equal(t, "e-1", f.lastDelete.ID)
	require.NoError(t, c.Ping(context.Background()))

	f.err = status.Error(codes.Unavailable, "down")
	require.ErrorIs(t, c.Ping(context.Background()), remote.ErrUnavailable)
}

func TestPresignUpload(t *testing.T) {
	f := &fakeDocs{presignResp: &remote.PresignUploadResponse{UploadURL: "https://put", RemoteURL: "https://get"}}
	c := newTestClient(f)

	up, err := c.PresignUpload(context.Background(), "m-1", "abc", "image/png")
	require.NoError(t, err)
	require.Equal(t, remote.Upload{UploadURL: "https://put", RemoteURL: "https://get"}, up)
	require.Equal(t, "abc", f.lastPresign.ContentHash)

	f.err = status.Error(codes.InvalidArgument, "bad hash")
	_, err = c.PresignUpload(context.Background(), "m-1", "", "image/png")
	require.ErrorIs(t, err, remote.ErrInvalidArgument)
}

func TestNewDocumentClient_RequiresEndpoint(t *testing.T) {
	_, err := NewDocumentClient("", "t")
	require.ErrorIs(t, err, ErrNoEndpoint)

	c, err := NewDocumentClient("localhost:0", "t")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}
