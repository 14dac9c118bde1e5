package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "growthjournal.DocumentStore"

	PutFullMethod           = "/" + ServiceName + "/Put"
	GetFullMethod           = "/" + ServiceName + "/Get"
	ListByParentFullMethod  = "/" + ServiceName + "/ListByParent"
	DeleteFullMethod        = "/" + ServiceName + "/Delete"
	PingFullMethod          = "/" + ServiceName + "/Ping"
	PresignUploadFullMethod = "/" + ServiceName + "/PresignUpload"
)

type PutRequest struct {
	Collection string
	ID         string
	Document   Document
}

type PutResponse struct{}

type GetRequest struct {
	Collection string
	ID         string
}

type GetResponse struct {
	Found    bool
	Document *Document
}

type ListByParentRequest struct {
	Collection  string
	ParentField string
	ParentID    string
}

type ListByParentResponse struct {
	Documents []Document
}

type DeleteRequest struct {
	Collection string
	ID         string
}

type DeleteResponse struct{}

type PingRequest struct{}

type PingResponse struct{}

type PresignUploadRequest struct {
	MediaID     string
	ContentHash string
	ContentType string
}

type PresignUploadResponse struct {
	UploadURL string
	RemoteURL string
}

// DocumentStoreServer is implemented by the document server.
type DocumentStoreServer interface {
	Put(context.Context, *PutRequest) (*PutResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	ListByParent(context.Context, *ListByParentRequest) (*ListByParentResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error)
}

// DocumentStoreClient is the client side of DocumentStoreServer.
type DocumentStoreClient interface {
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	ListByParent(ctx context.Context, in *ListByParentRequest, opts ...grpc.CallOption) (*ListByParentResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error)
}

type documentStoreClient struct {
	cc grpc.ClientConnInterface
}

// NewDocumentStoreClient returns a client for the service reachable over cc.
func NewDocumentStoreClient(cc grpc.ClientConnInterface) DocumentStoreClient {
	return &documentStoreClient{cc: cc}
}

func (c *documentStoreClient) invoke(ctx context.Context, method string, in, out message, opts []grpc.CallOption) error {
	req, err := in.toWire()
	if err != nil {
		return err
	}
	resp := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, method, req, resp, opts...); err != nil {
		return err
	}
	return out.fromWire(resp)
}

func (c *documentStoreClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*PutResponse, error) {
	out := new(PutResponse)
	if err := c.invoke(ctx, PutFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.invoke(ctx, GetFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) ListByParent(ctx context.Context, in *ListByParentRequest, opts ...grpc.CallOption) (*ListByParentResponse, error) {
	out := new(ListByParentResponse)
	if err := c.invoke(ctx, ListByParentFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	out := new(DeleteResponse)
	if err := c.invoke(ctx, DeleteFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, PingFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error) {
	out := new(PresignUploadResponse)
	if err := c.invoke(ctx, PresignUploadFullMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterDocumentStoreServer attaches srv to s.
func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&DocumentStoreServiceDesc, srv)
}

// unary decodes the wire struct into Req before interceptors run, so they
// see typed requests, and encodes the typed response afterwards.
func unary[Req any, PReq interface {
	*Req
	message
}, Resp message](method string, call func(DocumentStoreServer, context.Context, PReq) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		wire := &structpb.Struct{}
		if err := dec(wire); err != nil {
			return nil, err
		}
		in := PReq(new(Req))
		if err := in.fromWire(wire); err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentStoreServer), ctx, req.(PReq))
		}

		var (
			out any
			err error
		)
		if interceptor == nil {
			out, err = handler(ctx, in)
		} else {
			out, err = interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: method}, handler)
		}
		if err != nil {
			return nil, err
		}
		resp, ok := out.(message)
		if !ok {
			return nil, status.Errorf(codes.Internal, "unexpected response type %T", out)
		}
		encoded, err := resp.toWire()
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		return encoded, nil
	}
}

// DocumentStoreServiceDesc describes the service for grpc.Server.
var DocumentStoreServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Put", Handler: unary(PutFullMethod, DocumentStoreServer.Put)},
		{MethodName: "Get", Handler: unary(GetFullMethod, DocumentStoreServer.Get)},
		{MethodName: "ListByParent", Handler: unary(ListByParentFullMethod, DocumentStoreServer.ListByParent)},
		{MethodName: "Delete", Handler: unary(DeleteFullMethod, DocumentStoreServer.Delete)},
		{MethodName: "Ping", Handler: unary(PingFullMethod, DocumentStoreServer.Ping)},
		{MethodName: "PresignUpload", Handler: unary(PresignUploadFullMethod, DocumentStoreServer.PresignUpload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "growthjournal/document_store",
}
