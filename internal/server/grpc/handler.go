package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"github.com/dmitrijs2005/growthjournal/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unknown errors are logged and
// reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "op", op, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func caller(ctx context.Context) (auth.Identity, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return auth.Identity{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return id, nil
}

func (s *GRPCServer) Put(ctx context.Context, req *remote.PutRequest) (*remote.PutResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.documents.Put(ctx, id, req.Collection, req.ID, req.Document); err != nil {
		return nil, s.toStatus(ctx, "put", err)
	}
	return &remote.PutResponse{}, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *remote.GetRequest) (*remote.GetResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, id, req.Collection, req.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return &remote.GetResponse{Found: false}, nil
	}
	if err != nil {
		return nil, s.toStatus(ctx, "get", err)
	}
	return &remote.GetResponse{Found: true, Document: &doc}, nil
}

func (s *GRPCServer) ListByParent(ctx context.Context, req *remote.ListByParentRequest) (*remote.ListByParentResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByParent(ctx, id, req.Collection, req.ParentField, req.ParentID)
	if err != nil {
		return nil, s.toStatus(ctx, "list", err)
	}
	return &remote.ListByParentResponse{Documents: docs}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *remote.DeleteRequest) (*remote.DeleteResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err = s.documents.Delete(ctx, id, req.Collection, req.ID); err != nil {
		return nil, s.toStatus(ctx, "delete", err)
	}
	return &remote.DeleteResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *remote.PingRequest) (*remote.PingResponse, error) {
	return &remote.PingResponse{}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *remote.PresignUploadRequest) (*remote.PresignUploadResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	up, err := s.documents.PresignUpload(ctx, id, req.MediaID, req.ContentHash, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, "presign", err)
	}
	return &remote.PresignUploadResponse{UploadURL: up.UploadURL, RemoteURL: up.RemoteURL}, nil
}
