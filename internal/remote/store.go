package remote

import "context"

// Store is the remote document store as seen by the sync engine.
//
// Put has upsert semantics and never writes a document partially. Delete of
// an absent document succeeds. Get reports absence through its bool result.
// No operation imposes its own deadline; callers bound them through ctx.
type Store interface {
	Put(ctx context.Context, collection, id string, doc Document) error
	Get(ctx context.Context, collection, id string) (Document, bool, error)
	ListByParent(ctx context.Context, collection, parentField, parentID string) ([]Document, error)
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}

// Upload is a presigned destination for one media binary.
type Upload struct {
	// UploadURL accepts a single HTTP PUT of the binary.
	UploadURL string
	// RemoteURL is the stable address recorded in the media document.
	RemoteURL string
}

// Presigner hands out upload destinations for media binaries.
type Presigner interface {
	PresignUpload(ctx context.Context, mediaID, contentHash, contentType string) (Upload, error)
}
