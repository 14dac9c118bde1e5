// Package services implements the document server's business rules: who
// may touch which document, and where media binaries go.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/dbx"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"github.com/dmitrijs2005/growthjournal/internal/server/auth"
	"github.com/dmitrijs2005/growthjournal/internal/server/models"
	"github.com/dmitrijs2005/growthjournal/internal/server/repositories/repomanager"
)

// UsersCollection holds one document per account, keyed by user id.
const UsersCollection = mapper.CollectionUsers

var (
	collectionRe = regexp.MustCompile(`^[a-z][a-z_]{0,63}$`)
	fieldRe      = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)
	hashRe       = regexp.MustCompile(`^[0-9a-f]{16,128}$`)
)

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   ObjectPresigner
	log         logging.Logger
}

func NewDocumentService(db *sql.DB, rm repomanager.RepositoryManager, p ObjectPresigner, log logging.Logger) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: rm,
		presigner:   p,
		log:         log.With("module", "documents"),
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func checkRef(collection, id string) error {
	if !collectionRe.MatchString(collection) {
		return invalid("bad collection %q", collection)
	}
	if id == "" {
		return invalid("empty id")
	}
	return nil
}

// Put stores doc under (collection, id) on behalf of caller. A users
// document may only be written by the account it describes.
func (s *DocumentService) Put(ctx context.Context, caller auth.Identity, collection, id string, doc remote.Document) error {
	if err := checkRef(collection, id); err != nil {
		return err
	}
	doc.ID = id
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	if collection == UsersCollection && id != caller.UserID {
		return common.ErrorForbidden
	}

	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	row := &models.Document{Collection: collection, ID: id, FamilyID: caller.FamilyID, Data: data}
	if err := s.repomanager.Documents(s.db).Upsert(ctx, row, caller.UserID, caller.FamilyID); err != nil {
		return err
	}
	s.log.Debug(ctx, "document stored", "collection", collection, "id", id)
	return nil
}

func decode(row *models.Document) (remote.Document, error) {
	var doc remote.Document
	if err := doc.UnmarshalJSON(row.Data); err != nil {
		return remote.Document{}, fmt.Errorf("%w: corrupt document %s/%s: %v", common.ErrorInternal, row.Collection, row.ID, err)
	}
	doc.ID = row.ID
	return doc, nil
}

// Get returns common.ErrorNotFound for a missing document and
// common.ErrorForbidden for one the caller cannot see.
func (s *DocumentService) Get(ctx context.Context, caller auth.Identity, collection, id string) (remote.Document, error) {
	if err := checkRef(collection, id); err != nil {
		return remote.Document{}, err
	}
	row, err := s.repomanager.Documents(s.db).Get(ctx, collection, id)
	if err != nil {
		return remote.Document{}, err
	}
	if !row.VisibleTo(caller.UserID, caller.FamilyID) {
		return remote.Document{}, common.ErrorForbidden
	}
	return decode(row)
}

// ListByParent returns the caller-visible documents whose parentField
// equals parentID. Documents the caller cannot see are left out silently.
func (s *DocumentService) ListByParent(ctx context.Context, caller auth.Identity, collection, parentField, parentID string) ([]remote.Document, error) {
	if !collectionRe.MatchString(collection) {
		return nil, invalid("bad collection %q", collection)
	}
	if !fieldRe.MatchString(parentField) {
		return nil, invalid("bad field %q", parentField)
	}
	rows, err := s.repomanager.Documents(s.db).ListByField(ctx, collection, parentField, parentID, caller.UserID, caller.FamilyID)
	if err != nil {
		return nil, err
	}
	out := make([]remote.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

// Delete removes a document. Deleting an absent document succeeds; deleting
// one the caller cannot write is common.ErrorForbidden.
func (s *DocumentService) Delete(ctx context.Context, caller auth.Identity, collection, id string) error {
	if err := checkRef(collection, id); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Documents(tx)
		deleted, err := repo.Delete(ctx, collection, id, caller.UserID, caller.FamilyID)
		if err != nil || deleted {
			return err
		}
		_, err = repo.Get(ctx, collection, id)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil
		case err != nil:
			return err
		default:
			return common.ErrorForbidden
		}
	})
}

// PresignUpload hands out an upload URL for a media binary. Objects are
// content addressed under the caller's prefix, so re-uploads of the same
// file land on the same key.
func (s *DocumentService) PresignUpload(ctx context.Context, caller auth.Identity, mediaID, contentHash, contentType string) (remote.Upload, error) {
	if mediaID == "" {
		return remote.Upload{}, invalid("empty media id")
	}
	if !hashRe.MatchString(contentHash) {
		return remote.Upload{}, invalid("bad content hash %q", contentHash)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := MediaKey(caller.UserID, contentHash)
	uploadURL, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return remote.Upload{}, fmt.Errorf("presign put: %w", err)
	}
	remoteURL, err := s.presigner.ObjectURL(key)
	if err != nil {
		return remote.Upload{}, fmt.Errorf("object url: %w", err)
	}
	s.log.Debug(ctx, "upload presigned", "media", mediaID, "key", key)
	return remote.Upload{UploadURL: uploadURL, RemoteURL: remoteURL}, nil
}

// MediaKey is the object key of a media binary.
func MediaKey(userID, contentHash string) string {
	return fmt.Sprintf("users/%s/media/%s", userID, contentHash)
}
