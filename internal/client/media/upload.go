// Package media uploads journal media binaries through presigned URLs.
package media

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/netx"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"golang.org/x/crypto/blake2b"
)

var ErrNoLocalFile = errors.New("media has no local file")

// HashFile returns the hex BLAKE2b-256 digest of the file's content.
func HashFile(f io.Reader) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ContentType guesses from the file extension, falling back on the media type.
func ContentType(t models.MediaType, path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	switch t {
	case models.MediaVideo:
		return "video/mp4"
	case models.MediaPhoto, models.MediaEcho:
		return "image/jpeg"
	}
	return "application/octet-stream"
}

// Uploader implements syncer.Uploader.
type Uploader struct {
	presigner remote.Presigner
	client    *http.Client
	log       logging.Logger
}

// NewUploader bounds every PUT by timeout.
func NewUploader(p remote.Presigner, timeout time.Duration, log logging.Logger) *Uploader {
	return &Uploader{
		presigner: p,
		client:    &http.Client{Timeout: timeout},
		log:       log.With("module", "media"),
	}
}

// Upload sends the file at m.LocalPath and returns its remote URL. The
// storage key is derived from the content hash, so re-uploading the same
// file is harmless.
func (u *Uploader) Upload(ctx context.Context, m models.Media) (string, error) {
	if m.LocalPath == "" {
		return "", ErrNoLocalFile
	}
	f, err := os.Open(m.LocalPath)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat media file: %w", err)
	}
	hash, err := HashFile(f)
	if err != nil {
		return "", fmt.Errorf("failed to hash media file: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	ct := ContentType(m.Type, m.LocalPath)
	up, err := u.presigner.PresignUpload(ctx, m.ID, hash, ct)
	if err != nil {
		return "", err
	}

	if err := netx.PutPresigned(ctx, u.client, up.UploadURL, f, info.Size(), ct); err != nil {
		return "", &remote.Error{Op: "upload", Collection: "media", ID: m.ID, Err: fmt.Errorf("%w: %v", remote.ErrUnavailable, err)}
	}

	u.log.Debug(ctx, "media uploaded", "id", m.ID, "bytes", info.Size(), "hash", hash)
	return up.RemoteURL, nil
}
