package media

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestHashFile(t *testing.T) {
	data := []byte("first smile")
	sum := blake2b.Sum256(data)
	got, err := HashFile(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType(models.MediaPhoto, "a.png"))
	assert.Equal(t, "video/mp4", ContentType(models.MediaVideo, "clip"))
	assert.Equal(t, "image/jpeg", ContentType(models.MediaEcho, "scan"))
	assert.Equal(t, "application/octet-stream", ContentType("", "blob"))
}

func TestUploader_Upload(t *testing.T) {
	data := []byte("echo image bytes")
	var (
		gotPath string
		gotBody []byte
		gotCT   string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	store := remote.NewMemoryStore()
	store.BaseURL = ts.URL + "/journal-media"
	u := NewUploader(store, 5*time.Second, logging.Discard())

	path := writeFile(t, "scan.jpg", data)
	url, err := u.Upload(context.Background(), models.Media{ID: "m-1", Type: models.MediaEcho, LocalPath: path})
	require.NoError(t, err)

	sum := blake2b.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	assert.Equal(t, ts.URL+"/journal-media/"+hash, url)
	assert.Equal(t, "/journal-media/"+hash, gotPath)
	assert.Equal(t, data, gotBody)
	assert.Equal(t, "image/jpeg", gotCT)
}

func TestUploader_Errors(t *testing.T) {
	ctx := context.Background()
	store := remote.NewMemoryStore()
	u := NewUploader(store, time.Second, logging.Discard())

	_, err := u.Upload(ctx, models.Media{ID: "m-1"})
	require.ErrorIs(t, err, ErrNoLocalFile)

	_, err = u.Upload(ctx, models.Media{ID: "m-1", LocalPath: filepath.Join(t.TempDir(), "missing.jpg")})
	require.ErrorIs(t, err, os.ErrNotExist)

	store.SetOffline(true)
	_, err = u.Upload(ctx, models.Media{ID: "m-1", LocalPath: writeFile(t, "a.jpg", []byte("x"))})
	require.ErrorIs(t, err, remote.ErrUnavailable)
	store.SetOffline(false)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	store.BaseURL = ts.URL
	_, err = u.Upload(ctx, models.Media{ID: "m-1", LocalPath: writeFile(t, "b.jpg", []byte("y"))})
	require.ErrorIs(t, err, remote.ErrUnavailable)
	assert.True(t, strings.Contains(err.Error(), "403"))
}
