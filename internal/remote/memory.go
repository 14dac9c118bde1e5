package remote

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Call records one operation observed by a MemoryStore.
type Call struct {
	Op         string
	Collection string
	ID         string
}

// MemoryStore is an in-process Store. Failure hooks let tests inject errors
// per operation; a hook returning nil lets the call through.
type MemoryStore struct {
	mu    sync.Mutex
	cols  map[string]map[string]Document
	calls []Call

	offline bool

	FailPut    func(collection, id string) error
	FailGet    func(collection, id string) error
	FailList   func(collection, parentField, parentID string) error
	FailDelete func(collection, id string) error

	// BaseURL prefixes RemoteURL values handed out by PresignUpload.
	BaseURL string
}

// NewMemoryStore returns an empty, online store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols:    make(map[string]map[string]Document),
		BaseURL: "memory://media",
	}
}

// SetOffline makes every operation fail with ErrUnavailable while on is true.
func (m *MemoryStore) SetOffline(on bool) {
	m.mu.Lock()
	m.offline = on
	m.mu.Unlock()
}

// Calls returns a copy of the recorded call log.
func (m *MemoryStore) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Seed stores a document without recording a call or consulting hooks.
func (m *MemoryStore) Seed(collection string, doc Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.col(collection)[doc.ID] = doc.Clone()
}

// Snapshot returns a copy of every document in collection.
func (m *MemoryStore) Snapshot(collection string) map[string]Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Document, len(m.cols[collection]))
	for id, d := range m.cols[collection] {
		out[id] = d.Clone()
	}
	return out
}

func (m *MemoryStore) col(name string) map[string]Document {
	c, ok := m.cols[name]
	if !ok {
		c = make(map[string]Document)
		m.cols[name] = c
	}
	return c
}

// enter records the call and checks ctx and the offline flag. Caller holds mu.
func (m *MemoryStore) enter(ctx context.Context, op, collection, id string) error {
	m.calls = append(m.calls, Call{Op: op, Collection: collection, ID: id})
	if err := ctx.Err(); err != nil {
		return &Error{Op: op, Collection: collection, ID: id, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	if m.offline {
		return &Error{Op: op, Collection: collection, ID: id, Err: ErrUnavailable}
	}
	return nil
}

func hookErr(op, collection, id string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Collection: collection, ID: id, Err: err}
}

func (m *MemoryStore) Put(ctx context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "put", collection, id); err != nil {
		return err
	}
	if m.FailPut != nil {
		if err := hookErr("put", collection, id, m.FailPut(collection, id)); err != nil {
			return err
		}
	}
	doc.ID = id
	if err := doc.Validate(); err != nil {
		return &Error{Op: "put", Collection: collection, ID: id, Err: err}
	}
	m.col(collection)[id] = doc.Clone()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "get", collection, id); err != nil {
		return Document{}, false, err
	}
	if m.FailGet != nil {
		if err := hookErr("get", collection, id, m.FailGet(collection, id)); err != nil {
			return Document{}, false, err
		}
	}
	d, ok := m.cols[collection][id]
	if !ok {
		return Document{}, false, nil
	}
	return d.Clone(), true, nil
}

// ListByParent returns matching documents ordered by id.
func (m *MemoryStore) ListByParent(ctx context.Context, collection, parentField, parentID string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "list", collection, ""); err != nil {
		return nil, err
	}
	if m.FailList != nil {
		if err := hookErr("list", collection, "", m.FailList(collection, parentField, parentID)); err != nil {
			return nil, err
		}
	}
	var out []Document
	for _, d := range m.cols[collection] {
		if d.StringField(parentField) == parentID {
			out = append(out, d.Clone())
		}
	}
	slices.SortFunc(out, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "delete", collection, id); err != nil {
		return err
	}
	if m.FailDelete != nil {
		if err := hookErr("delete", collection, id, m.FailDelete(collection, id)); err != nil {
			return err
		}
	}
	delete(m.cols[collection], id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enter(ctx, "ping", "", "")
}

// PresignUpload returns a destination under BaseURL. The upload URL is the
// remote URL itself, so tests can point BaseURL at an httptest server.
func (m *MemoryStore) PresignUpload(ctx context.Context, mediaID, contentHash, contentType string) (Upload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "presign", "media", mediaID); err != nil {
		return Upload{}, err
	}
	u, err := url.JoinPath(m.BaseURL, contentHash)
	if err != nil {
		return Upload{}, &Error{Op: "presign", Collection: "media", ID: mediaID, Err: fmt.Errorf("%w: %v", ErrInvalidArgument, err)}
	}
	return Upload{UploadURL: u, RemoteURL: u}, nil
}

var (
	_ Store     = (*MemoryStore)(nil)
	_ Presigner = (*MemoryStore)(nil)
)
