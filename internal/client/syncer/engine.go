// Package syncer reconciles the local journal store with the remote document
// store.
//
// A pass pushes pending deletes and dirty records, then pulls everything the
// user can see, type by type in Order:
//
//	User -> Child -> {Diary, Media, GrowthRecord, Event, Milestone}
//
// The child-scoped types run concurrently with each other, one goroutine per
// type, once children are done. A pulled record overwrites the local copy
// even if that copy is dirty, so conflicting edits resolve by pass order.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/client/repositories"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
	"golang.org/x/sync/errgroup"
)

var (
	ErrRemoteUnreachable = errors.New("remote store unreachable")
	ErrNoUploader        = errors.New("media has a local file but no uploader is configured")
	ErrNoUser            = errors.New("user id is required")
)

// Order is the sync order of entity types.
var Order = append([]models.EntityType{models.EntityUser, models.EntityChild}, models.ChildScoped...)

// Uploader stores a media binary remotely and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, m models.Media) (string, error)
}

type Option func(*Engine)

func WithUploader(u Uploader) Option {
	return func(e *Engine) { e.uploader = u }
}

// WithConcurrency bounds how many child-scoped types sync at once.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.concurrency = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine runs sync passes. It keeps no state between passes, so concurrent
// SyncAll calls are safe as far as the stores are.
type Engine struct {
	local       *repositories.Store
	remote      remote.Store
	uploader    Uploader
	concurrency int
	now         func() time.Time
	log         logging.Logger

	users    *entitySync[models.User]
	children *entitySync[models.Child]
	scoped   []typeSyncer
}

func New(local *repositories.Store, rs remote.Store, log logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		local:       local,
		remote:      rs,
		concurrency: len(models.ChildScoped),
		now:         time.Now,
		log:         log.With("module", "sync"),
	}
	for _, o := range opts {
		o(e)
	}

	e.users = newEntitySync(mapper.UserCodec, local.Users, local, rs, e.log)
	e.children = newEntitySync(mapper.ChildCodec, local.Children, local, rs, e.log)

	media := newEntitySync(mapper.MediaCodec, local.Media, local, rs, e.log)
	media.before = e.uploadMedia
	media.after = func(ctx context.Context, m models.Media) error {
		return local.Media.MarkUploaded(ctx, m.ID, m.URL)
	}

	e.scoped = []typeSyncer{
		newEntitySync(mapper.DiaryCodec, local.Diaries, local, rs, e.log),
		media,
		newEntitySync(mapper.GrowthRecordCodec, local.GrowthRecords, local, rs, e.log),
		newEntitySync(mapper.EventCodec, local.Events, local, rs, e.log),
		newEntitySync(mapper.MilestoneCodec, local.Milestones, local, rs, e.log),
	}
	return e
}

// SyncAll runs one full pass for userID.
//
// If the remote store cannot be reached at all, it returns a nil result and
// an error wrapping ErrRemoteUnreachable. Per-record failures never produce
// an error; they are counted in the result. If ctx ends mid-pass, the
// partial result is returned together with ctx.Err().
func (e *Engine) SyncAll(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	ctx = logging.WithAttrs(ctx, "user", userID)
	if err := e.remote.Ping(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.log.Warn(ctx, "remote unreachable", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrRemoteUnreachable, err)
	}

	res := newResult(userID, e.now())
	err := e.run(ctx, userID, res)
	res.FinishedAt = e.now()

	if err != nil {
		e.log.Warn(ctx, "sync interrupted", "result", res.String(), "error", err)
		return res, err
	}
	e.log.Info(ctx, "sync finished", "result", res.String(),
		"duration", res.FinishedAt.Sub(res.StartedAt))
	return res, nil
}

func (e *Engine) run(ctx context.Context, userID string, res *Result) error {
	if err := e.pushDeletes(ctx, res); err != nil {
		return err
	}

	ur := res.Get(models.EntityUser)
	if err := e.users.push(ctx, ur); err != nil {
		return err
	}
	if err := e.pullUsers(ctx, userID, ur); err != nil {
		return err
	}

	cr := res.Get(models.EntityChild)
	members, err := e.familyMembers(ctx, userID)
	if err != nil {
		cr.fail(userID, PhasePull, err)
		members = []string{userID}
	}
	if err := e.children.push(ctx, cr); err != nil {
		return err
	}
	if err := e.children.pull(ctx, members, cr); err != nil {
		return err
	}

	childIDs, err := e.visibleChildren(ctx, members)
	if err != nil {
		cr.fail(userID, PhasePull, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, s := range e.scoped {
		tr := res.Get(s.entity())
		g.Go(func() error {
			if err := s.push(gctx, tr); err != nil {
				return err
			}
			return s.pull(gctx, childIDs, tr)
		})
	}
	return g.Wait()
}

// pullUsers pulls the user's own profile, then every profile sharing its family.
func (e *Engine) pullUsers(ctx context.Context, userID string, tr *TypeResult) error {
	doc, ok, err := e.remote.Get(ctx, mapper.CollectionUsers, userID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		tr.fail(userID, PhasePull, err)
	} else if ok {
		if err := e.users.store(ctx, []remote.Document{doc}, tr); err != nil {
			return err
		}
	}

	family, err := e.familyID(ctx, userID)
	if err != nil {
		tr.fail(userID, PhasePull, err)
		return nil
	}
	if family == "" {
		return nil
	}
	docs, err := e.remote.ListByParent(ctx, mapper.CollectionUsers, mapper.FieldFamilyID, family)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		tr.fail(family, PhasePull, err)
		return nil
	}
	docs = slices.DeleteFunc(docs, func(d remote.Document) bool { return d.ID == userID })
	return e.users.store(ctx, docs, tr)
}

func (e *Engine) familyID(ctx context.Context, userID string) (string, error) {
	u, err := e.local.Users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.FamilyID, nil
}

// familyMembers returns userID and every local user sharing its family, sorted.
func (e *Engine) familyMembers(ctx context.Context, userID string) ([]string, error) {
	members := []string{userID}
	family, err := e.familyID(ctx, userID)
	if err != nil {
		return members, err
	}
	if family != "" {
		users, err := e.local.Users.ListByParent(ctx, family)
		if err != nil {
			return members, err
		}
		for _, u := range users {
			members = append(members, u.ID)
		}
	}
	slices.Sort(members)
	return slices.Compact(members), nil
}

// visibleChildren returns the ids of local children owned by any member.
func (e *Engine) visibleChildren(ctx context.Context, members []string) ([]string, error) {
	var ids []string
	for _, m := range members {
		children, err := e.local.Children.ListByParent(ctx, m)
		if err != nil {
			return ids, err
		}
		for _, c := range children {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// pushDeletes replays pending deletes, dependants before their parents.
func (e *Engine) pushDeletes(ctx context.Context, res *Result) error {
	list, err := e.local.ListTombstones(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		e.log.Error(ctx, "list tombstones failed", "error", err)
		return nil
	}

	rank := func(collection string) int {
		for i, t := range Order {
			if mapper.CollectionOf(t) == collection {
				return i
			}
		}
		return -1
	}
	slices.SortStableFunc(list, func(a, b repositories.Tombstone) int {
		return rank(b.Collection) - rank(a.Collection)
	})

	for _, ts := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		r := rank(ts.Collection)
		if r < 0 {
			e.log.Warn(ctx, "tombstone for unknown collection", "collection", ts.Collection, "id", ts.ID)
			continue
		}
		tr := res.Get(Order[r])
		if err := e.remote.Delete(ctx, ts.Collection, ts.ID); err != nil {
			tr.fail(ts.ID, PhaseDelete, err)
			e.log.Warn(ctx, "remote delete failed", "collection", ts.Collection, "id", ts.ID, "error", err)
			continue
		}
		if err := e.local.RemoveTombstone(ctx, ts.Collection, ts.ID); err != nil {
			tr.fail(ts.ID, PhaseDelete, err)
			continue
		}
		tr.Deleted++
	}
	return nil
}

// uploadMedia uploads the local binary of m, if any, and records the remote
// URL locally before the document is written. A later failed Put then
// retries without uploading again.
func (e *Engine) uploadMedia(ctx context.Context, m models.Media) (models.Media, error) {
	if m.LocalPath == "" {
		return m, nil
	}
	if e.uploader == nil {
		return m, ErrNoUploader
	}
	url, err := e.uploader.Upload(ctx, m)
	if err != nil {
		return m, err
	}
	m.URL = url
	m.UploadedAt = models.MillisOf(e.now())
	m.LocalPath = ""
	if err := e.local.Media.Upsert(ctx, m); err != nil {
		return m, fmt.Errorf("failed to record upload: %w", err)
	}
	return m, nil
}

// FlushDeletes replays pending deletes without running a full pass. The
// result only carries Deleted and Failed counts.
func (e *Engine) FlushDeletes(ctx context.Context) (*Result, error) {
	res := newResult("", e.now())
	err := e.pushDeletes(ctx, res)
	res.FinishedAt = e.now()
	return res, err
}
