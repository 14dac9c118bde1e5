package syncer

import (
	"context"

	"github.com/dmitrijs2005/growthjournal/internal/client/repositories"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/models"
	"github.com/dmitrijs2005/growthjournal/internal/remote"
)

// localTable is the part of a repositories.Table the engine uses.
type localTable[T any] interface {
	ListDirty(ctx context.Context) ([]T, error)
	ListByParent(ctx context.Context, parentID string) ([]T, error)
	Upsert(ctx context.Context, v T) error
	MarkSynced(ctx context.Context, id string) error
}

type tombstones interface {
	ListTombstones(ctx context.Context) ([]repositories.Tombstone, error)
	RemoveTombstone(ctx context.Context, collection, id string) error
	HasTombstone(ctx context.Context, collection, id string) (bool, error)
}

// typeSyncer pushes and pulls one entity type. Only context errors are
// returned; everything else is recorded in the TypeResult.
type typeSyncer interface {
	entity() models.EntityType
	push(ctx context.Context, tr *TypeResult) error
	pull(ctx context.Context, parents []string, tr *TypeResult) error
}

type entitySync[T any] struct {
	codec  mapper.Codec[T]
	table  localTable[T]
	tomb   tombstones
	remote remote.Store
	log    logging.Logger

	// before runs ahead of Put and may replace the record.
	before func(ctx context.Context, v T) (T, error)
	// after marks the record clean once Put succeeded.
	after func(ctx context.Context, v T) error
}

func newEntitySync[T any](codec mapper.Codec[T], table localTable[T], tomb tombstones, rs remote.Store, log logging.Logger) *entitySync[T] {
	s := &entitySync[T]{
		codec:  codec,
		table:  table,
		tomb:   tomb,
		remote: rs,
		log:    log.With("entity", string(codec.Entity)),
	}
	s.after = func(ctx context.Context, v T) error {
		return s.table.MarkSynced(ctx, s.codec.ID(v))
	}
	return s
}

func (s *entitySync[T]) entity() models.EntityType { return s.codec.Entity }

func (s *entitySync[T]) push(ctx context.Context, tr *TypeResult) error {
	dirty, err := s.table.ListDirty(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		tr.fail("", PhasePush, err)
		s.log.Error(ctx, "list dirty failed", "error", err)
		return nil
	}

	for _, v := range dirty {
		if err := ctx.Err(); err != nil {
			return err
		}
		id := s.codec.ID(v)

		if s.before != nil {
			v, err = s.before(ctx, v)
			if err != nil {
				tr.fail(id, PhaseUpload, err)
				s.log.Warn(ctx, "upload failed", "id", id, "error", err)
				continue
			}
		}

		doc, err := s.codec.ToRemote(v)
		if err != nil {
			tr.fail(id, PhasePush, err)
			s.log.Warn(ctx, "cannot map record", "id", id, "error", err)
			continue
		}
		if err := s.remote.Put(ctx, s.codec.Collection, id, doc); err != nil {
			tr.fail(id, PhasePush, err)
			s.log.Warn(ctx, "put failed", "id", id, "error", err)
			continue
		}
		if err := s.after(ctx, v); err != nil {
			tr.fail(id, PhasePush, err)
			s.log.Error(ctx, "mark synced failed", "id", id, "error", err)
			continue
		}
		tr.Pushed++
	}
	return nil
}

func (s *entitySync[T]) pull(ctx context.Context, parents []string, tr *TypeResult) error {
	for _, p := range parents {
		if err := ctx.Err(); err != nil {
			return err
		}
		docs, err := s.remote.ListByParent(ctx, s.codec.Collection, s.codec.ParentField, p)
		if err != nil {
			tr.fail(p, PhasePull, err)
			s.log.Warn(ctx, "list failed", "parent", p, "error", err)
			continue
		}
		if err := s.store(ctx, docs, tr); err != nil {
			return err
		}
	}
	return nil
}

// store writes pulled documents locally. A pulled record replaces any local
// version, dirty or not. Records with a pending delete are skipped.
func (s *entitySync[T]) store(ctx context.Context, docs []remote.Document, tr *TypeResult) error {
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		dead, err := s.tomb.HasTombstone(ctx, s.codec.Collection, d.ID)
		if err != nil {
			tr.fail(d.ID, PhasePull, err)
			continue
		}
		if dead {
			continue
		}
		v, err := s.codec.ToLocal(d)
		if err != nil {
			tr.fail(d.ID, PhasePull, err)
			s.log.Warn(ctx, "cannot map document", "id", d.ID, "error", err)
			continue
		}
		if err := s.table.Upsert(ctx, v); err != nil {
			tr.fail(d.ID, PhasePull, err)
			s.log.Error(ctx, "upsert failed", "id", d.ID, "error", err)
			continue
		}
		tr.Pulled++
	}
	return nil
}
