package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/dbx"
	"github.com/dmitrijs2005/growthjournal/internal/mapper"
	"github.com/dmitrijs2005/growthjournal/internal/models"
)

// MediaTable adds upload bookkeeping to the media table.
type MediaTable struct {
	*Table[models.Media]
}

// MarkUploaded records the remote URL of an uploaded binary and forgets the
// local file.
func (t *MediaTable) MarkUploaded(ctx context.Context, id, url string) error {
	const q = `UPDATE media SET uploaded = 1, url = ?, local_path = '' WHERE id = ?`
	if _, err := t.db.ExecContext(ctx, q, url, id); err != nil {
		return fmt.Errorf("failed to mark media uploaded: %w", err)
	}
	t.n.notify()
	return nil
}

// Store groups the journal tables over one database.
type Store struct {
	db *sql.DB

	Users         *Table[models.User]
	Children      *Table[models.Child]
	Diaries       *Table[models.Diary]
	Media         *MediaTable
	GrowthRecords *Table[models.GrowthRecord]
	Events        *Table[models.Event]
	Milestones    *Table[models.Milestone]

	// now is a seam for tests.
	now func() time.Time
}

// NewStore binds the tables to an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Users:         newTable(db, userDef),
		Children:      newTable(db, childDef),
		Diaries:       newTable(db, diaryDef),
		Media:         &MediaTable{newTable(db, mediaDef)},
		GrowthRecords: newTable(db, growthRecordDef),
		Events:        newTable(db, eventDef),
		Milestones:    newTable(db, milestoneDef),
		now:           time.Now,
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// childScoped returns the tables cascading from children, with their notifiers.
func (s *Store) childScoped() []struct {
	name string
	n    *notifier
} {
	return []struct {
		name string
		n    *notifier
	}{
		{s.Diaries.Name(), s.Diaries.n},
		{s.Media.Name(), s.Media.n},
		{s.GrowthRecords.Name(), s.GrowthRecords.n},
		{s.Events.Name(), s.Events.n},
		{s.Milestones.Name(), s.Milestones.n},
	}
}

func (s *Store) notifierOf(collection string) (*notifier, bool) {
	switch collection {
	case mapper.CollectionUsers:
		return s.Users.n, true
	case mapper.CollectionChildren:
		return s.Children.n, true
	}
	for _, t := range s.childScoped() {
		if t.name == collection {
			return t.n, true
		}
	}
	return nil, false
}

func addTombstone(ctx context.Context, db dbx.DBTX, collection, id string, at models.Millis) error {
	const q = `INSERT INTO pending_deletes (collection, id, created_at) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO NOTHING`
	if _, err := db.ExecContext(ctx, q, collection, id, at); err != nil {
		return fmt.Errorf("failed to add tombstone: %w", err)
	}
	return nil
}

// DeleteWithTombstone removes one record and remembers that the remote copy
// must be deleted too. Deleting a child this way cascades locally but only
// tombstones the child itself; use DeleteChildCascade for children.
func (s *Store) DeleteWithTombstone(ctx context.Context, collection, id string) error {
	n, ok := s.notifierOf(collection)
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	at := models.MillisOf(s.now())

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", collection), id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", collection, err)
		}
		return addTombstone(ctx, tx, collection, id, at)
	})
	if err != nil {
		return err
	}
	n.notify()
	return nil
}

// DeleteChildCascade deletes a child and every record referencing it in
// one transaction, leaving a tombstone for each removed row.
func (s *Store) DeleteChildCascade(ctx context.Context, childID string) error {
	at := models.MillisOf(s.now())
	scoped := s.childScoped()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, t := range scoped {
			ids, err := selectIDs(ctx, tx, t.name, childID)
			if err != nil {
				return err
			}
			for _, id := range ids {
				if err := addTombstone(ctx, tx, t.name, id, at); err != nil {
					return err
				}
			}
		}
		if err := addTombstone(ctx, tx, mapper.CollectionChildren, childID, at); err != nil {
			return err
		}
		// foreign keys cascade to the child-scoped tables
		if _, err := tx.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, childID); err != nil {
			return fmt.Errorf("failed to delete child: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Children.n.notify()
	for _, t := range scoped {
		t.n.notify()
	}
	return nil
}

func selectIDs(ctx context.Context, db dbx.DBTX, table, childID string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT id FROM %s WHERE child_id = ? ORDER BY id", table), childID)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s ids: %w", table, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
