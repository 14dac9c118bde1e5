package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/growthjournal/internal/dbx"
)

var ErrNotFound = errors.New("record not found")

type scanner interface {
	Scan(dest ...any) error
}

// tableDef describes how one entity type maps onto its table. columns[0]
// must be the primary key and args must return values in column order.
type tableDef[T any] struct {
	name         string
	columns      []string
	parentColumn string
	// flagColumn is 1 once the row matches the remote store.
	flagColumn string
	args       func(T) []any
	scan       func(scanner) (T, error)
}

// Table is the local store of one entity type.
type Table[T any] struct {
	db  dbx.DBTX
	def tableDef[T]
	n   *notifier

	upsertSQL string
	selectSQL string
}

func newTable[T any](db dbx.DBTX, def tableDef[T]) *Table[T] {
	cols := strings.Join(def.columns, ", ")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(def.columns)), ", ")

	updates := make([]string, 0, len(def.columns)-1)
	for _, c := range def.columns[1:] {
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	// REPLACE would delete the row first and cascade to its dependants.
	upsert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		def.name, cols, marks, strings.Join(updates, ", "))

	return &Table[T]{
		db:        db,
		def:       def,
		n:         newNotifier(),
		upsertSQL: upsert,
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", cols, def.name),
	}
}

// Name returns the table name, which is also the remote collection name.
func (t *Table[T]) Name() string { return t.def.name }

// Upsert inserts or replaces the record keyed by its id.
func (t *Table[T]) Upsert(ctx context.Context, v T) error {
	if _, err := t.db.ExecContext(ctx, t.upsertSQL, t.def.args(v)...); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", t.def.name, err)
	}
	t.n.notify()
	return nil
}

// GetByID returns ErrNotFound when no row has the id.
func (t *Table[T]) GetByID(ctx context.Context, id string) (T, error) {
	row := t.db.QueryRowContext(ctx, t.selectSQL+" WHERE id = ?", id)
	v, err := t.def.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", t.def.name, id, ErrNotFound)
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to get %s: %w", t.def.name, err)
	}
	return v, nil
}

func (t *Table[T]) query(ctx context.Context, where string, args ...any) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.selectSQL+" WHERE "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", t.def.name, err)
	}
	defer rows.Close()

	var result []T
	for rows.Next() {
		v, err := t.def.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", t.def.name, err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListDirty returns every record not yet reflected remotely. The result is
// fully read before returning, so later writes do not affect it.
func (t *Table[T]) ListDirty(ctx context.Context) ([]T, error) {
	return t.query(ctx, t.def.flagColumn+" = 0")
}

// ListByParent returns the records whose parent column equals parentID.
func (t *Table[T]) ListByParent(ctx context.Context, parentID string) ([]T, error) {
	return t.query(ctx, t.def.parentColumn+" = ?", parentID)
}

// MarkSynced flips the record's flag without touching other columns.
// Marking an absent record is a no-op.
func (t *Table[T]) MarkSynced(ctx context.Context, id string) error {
	q := fmt.Sprintf("UPDATE %s SET %s = 1 WHERE id = ?", t.def.name, t.def.flagColumn)
	if _, err := t.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("failed to mark %s synced: %w", t.def.name, err)
	}
	t.n.notify()
	return nil
}

// DeleteByID removes the record. Deleting an absent record succeeds.
func (t *Table[T]) DeleteByID(ctx context.Context, id string) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.def.name)
	if _, err := t.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", t.def.name, err)
	}
	t.n.notify()
	return nil
}

// Observe emits the records under parentID now and again after every write
// to the table, until ctx is done or a read fails. The channel is closed on
// exit.
func (t *Table[T]) Observe(ctx context.Context, parentID string) <-chan []T {
	out := make(chan []T)
	changed, cancel := t.n.subscribe()

	go func() {
		defer close(out)
		defer cancel()
		for {
			snapshot, err := t.ListByParent(ctx, parentID)
			if err != nil {
				return
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
				return
			}
			select {
			case <-changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
