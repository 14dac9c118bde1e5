package repositories

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/growthjournal/internal/models"
)

// Tombstone marks a record deleted locally whose remote copy still has to go.
type Tombstone struct {
	Collection string
	ID         string
	CreatedAt  models.Millis
}

// AddTombstone is idempotent.
func (s *Store) AddTombstone(ctx context.Context, collection, id string) error {
	return addTombstone(ctx, s.db, collection, id, models.MillisOf(s.now()))
}

// ListTombstones returns pending deletes oldest first.
func (s *Store) ListTombstones(ctx context.Context) ([]Tombstone, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, id, created_at FROM pending_deletes ORDER BY created_at, collection, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select tombstones: %w", err)
	}
	defer rows.Close()

	var result []Tombstone
	for rows.Next() {
		var ts Tombstone
		if err := rows.Scan(&ts.Collection, &ts.ID, &ts.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) RemoveTombstone(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_deletes WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("failed to remove tombstone: %w", err)
	}
	return nil
}

func (s *Store) HasTombstone(ctx context.Context, collection, id string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pending_deletes WHERE collection = ? AND id = ?`, collection, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check tombstone: %w", err)
	}
	return n > 0, nil
}
