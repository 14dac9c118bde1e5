// Package documents provides the PostgreSQL-backed document repository.
package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/growthjournal/internal/common"
	"github.com/dmitrijs2005/growthjournal/internal/dbx"
	"github.com/dmitrijs2005/growthjournal/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert writes d. On conflict the row is replaced only when the caller owns
// it or shares its non-empty family; zero rows affected means forbidden.
func (r *PostgresRepository) Upsert(ctx context.Context, d *models.Document, userID, familyID string) error {
	query := `
		INSERT INTO documents (collection, id, owner_id, family_id, data, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (collection, id)
		DO UPDATE SET
			data = EXCLUDED.data,
			family_id = CASE WHEN documents.owner_id = $3 THEN EXCLUDED.family_id ELSE documents.family_id END,
			updated_at = now()
			WHERE documents.owner_id = $3 OR (documents.family_id <> '' AND documents.family_id = $6);
	`
	res, err := r.db.ExecContext(ctx, query, d.Collection, d.ID, userID, d.FamilyID, d.Data, familyID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorForbidden
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func (r *PostgresRepository) Get(ctx context.Context, collection, id string) (*models.Document, error) {
	query := `SELECT collection, id, owner_id, family_id, data, updated_at FROM documents
		WHERE collection = $1 AND id = $2`

	var d models.Document
	err := r.db.QueryRowContext(ctx, query, collection, id).Scan(
		&d.Collection, &d.ID, &d.OwnerID, &d.FamilyID, &d.Data, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select document: %w", err)
	}
	return &d, nil
}

func (r *PostgresRepository) ListByField(ctx context.Context, collection, field, value, userID, familyID string) ([]*models.Document, error) {
	query := `SELECT collection, id, owner_id, family_id, data, updated_at FROM documents
		WHERE collection = $1
			AND data->'fields'->$2->>'stringValue' = $3
			AND (owner_id = $4 OR (family_id <> '' AND family_id = $5))
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, collection, field, value, userID, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []*models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.Collection, &d.ID, &d.OwnerID, &d.FamilyID, &d.Data, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, collection, id, userID, familyID string) (bool, error) {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2
		AND (owner_id = $3 OR (family_id <> '' AND family_id = $4))`

	res, err := r.db.ExecContext(ctx, query, collection, id, userID, familyID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffected(res) > 0, nil
}

var _ Repository = (*PostgresRepository)(nil)
