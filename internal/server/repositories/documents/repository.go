package documents

import (
	"context"

	"github.com/dmitrijs2005/growthjournal/internal/server/models"
)

// Repository stores documents keyed by (collection, id).
type Repository interface {
	// Upsert inserts d or replaces the stored row when the caller identified
	// by userID/familyID may write it. The owner of an existing row is kept.
	// Returns common.ErrorForbidden when a row exists that the caller cannot write.
	Upsert(ctx context.Context, d *models.Document, userID, familyID string) error
	// Get returns common.ErrorNotFound when no row exists.
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	// ListByField returns the rows of collection visible to the caller whose
	// string field equals value, ordered by id.
	ListByField(ctx context.Context, collection, field, value, userID, familyID string) ([]*models.Document, error)
	// Delete removes the row when the caller may write it and reports
	// whether a row was removed.
	Delete(ctx context.Context, collection, id, userID, familyID string) (bool, error)
}
