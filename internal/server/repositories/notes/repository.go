package notes

import (
	"context"

	"github.com/dberezin/securenotes/internal/server/models"
)

// Repository is owner-scoped note storage. Every operation filters by the
// owner id bound from the verified bearer token; an update or delete that
// matches a differently-owned row behaves as not-found rather than forbidden,
// so callers cannot probe for foreign note ids.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error)
	Update(ctx context.Context, ownerID, id string, patch *models.NotePatch) (*models.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}
