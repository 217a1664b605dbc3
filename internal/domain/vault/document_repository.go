package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// DocumentRepository defines the interface for vault document persistence
type DocumentRepository interface {
	// FindByID finds a document by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByOwner finds all documents owned by a user
	FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]Document, error)

	// FindByProperty finds all documents attached to a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]Document, error)

	// CountByProperty counts documents attached to a property
	CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)

	// Save creates or updates a document
	Save(ctx context.Context, doc *Document) error

	// Delete removes a document
	Delete(ctx context.Context, id uuid.UUID) error
}
