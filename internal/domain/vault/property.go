package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// Property is the listing a vault belongs to. The vault core references
// properties but never mutates them; listing CRUD lives elsewhere.
type Property struct {
	shared.BaseEntity
	OwnerID uuid.UUID
	Title   string
	City    string
}

// IsOwnedBy returns true if the given user owns the property
func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID == userID
}

// PropertyRepository defines the read-only interface the vault core needs
type PropertyRepository interface {
	// FindByID finds a property by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
}
