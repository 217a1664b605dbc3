package vault

import (
	"context"

	"github.com/google/uuid"
)

// ActiveGrantFilter narrows an active-grant query. Nil fields are ignored;
// supplied fields compose with AND semantics.
type ActiveGrantFilter struct {
	ProfessionalID   *uuid.UUID
	UserID           *uuid.UUID
	PropertyID       *uuid.UUID
	RelationshipType *RelationshipType
}

// AccessGrantRepository defines the interface for access grant persistence
type AccessGrantRepository interface {
	// FindByID finds a grant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*AccessGrant, error)

	// FindActive finds all active grants matching the filter
	FindActive(ctx context.Context, filter ActiveGrantFilter) ([]AccessGrant, error)

	// FindActiveForScope finds the single active grant for the exact
	// (professional, user, property, type) tuple, or shared.ErrNotFound
	FindActiveForScope(ctx context.Context, professionalID, userID uuid.UUID, propertyID *uuid.UUID, relationshipType RelationshipType) (*AccessGrant, error)

	// ExistsActiveForScope reports whether an active grant exists for the
	// exact (professional, user, property, type) tuple
	ExistsActiveForScope(ctx context.Context, professionalID, userID uuid.UUID, propertyID *uuid.UUID, relationshipType RelationshipType) (bool, error)

	// Save creates or updates a grant. Revocation is persisted through Save;
	// grants are never physically deleted.
	Save(ctx context.Context, grant *AccessGrant) error
}
