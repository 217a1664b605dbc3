package vault

import (
	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// RelationshipType discriminates the three grant variants
type RelationshipType string

const (
	// RelationshipContactAccepted records that a professional and a user
	// agreed to engage. It implies no document access.
	RelationshipContactAccepted RelationshipType = "contact_accepted"
	// RelationshipVaultAccess allows a professional to read and review the
	// documents of one property.
	RelationshipVaultAccess RelationshipType = "vault_access"
	// RelationshipPropertyAssignment assigns a professional to a property
	// without implying vault read rights.
	RelationshipPropertyAssignment RelationshipType = "property_assignment"
)

// IsValid checks if the relationship type is valid
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationshipContactAccepted, RelationshipVaultAccess, RelationshipPropertyAssignment:
		return true
	default:
		return false
	}
}

// AccessGrant links a professional to a user and optionally a property.
// Only rows with IsActive=true count for authorization; revoked rows are
// kept forever as an audit log.
type AccessGrant struct {
	shared.BaseAggregateRoot
	RelationshipType RelationshipType
	ProfessionalID   uuid.UUID
	UserID           uuid.UUID  // Grantor, normally the property owner
	PropertyID       *uuid.UUID // Nil for relationships not scoped to a property
	IsActive         bool
}

// NewAccessGrant creates a new active access grant
func NewAccessGrant(
	relationshipType RelationshipType,
	professionalID uuid.UUID,
	userID uuid.UUID,
	propertyID *uuid.UUID,
) (*AccessGrant, error) {
	if !relationshipType.IsValid() {
		return nil, shared.NewDomainError("INVALID_RELATIONSHIP_TYPE", "Invalid relationship type")
	}
	if professionalID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFESSIONAL_ID", "Professional ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if propertyID != nil && *propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be the nil UUID")
	}
	// Vault access is always scoped to exactly one property
	if relationshipType == RelationshipVaultAccess && propertyID == nil {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Vault access grants require a property")
	}

	grant := &AccessGrant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RelationshipType:  relationshipType,
		ProfessionalID:    professionalID,
		UserID:            userID,
		PropertyID:        propertyID,
		IsActive:          true,
	}

	grant.AddDomainEvent(NewAccessGrantedEvent(grant))

	return grant, nil
}

// Revoke deactivates the grant. The row is retained as an audit record
// and must never be physically deleted.
func (g *AccessGrant) Revoke() error {
	if !g.IsActive {
		return shared.NewDomainError("ALREADY_REVOKED", "Grant is already revoked")
	}

	g.IsActive = false
	g.Touch()
	g.IncrementVersion()

	g.AddDomainEvent(NewAccessRevokedEvent(g))

	return nil
}

// GrantsVaultRead returns true if this grant, when active, allows reading
// the vault of the given property
func (g *AccessGrant) GrantsVaultRead(propertyID uuid.UUID) bool {
	return g.IsActive &&
		g.RelationshipType == RelationshipVaultAccess &&
		g.PropertyID != nil && *g.PropertyID == propertyID
}
