package vault

import (
	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// Aggregate type constant for AccessGrant
const AggregateTypeAccessGrant = "AccessGrant"

// Event type constants for AccessGrant
const (
	EventTypeAccessGranted = "AccessGranted"
	EventTypeAccessRevoked = "AccessRevoked"
)

// AccessGrantedEvent is published when a new grant is created
type AccessGrantedEvent struct {
	shared.BaseDomainEvent
	GrantID          uuid.UUID        `json:"grant_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	ProfessionalID   uuid.UUID        `json:"professional_id"`
	UserID           uuid.UUID        `json:"user_id"`
	PropertyID       *uuid.UUID       `json:"property_id,omitempty"`
}

// NewAccessGrantedEvent creates a new AccessGrantedEvent
func NewAccessGrantedEvent(grant *AccessGrant) *AccessGrantedEvent {
	return &AccessGrantedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAccessGranted, AggregateTypeAccessGrant, grant.ID),
		GrantID:          grant.ID,
		RelationshipType: grant.RelationshipType,
		ProfessionalID:   grant.ProfessionalID,
		UserID:           grant.UserID,
		PropertyID:       grant.PropertyID,
	}
}

// AccessRevokedEvent is published when a grant is revoked
type AccessRevokedEvent struct {
	shared.BaseDomainEvent
	GrantID          uuid.UUID        `json:"grant_id"`
	RelationshipType RelationshipType `json:"relationship_type"`
	ProfessionalID   uuid.UUID        `json:"professional_id"`
	UserID           uuid.UUID        `json:"user_id"`
	PropertyID       *uuid.UUID       `json:"property_id,omitempty"`
}

// NewAccessRevokedEvent creates a new AccessRevokedEvent
func NewAccessRevokedEvent(grant *AccessGrant) *AccessRevokedEvent {
	return &AccessRevokedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAccessRevoked, AggregateTypeAccessGrant, grant.ID),
		GrantID:          grant.ID,
		RelationshipType: grant.RelationshipType,
		ProfessionalID:   grant.ProfessionalID,
		UserID:           grant.UserID,
		PropertyID:       grant.PropertyID,
	}
}
