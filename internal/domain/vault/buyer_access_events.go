package vault

import (
	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// Aggregate type constant for BuyerAccess
const AggregateTypeBuyerAccess = "BuyerVaultAccess"

// Event type constants for BuyerAccess
const (
	EventTypeBuyerAccessRequested     = "BuyerVaultAccessRequested"
	EventTypeBuyerAccessStatusChanged = "BuyerVaultAccessStatusChanged"
)

// BuyerAccessRequestedEvent is published when a buyer requests vault access
type BuyerAccessRequestedEvent struct {
	shared.BaseDomainEvent
	AccessID   uuid.UUID `json:"access_id"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	PropertyID uuid.UUID `json:"property_id"`
}

// NewBuyerAccessRequestedEvent creates a new BuyerAccessRequestedEvent
func NewBuyerAccessRequestedEvent(access *BuyerAccess) *BuyerAccessRequestedEvent {
	return &BuyerAccessRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerAccessRequested, AggregateTypeBuyerAccess, access.ID),
		AccessID:        access.ID,
		BuyerID:         access.BuyerID,
		PropertyID:      access.PropertyID,
	}
}

// BuyerAccessStatusChangedEvent is published on every status transition
type BuyerAccessStatusChangedEvent struct {
	shared.BaseDomainEvent
	AccessID   uuid.UUID         `json:"access_id"`
	BuyerID    uuid.UUID         `json:"buyer_id"`
	PropertyID uuid.UUID         `json:"property_id"`
	OldStatus  BuyerAccessStatus `json:"old_status"`
	NewStatus  BuyerAccessStatus `json:"new_status"`
}

// NewBuyerAccessStatusChangedEvent creates a new BuyerAccessStatusChangedEvent
func NewBuyerAccessStatusChangedEvent(access *BuyerAccess, oldStatus BuyerAccessStatus) *BuyerAccessStatusChangedEvent {
	return &BuyerAccessStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBuyerAccessStatusChanged, AggregateTypeBuyerAccess, access.ID),
		AccessID:        access.ID,
		BuyerID:         access.BuyerID,
		PropertyID:      access.PropertyID,
		OldStatus:       oldStatus,
		NewStatus:       access.Status,
	}
}
