package vault

import (
	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// Aggregate type constant for Document
const AggregateTypeDocument = "VaultDocument"

// Event type constants for Document
const (
	EventTypeDocumentCreated       = "VaultDocumentCreated"
	EventTypeDocumentUpdated       = "VaultDocumentUpdated"
	EventTypeDocumentStatusChanged = "VaultDocumentStatusChanged"
	EventTypeDocumentDeleted       = "VaultDocumentDeleted"
)

// DocumentCreatedEvent is published when a new vault document is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID  uuid.UUID  `json:"document_id"`
	OwnerUserID uuid.UUID  `json:"owner_user_id"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	Name        string     `json:"name"`
	IsPublic    bool       `json:"is_public"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeDocument, doc.ID),
		DocumentID:      doc.ID,
		OwnerUserID:     doc.OwnerUserID,
		PropertyID:      doc.PropertyID,
		Name:            doc.Name,
		IsPublic:        doc.IsPublic,
	}
}

// DocumentUpdatedEvent is published when a document's name or visibility changes
type DocumentUpdatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID  `json:"document_id"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	Name       string     `json:"name"`
	IsPublic   bool       `json:"is_public"`
}

// NewDocumentUpdatedEvent creates a new DocumentUpdatedEvent
func NewDocumentUpdatedEvent(doc *Document) *DocumentUpdatedEvent {
	return &DocumentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentUpdated, AggregateTypeDocument, doc.ID),
		DocumentID:      doc.ID,
		PropertyID:      doc.PropertyID,
		Name:            doc.Name,
		IsPublic:        doc.IsPublic,
	}
}

// DocumentStatusChangedEvent is published when a professional reviews a document
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID      `json:"document_id"`
	PropertyID *uuid.UUID     `json:"property_id,omitempty"`
	Name       string         `json:"name"`
	OldStatus  DocumentStatus `json:"old_status"`
	NewStatus  DocumentStatus `json:"new_status"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(doc *Document, oldStatus DocumentStatus) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, AggregateTypeDocument, doc.ID),
		DocumentID:      doc.ID,
		PropertyID:      doc.PropertyID,
		Name:            doc.Name,
		OldStatus:       oldStatus,
		NewStatus:       doc.Status,
	}
}

// DocumentDeletedEvent is published when a document is removed from the vault
type DocumentDeletedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID  `json:"document_id"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	Name       string     `json:"name"`
	StorageKey string     `json:"storage_key"`
}

// NewDocumentDeletedEvent creates a new DocumentDeletedEvent
func NewDocumentDeletedEvent(doc *Document) *DocumentDeletedEvent {
	return &DocumentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentDeleted, AggregateTypeDocument, doc.ID),
		DocumentID:      doc.ID,
		PropertyID:      doc.PropertyID,
		Name:            doc.Name,
		StorageKey:      doc.StorageKey,
	}
}
