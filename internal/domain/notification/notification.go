package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Type is the closed set of notification types
type Type string

const (
	// Vault document events (produced by the stakeholder fan-out)
	TypeVaultUpload      Type = "vault_upload"
	TypeVaultDelete      Type = "vault_delete"
	TypeVaultValidated   Type = "vault_validated"
	TypeVaultRejectedDoc Type = "vault_rejected_doc"
	TypeVaultUpdated     Type = "vault_updated"

	// Other marketplace flows sharing the notification entity
	TypeMessageReceived Type = "message_received"
	TypeVisitRequest    Type = "visit_request"
	TypeVisitConfirmed  Type = "visit_confirmed"
	TypeAccessRequest   Type = "access_request"
	TypeAccessApproved  Type = "access_approved"
	TypeServiceRequest  Type = "service_request"
)

// IsValid checks if the notification type is part of the closed set
func (t Type) IsValid() bool {
	switch t {
	case TypeVaultUpload, TypeVaultDelete, TypeVaultValidated,
		TypeVaultRejectedDoc, TypeVaultUpdated,
		TypeMessageReceived, TypeVisitRequest, TypeVisitConfirmed,
		TypeAccessRequest, TypeAccessApproved, TypeServiceRequest:
		return true
	default:
		return false
	}
}

// IsVault returns true for types produced by the vault fan-out
func (t Type) IsVault() bool {
	switch t {
	case TypeVaultUpload, TypeVaultDelete, TypeVaultValidated,
		TypeVaultRejectedDoc, TypeVaultUpdated:
		return true
	default:
		return false
	}
}

// Notification is an in-app notification addressed to one user.
// Rows are created by system flows and mutated only by the recipient
// marking them read or deleting them.
type Notification struct {
	shared.BaseAggregateRoot
	RecipientID uuid.UUID
	PropertyID  *uuid.UUID
	Type        Type
	Title       string
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	Metadata    datatypes.JSON
}

// New creates a new unread notification
func New(recipientID uuid.UUID, propertyID *uuid.UUID, notifType Type, title, message string, metadata datatypes.JSON) (*Notification, error) {
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT_ID", "Recipient ID cannot be empty")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown notification type")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}

	return &Notification{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RecipientID:       recipientID,
		PropertyID:        propertyID,
		Type:              notifType,
		Title:             title,
		Message:           message,
		IsRead:            false,
		Metadata:          metadata,
	}, nil
}

// MarkRead marks the notification as read by its recipient
func (n *Notification) MarkRead() error {
	if n.IsRead {
		return shared.NewDomainError("ALREADY_READ", "Notification is already read")
	}

	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()

	return nil
}

// MarkUnread clears the read flag
func (n *Notification) MarkUnread() error {
	if !n.IsRead {
		return shared.NewDomainError("ALREADY_UNREAD", "Notification is already unread")
	}

	n.IsRead = false
	n.ReadAt = nil
	n.Touch()
	n.IncrementVersion()

	return nil
}

// IsAddressedTo returns true if the given user is the recipient
func (n *Notification) IsAddressedTo(userID uuid.UUID) bool {
	return n.RecipientID == userID
}
