package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vivenda/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for the Notification aggregate.
type NotificationModel struct {
	AggregateModel
	RecipientID uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1"`
	PropertyID  *uuid.UUID        `gorm:"type:uuid;index"`
	Type        notification.Type `gorm:"type:varchar(30);not null"`
	Title       string            `gorm:"type:varchar(255);not null"`
	Message     string            `gorm:"type:text;not null"`
	IsRead      bool              `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2"`
	ReadAt      *time.Time
	Metadata    datatypes.JSON `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification.
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		RecipientID: m.RecipientID,
		PropertyID:  m.PropertyID,
		Type:        m.Type,
		Title:       m.Title,
		Message:     m.Message,
		IsRead:      m.IsRead,
		ReadAt:      m.ReadAt,
		Metadata:    m.Metadata,
	}
	m.PopulateAggregateRoot(&n.BaseAggregateRoot)
	return n
}

// FromDomain populates the persistence model from a domain Notification.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainAggregateRoot(n.BaseAggregateRoot)
	m.RecipientID = n.RecipientID
	m.PropertyID = n.PropertyID
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
	m.Metadata = n.Metadata
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
