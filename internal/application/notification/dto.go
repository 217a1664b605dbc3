package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/notification"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          uuid.UUID       `json:"id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	PropertyID  *uuid.UUID      `json:"property_id,omitempty"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Message     string          `json:"message"`
	IsRead      bool            `json:"is_read"`
	ReadAt      *time.Time      `json:"read_at,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Destination string          `json:"destination"`
	CreatedAt   time.Time       `json:"created_at"`
}

// UnreadCountResponse reports the recipient's unread notification count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// ToNotificationResponse converts a domain notification to a response DTO.
// The navigation destination is resolved here so clients never compute it.
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		PropertyID:  n.PropertyID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		Metadata:    json.RawMessage(n.Metadata),
		Destination: notification.NavigationTarget(n.Type, json.RawMessage(n.Metadata)),
		CreatedAt:   n.CreatedAt,
	}
}
