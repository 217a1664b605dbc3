package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// NotificationRepository defines the persistence contract for notifications
type NotificationRepository interface {
	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByRecipient returns a recipient's notifications, newest first
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Notification], error)

	// CountUnread counts the recipient's unread notifications
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// Save persists a single notification
	Save(ctx context.Context, n *Notification) error

	// SaveBatch persists a set of notifications in one insert
	SaveBatch(ctx context.Context, batch []*Notification) error

	// MarkAllRead marks every unread notification of the recipient as read
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// Delete removes a notification
	Delete(ctx context.Context, id uuid.UUID) error
}
