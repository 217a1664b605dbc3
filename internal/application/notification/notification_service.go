package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
)

// NotificationService handles a recipient's view of their notifications
type NotificationService struct {
	notificationRepo notification.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo notification.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// List returns the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[NotificationResponse], error) {
	page, err := s.notificationRepo.FindByRecipient(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]NotificationResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToNotificationResponse(page.Items[i])
	}

	result := shared.NewPaginated(responses, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// UnreadCount returns the user's unread notification count
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*NotificationResponse, error) {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if !n.IsAddressedTo(userID) {
		return nil, shared.ErrForbidden
	}

	if err := n.MarkRead(); err != nil {
		return nil, err
	}

	if err := s.notificationRepo.Save(ctx, n); err != nil {
		return nil, err
	}

	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many were affected
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uuid.UUID) error {
	n, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if !n.IsAddressedTo(userID) {
		return shared.ErrForbidden
	}

	return s.notificationRepo.Delete(ctx, notificationID)
}
