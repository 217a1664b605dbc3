package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[*notification.Notification], error) {
	args := m.Called(ctx, recipientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*notification.Notification]), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveBatch(ctx context.Context, batch []*notification.Notification) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of vault.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Property), args.Error(1)
}

// MockAccessGrantRepository is a mock implementation of vault.AccessGrantRepository
type MockAccessGrantRepository struct {
	mock.Mock
}

func (m *MockAccessGrantRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.AccessGrant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) FindActive(ctx context.Context, filter vault.ActiveGrantFilter) ([]vault.AccessGrant, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]vault.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) FindActiveForScope(ctx context.Context, professionalID, userID uuid.UUID, propertyID *uuid.UUID, relationshipType vault.RelationshipType) (*vault.AccessGrant, error) {
	args := m.Called(ctx, professionalID, userID, propertyID, relationshipType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.AccessGrant), args.Error(1)
}

func (m *MockAccessGrantRepository) ExistsActiveForScope(ctx context.Context, professionalID, userID uuid.UUID, propertyID *uuid.UUID, relationshipType vault.RelationshipType) (bool, error) {
	args := m.Called(ctx, professionalID, userID, propertyID, relationshipType)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessGrantRepository) Save(ctx context.Context, grant *vault.AccessGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

// MockBuyerAccessRepository is a mock implementation of vault.BuyerAccessRepository
type MockBuyerAccessRepository struct {
	mock.Mock
}

func (m *MockBuyerAccessRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.BuyerAccess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) FindByBuyerAndProperty(ctx context.Context, buyerID, propertyID uuid.UUID) (*vault.BuyerAccess, error) {
	args := m.Called(ctx, buyerID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) FindByCheckoutSession(ctx context.Context, sessionID string) (*vault.BuyerAccess, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) FindPaidByProperty(ctx context.Context, propertyID uuid.UUID) ([]vault.BuyerAccess, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]vault.BuyerAccess, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]vault.BuyerAccess, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).([]vault.BuyerAccess), args.Error(1)
}

func (m *MockBuyerAccessRepository) Save(ctx context.Context, access *vault.BuyerAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

// MockProfessionalRepository is a mock implementation of vault.ProfessionalRepository
type MockProfessionalRepository struct {
	mock.Mock
}

func (m *MockProfessionalRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Professional, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Professional), args.Error(1)
}

func (m *MockProfessionalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]vault.Professional, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]vault.Professional), args.Error(1)
}

func (m *MockProfessionalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vault.Professional, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Professional), args.Error(1)
}

// MockChangefeedPublisher is a mock implementation of ChangefeedPublisher
type MockChangefeedPublisher struct {
	mock.Mock
}

func (m *MockChangefeedPublisher) PublishNotificationCreated(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}
