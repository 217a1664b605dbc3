package vault

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]vault.Document, error) {
	args := m.Called(ctx, ownerUserID, filter)
	return args.Get(0).([]vault.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]vault.Document, error) {
	args := m.Called(ctx, propertyID, filter)
	return args.Get(0).([]vault.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *vault.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAccessGrantRepository is a mock implementation of AccessGrantRepository
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

// MockBuyerAccessRepository is a mock implementation of BuyerAccessRepository
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

// MockConsentRepository is a mock implementation of ConsentRepository
type MockConsentRepository struct {
	mock.Mock
}

func (m *MockConsentRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*vault.ConsentAcceptance, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.ConsentAcceptance), args.Error(1)
}

func (m *MockConsentRepository) ExistsForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, propertyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentRepository) Create(ctx context.Context, consent *vault.ConsentAcceptance) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of PropertyRepository
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

// MockProfessionalRepository is a mock implementation of ProfessionalRepository
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

// =============================================================================
// Mock Ports
// =============================================================================

// MockFileStorage is a mock implementation of FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockCheckoutProvider is a mock implementation of CheckoutProvider
type MockCheckoutProvider struct {
	mock.Mock
}

func (m *MockCheckoutProvider) CreateVaultCheckout(ctx context.Context, accessID uuid.UUID, price decimal.Decimal, successURL, cancelURL string) (*CheckoutSession, error) {
	args := m.Called(ctx, accessID, price, successURL, cancelURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutSession), args.Error(1)
}

// MockStakeholderNotifier is a mock implementation of StakeholderNotifier
type MockStakeholderNotifier struct {
	mock.Mock
}

func (m *MockStakeholderNotifier) NotifyVaultAction(ctx context.Context, actorUserID uuid.UUID, doc *vault.Document, action notification.VaultAction) error {
	return m.Called(ctx, actorUserID, doc, action).Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
