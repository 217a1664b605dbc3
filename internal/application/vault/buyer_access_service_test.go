package vault

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
)

type buyerAccessFixture struct {
	service         *BuyerAccessService
	buyerAccessRepo *MockBuyerAccessRepository
	propertyRepo    *MockPropertyRepository
	checkout        *MockCheckoutProvider
	eventBus        *MockEventPublisher
}

func newBuyerAccessFixture() *buyerAccessFixture {
	f := &buyerAccessFixture{
		buyerAccessRepo: new(MockBuyerAccessRepository),
		propertyRepo:    new(MockPropertyRepository),
		checkout:        new(MockCheckoutProvider),
		eventBus:        new(MockEventPublisher),
	}
	f.service = NewBuyerAccessService(f.buyerAccessRepo, f.propertyRepo, f.checkout, f.eventBus, BuyerAccessConfig{
		Price:          decimal.NewFromInt(25),
		AccessDuration: 90 * 24 * time.Hour,
		SuccessURL:     "https://vivenda.example/vault/success",
		CancelURL:      "https://vivenda.example/vault/cancel",
	}, zap.NewNop())
	return f
}

func TestBuyerAccessService_Request(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("opens new request", func(t *testing.T) {
		f := newBuyerAccessFixture()
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("FindByBuyerAndProperty", ctx, buyerID, propertyID).Return(nil, shared.ErrNotFound)
		f.buyerAccessRepo.On("Save", ctx, mock.AnythingOfType("*vault.BuyerAccess")).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Request(ctx, buyerID, RequestBuyerAccessRequest{PropertyID: propertyID})

		require.NoError(t, err)
		assert.Equal(t, string(vault.BuyerAccessStatusRequested), resp.Status)
		assert.True(t, resp.Price.Equal(decimal.NewFromInt(25)))
	})

	t.Run("owner cannot request own vault", func(t *testing.T) {
		f := newBuyerAccessFixture()
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(buyerID), nil)

		resp, err := f.service.Request(ctx, buyerID, RequestBuyerAccessRequest{PropertyID: propertyID})

		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("open request is returned instead of duplicated", func(t *testing.T) {
		f := newBuyerAccessFixture()
		existing, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("FindByBuyerAndProperty", ctx, buyerID, propertyID).Return(existing, nil)

		resp, err := f.service.Request(ctx, buyerID, RequestBuyerAccessRequest{PropertyID: propertyID})

		require.NoError(t, err)
		assert.Equal(t, existing.ID, resp.ID)
		f.buyerAccessRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("expired paid access allows a fresh request", func(t *testing.T) {
		f := newBuyerAccessFixture()
		expiry := time.Now().Add(-time.Hour)
		expired := paidAccessForTest(t, buyerID, propertyID, &expiry)

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("FindByBuyerAndProperty", ctx, buyerID, propertyID).Return(expired, nil)
		f.buyerAccessRepo.On("Save", ctx, mock.AnythingOfType("*vault.BuyerAccess")).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Request(ctx, buyerID, RequestBuyerAccessRequest{PropertyID: propertyID})

		require.NoError(t, err)
		assert.NotEqual(t, expired.ID, resp.ID)
		assert.Equal(t, string(vault.BuyerAccessStatusRequested), resp.Status)
	})

	t.Run("rejected request allows a fresh request", func(t *testing.T) {
		f := newBuyerAccessFixture()
		rejected, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, rejected.Reject())

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("FindByBuyerAndProperty", ctx, buyerID, propertyID).Return(rejected, nil)
		f.buyerAccessRepo.On("Save", ctx, mock.AnythingOfType("*vault.BuyerAccess")).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Request(ctx, buyerID, RequestBuyerAccessRequest{PropertyID: propertyID})

		require.NoError(t, err)
		assert.NotEqual(t, rejected.ID, resp.ID)
	})
}

func TestBuyerAccessService_ApproveReject(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("owner approves request", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("Save", ctx, access).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Approve(ctx, ownerID, access.ID)

		require.NoError(t, err)
		assert.Equal(t, string(vault.BuyerAccessStatusApproved), resp.Status)
	})

	t.Run("non-owner cannot approve", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)

		resp, err := f.service.Approve(ctx, uuid.New(), access.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Nil(t, resp)
	})

	t.Run("owner rejects request terminally", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(testProperty(ownerID), nil)
		f.buyerAccessRepo.On("Save", ctx, access).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Reject(ctx, ownerID, access.ID)

		require.NoError(t, err)
		assert.Equal(t, string(vault.BuyerAccessStatusRejected), resp.Status)
	})
}

func TestBuyerAccessService_StartCheckout(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	propertyID := uuid.New()

	t.Run("opens checkout session for approved access", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, access.Approve())

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)
		f.checkout.On("CreateVaultCheckout", ctx, access.ID, access.Price, mock.Anything, mock.Anything).
			Return(&CheckoutSession{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)
		f.buyerAccessRepo.On("Save", ctx, access).Return(nil)

		resp, err := f.service.StartCheckout(ctx, buyerID, access.ID)

		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", resp.SessionID)
		assert.Equal(t, "https://pay.example/cs_test_1", resp.CheckoutURL)
		assert.Equal(t, "cs_test_1", access.CheckoutSessionID)
	})

	t.Run("only the buyer starts checkout", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, access.Approve())

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)

		resp, err := f.service.StartCheckout(ctx, uuid.New(), access.ID)

		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Nil(t, resp)
	})

	t.Run("fails before approval", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)

		f.buyerAccessRepo.On("FindByID", ctx, access.ID).Return(access, nil)
		f.checkout.On("CreateVaultCheckout", ctx, access.ID, access.Price, mock.Anything, mock.Anything).
			Return(&CheckoutSession{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil)

		resp, err := f.service.StartCheckout(ctx, buyerID, access.ID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestBuyerAccessService_HandlePaymentSucceeded(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	propertyID := uuid.New()

	t.Run("marks access paid with expiry", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
		require.NoError(t, err)
		require.NoError(t, access.Approve())
		require.NoError(t, access.AttachCheckoutSession("cs_test_1"))

		f.buyerAccessRepo.On("FindByCheckoutSession", ctx, "cs_test_1").Return(access, nil)
		f.buyerAccessRepo.On("Save", ctx, access).Return(nil)
		f.eventBus.On("Publish", ctx, mock.Anything).Return(nil)

		err = f.service.HandlePaymentSucceeded(ctx, "cs_test_1")

		require.NoError(t, err)
		assert.Equal(t, vault.BuyerAccessStatusPaid, access.Status)
		require.NotNil(t, access.ExpiresAt)
		assert.WithinDuration(t, time.Now().Add(90*24*time.Hour), *access.ExpiresAt, time.Minute)
	})

	t.Run("redelivered webhook is a no-op", func(t *testing.T) {
		f := newBuyerAccessFixture()
		access := paidAccessForTest(t, buyerID, propertyID, nil)

		f.buyerAccessRepo.On("FindByCheckoutSession", ctx, "cs_test").Return(access, nil)

		err := f.service.HandlePaymentSucceeded(ctx, "cs_test")

		require.NoError(t, err)
		f.buyerAccessRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown session fails", func(t *testing.T) {
		f := newBuyerAccessFixture()
		f.buyerAccessRepo.On("FindByCheckoutSession", ctx, "cs_missing").Return(nil, shared.ErrNotFound)

		err := f.service.HandlePaymentSucceeded(ctx, "cs_missing")

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBuyerAccessService_HandlePaymentFailed(t *testing.T) {
	ctx := context.Background()

	f := newBuyerAccessFixture()
	access, err := vault.NewBuyerAccess(uuid.New(), uuid.New(), decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, access.Approve())
	require.NoError(t, access.AttachCheckoutSession("cs_fail"))

	f.buyerAccessRepo.On("FindByCheckoutSession", ctx, "cs_fail").Return(access, nil)
	f.buyerAccessRepo.On("Save", ctx, access).Return(nil)

	err = f.service.HandlePaymentFailed(ctx, "cs_fail")

	require.NoError(t, err)
	assert.Equal(t, vault.PaymentStatusFailed, access.PaymentStatus)
	assert.Equal(t, vault.BuyerAccessStatusApproved, access.Status)
}
