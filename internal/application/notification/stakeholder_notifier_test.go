package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
)

type notifierFixture struct {
	notifier         *StakeholderNotifier
	notificationRepo *MockNotificationRepository
	propertyRepo     *MockPropertyRepository
	grantRepo        *MockAccessGrantRepository
	buyerAccessRepo  *MockBuyerAccessRepository
	professionalRepo *MockProfessionalRepository
	changefeed       *MockChangefeedPublisher
}

func newNotifierFixture() *notifierFixture {
	f := &notifierFixture{
		notificationRepo: new(MockNotificationRepository),
		propertyRepo:     new(MockPropertyRepository),
		grantRepo:        new(MockAccessGrantRepository),
		buyerAccessRepo:  new(MockBuyerAccessRepository),
		professionalRepo: new(MockProfessionalRepository),
		changefeed:       new(MockChangefeedPublisher),
	}
	f.notifier = NewStakeholderNotifier(f.notificationRepo, f.propertyRepo, f.grantRepo, f.buyerAccessRepo, f.professionalRepo, f.changefeed, zap.NewNop())
	return f
}

func fixtureProperty(ownerID uuid.UUID, title string) *vault.Property {
	return &vault.Property{
		BaseEntity: shared.NewBaseEntity(),
		OwnerID:    ownerID,
		Title:      title,
		City:       "Lisboa",
	}
}

func fixtureDocument(t *testing.T, ownerID uuid.UUID, propertyID *uuid.UUID, name string) *vault.Document {
	t.Helper()
	doc, err := vault.NewDocument(ownerID, propertyID, name, "vault/x/"+name, 1024, "application/pdf", false)
	require.NoError(t, err)
	return doc
}

func fixtureGrant(t *testing.T, professionalID, grantorID, propertyID uuid.UUID) vault.AccessGrant {
	t.Helper()
	grant, err := vault.NewAccessGrant(vault.RelationshipVaultAccess, professionalID, grantorID, &propertyID)
	require.NoError(t, err)
	return *grant
}

func fixturePaidAccess(t *testing.T, buyerID, propertyID uuid.UUID, expiresAt *time.Time) vault.BuyerAccess {
	t.Helper()
	access, err := vault.NewBuyerAccess(buyerID, propertyID, decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, access.Approve())
	require.NoError(t, access.AttachCheckoutSession("cs_test"))
	require.NoError(t, access.MarkPaid(expiresAt))
	return *access
}

func recipientSet(batch []*notification.Notification) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(batch))
	for _, n := range batch {
		set[n.RecipientID] = true
	}
	return set
}

func TestStakeholderNotifier_NotifyVaultAction(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	propertyID := uuid.New()

	t.Run("upload reaches professional user and paid buyer, not the actor", func(t *testing.T) {
		f := newNotifierFixture()
		professionalUserID := uuid.New()
		buyerID := uuid.New()
		professional := vault.Professional{BaseEntity: shared.NewBaseEntity(), UserID: &professionalUserID, Name: "Eng. Silva"}
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		vaultAccess := vault.RelationshipVaultAccess
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, vault.ActiveGrantFilter{PropertyID: &propertyID, RelationshipType: &vaultAccess}).
			Return([]vault.AccessGrant{fixtureGrant(t, professional.ID, ownerID, propertyID)}, nil)
		f.professionalRepo.On("FindByIDs", ctx, []uuid.UUID{professional.ID}).Return([]vault.Professional{professional}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).
			Return([]vault.BuyerAccess{fixturePaidAccess(t, buyerID, propertyID, nil)}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload))

		require.Len(t, saved, 2)
		recipients := recipientSet(saved)
		assert.True(t, recipients[professionalUserID])
		assert.True(t, recipients[buyerID])
		assert.False(t, recipients[ownerID])
		for _, n := range saved {
			assert.Equal(t, notification.TypeVaultUpload, n.Type)
			assert.Contains(t, n.Message, `"Caderneta.pdf"`)
			assert.Contains(t, n.Message, "foi adicionado ao cofre")
			assert.Contains(t, n.Message, "T3 em Alvalade")

			var meta map[string]string
			require.NoError(t, json.Unmarshal(n.Metadata, &meta))
			assert.Equal(t, ownerID.String(), meta["actor_id"])
			assert.Equal(t, "Caderneta.pdf", meta["document_name"])
			assert.Equal(t, string(notification.VaultActionUpload), meta["action"])
		}
	})

	t.Run("property assignment grants stay out of the fan-out", func(t *testing.T) {
		f := newNotifierFixture()
		buyerID := uuid.New()
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		vaultAccess := vault.RelationshipVaultAccess
		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, vault.ActiveGrantFilter{PropertyID: &propertyID, RelationshipType: &vaultAccess}).
			Return([]vault.AccessGrant{}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).
			Return([]vault.BuyerAccess{fixturePaidAccess(t, buyerID, propertyID, nil)}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload))

		require.Len(t, saved, 1)
		assert.Equal(t, buyerID, saved[0].RecipientID)
		f.professionalRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("expired paid buyer still hears about changes", func(t *testing.T) {
		f := newNotifierFixture()
		buyerID := uuid.New()
		expiry := time.Now().Add(-time.Hour)
		doc := fixtureDocument(t, ownerID, &propertyID, "Escritura.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, mock.Anything).Return([]vault.AccessGrant{}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).
			Return([]vault.BuyerAccess{fixturePaidAccess(t, buyerID, propertyID, &expiry)}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionDelete))

		require.Len(t, saved, 1)
		assert.Equal(t, buyerID, saved[0].RecipientID)
	})

	t.Run("reviewer action notifies the owner", func(t *testing.T) {
		f := newNotifierFixture()
		reviewerUserID := uuid.New()
		professional := vault.Professional{BaseEntity: shared.NewBaseEntity(), UserID: &reviewerUserID}
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, mock.Anything).
			Return([]vault.AccessGrant{fixtureGrant(t, professional.ID, ownerID, propertyID)}, nil)
		f.professionalRepo.On("FindByIDs", ctx, mock.Anything).Return([]vault.Professional{professional}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).Return([]vault.BuyerAccess{}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, reviewerUserID, doc, notification.VaultActionValidated))

		require.Len(t, saved, 1)
		assert.Equal(t, ownerID, saved[0].RecipientID)
		assert.Equal(t, notification.TypeVaultValidated, saved[0].Type)
	})

	t.Run("professional without linked user is skipped", func(t *testing.T) {
		f := newNotifierFixture()
		actorID := uuid.New()
		professional := vault.Professional{BaseEntity: shared.NewBaseEntity(), UserID: nil}
		doc := fixtureDocument(t, ownerID, &propertyID, "Planta.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, mock.Anything).
			Return([]vault.AccessGrant{fixtureGrant(t, professional.ID, ownerID, propertyID)}, nil)
		f.professionalRepo.On("FindByIDs", ctx, mock.Anything).Return([]vault.Professional{professional}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).Return([]vault.BuyerAccess{}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, actorID, doc, notification.VaultActionUpload))

		require.Len(t, saved, 1)
		assert.Equal(t, ownerID, saved[0].RecipientID)
	})

	t.Run("missing property falls back to generic title", func(t *testing.T) {
		f := newNotifierFixture()
		buyerID := uuid.New()
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(nil, shared.ErrNotFound)
		f.grantRepo.On("FindActive", ctx, mock.Anything).Return([]vault.AccessGrant{}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).
			Return([]vault.BuyerAccess{fixturePaidAccess(t, buyerID, propertyID, nil)}, nil)

		var saved []*notification.Notification
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]*notification.Notification)
		}).Return(nil)
		f.changefeed.On("PublishNotificationCreated", ctx, mock.Anything).Return(nil)

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload))

		require.Len(t, saved, 1)
		assert.Contains(t, saved[0].Message, "Imóvel")
	})

	t.Run("no stakeholders means no writes", func(t *testing.T) {
		f := newNotifierFixture()
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, mock.Anything).Return([]vault.AccessGrant{}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).Return([]vault.BuyerAccess{}, nil)

		// Owner is the actor, so the recipient set is empty
		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload))

		f.notificationRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("document without property is a no-op", func(t *testing.T) {
		f := newNotifierFixture()
		doc := fixtureDocument(t, ownerID, nil, "id.pdf")

		require.NoError(t, f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload))

		f.propertyRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.notificationRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("save failure surfaces as an error without publishing", func(t *testing.T) {
		f := newNotifierFixture()
		buyerID := uuid.New()
		doc := fixtureDocument(t, ownerID, &propertyID, "Caderneta.pdf")

		f.propertyRepo.On("FindByID", ctx, propertyID).Return(fixtureProperty(ownerID, "T3 em Alvalade"), nil)
		f.grantRepo.On("FindActive", ctx, mock.Anything).Return([]vault.AccessGrant{}, nil)
		f.buyerAccessRepo.On("FindPaidByProperty", ctx, propertyID).
			Return([]vault.BuyerAccess{fixturePaidAccess(t, buyerID, propertyID, nil)}, nil)
		f.notificationRepo.On("SaveBatch", ctx, mock.Anything).Return(assert.AnError)

		err := f.notifier.NotifyVaultAction(ctx, ownerID, doc, notification.VaultActionUpload)
		require.ErrorIs(t, err, assert.AnError)
		f.changefeed.AssertNotCalled(t, "PublishNotificationCreated", mock.Anything, mock.Anything)
	})
}
