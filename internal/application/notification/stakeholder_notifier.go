package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ChangefeedPublisher pushes freshly created notifications to connected
// clients. Delivery is best effort; persistence is the source of truth.
type ChangefeedPublisher interface {
	PublishNotificationCreated(ctx context.Context, n *notification.Notification) error
}

// StakeholderNotifier fans vault document actions out to every stakeholder
// of the document's property: the owner, professionals holding active
// vault_access grants, the users who issued those grants, and buyers who
// paid for access. The actor is always excluded. Failures surface as a
// non-fatal error; a lost notification must never fail a vault operation,
// so callers log and continue.
type StakeholderNotifier struct {
	notificationRepo notification.NotificationRepository
	propertyRepo     vault.PropertyRepository
	grantRepo        vault.AccessGrantRepository
	buyerAccessRepo  vault.BuyerAccessRepository
	professionalRepo vault.ProfessionalRepository
	changefeed       ChangefeedPublisher
	logger           *zap.Logger
}

// NewStakeholderNotifier creates a new StakeholderNotifier
func NewStakeholderNotifier(
	notificationRepo notification.NotificationRepository,
	propertyRepo vault.PropertyRepository,
	grantRepo vault.AccessGrantRepository,
	buyerAccessRepo vault.BuyerAccessRepository,
	professionalRepo vault.ProfessionalRepository,
	changefeed ChangefeedPublisher,
	logger *zap.Logger,
) *StakeholderNotifier {
	return &StakeholderNotifier{
		notificationRepo: notificationRepo,
		propertyRepo:     propertyRepo,
		grantRepo:        grantRepo,
		buyerAccessRepo:  buyerAccessRepo,
		professionalRepo: professionalRepo,
		changefeed:       changefeed,
		logger:           logger,
	}
}

// NotifyVaultAction notifies every stakeholder of the document's property
// about the action. Documents outside any property have no stakeholders.
// The returned error is informational; the triggering mutation has already
// succeeded by the time it is reported.
func (s *StakeholderNotifier) NotifyVaultAction(ctx context.Context, actorUserID uuid.UUID, doc *vault.Document, action notification.VaultAction) error {
	if doc.PropertyID == nil {
		return nil
	}
	propertyID := *doc.PropertyID

	recipients := make(map[uuid.UUID]struct{})

	propertyTitle := ""
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("stakeholder fan-out: failed to load property",
				zap.String("property_id", propertyID.String()),
				zap.Error(err))
		}
	} else {
		propertyTitle = property.Title
		recipients[property.OwnerID] = struct{}{}
	}

	s.collectGrantStakeholders(ctx, propertyID, recipients)
	s.collectPaidBuyers(ctx, propertyID, recipients)

	// The actor already knows what they did
	delete(recipients, actorUserID)
	delete(recipients, uuid.Nil)

	if len(recipients) == 0 {
		return nil
	}

	title, err := notification.VaultTitle(action)
	if err != nil {
		return fmt.Errorf("stakeholder fan-out: unknown action %q: %w", action, err)
	}
	message, err := notification.VaultMessage(action, doc.Name, propertyTitle)
	if err != nil {
		return fmt.Errorf("stakeholder fan-out: unknown action %q: %w", action, err)
	}

	metadata := s.buildMetadata(doc, propertyID, actorUserID, action)

	batch := make([]*notification.Notification, 0, len(recipients))
	for recipientID := range recipients {
		n, err := notification.New(recipientID, &propertyID, action.NotificationType(), title, message, metadata)
		if err != nil {
			s.logger.Warn("stakeholder fan-out: failed to build notification",
				zap.String("recipient_id", recipientID.String()),
				zap.Error(err))
			continue
		}
		batch = append(batch, n)
	}
	if len(batch) == 0 {
		return nil
	}

	if err := s.notificationRepo.SaveBatch(ctx, batch); err != nil {
		return fmt.Errorf("stakeholder fan-out: save %d notifications for property %s: %w",
			len(batch), propertyID, err)
	}

	for _, n := range batch {
		if err := s.changefeed.PublishNotificationCreated(ctx, n); err != nil {
			s.logger.Warn("stakeholder fan-out: failed to publish to changefeed",
				zap.String("notification_id", n.ID.String()),
				zap.Error(err))
		}
	}

	return nil
}

// collectGrantStakeholders adds the linked users of professionals holding
// active vault_access grants on the property, plus the users who issued
// those grants. Other relationship types do not see the vault, so their
// holders stay out of the fan-out. Professionals without a registered
// account are skipped.
func (s *StakeholderNotifier) collectGrantStakeholders(ctx context.Context, propertyID uuid.UUID, recipients map[uuid.UUID]struct{}) {
	vaultAccess := vault.RelationshipVaultAccess
	grants, err := s.grantRepo.FindActive(ctx, vault.ActiveGrantFilter{
		PropertyID:       &propertyID,
		RelationshipType: &vaultAccess,
	})
	if err != nil {
		s.logger.Warn("stakeholder fan-out: failed to load grants",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return
	}
	if len(grants) == 0 {
		return
	}

	professionalIDs := make([]uuid.UUID, 0, len(grants))
	seen := make(map[uuid.UUID]struct{}, len(grants))
	for i := range grants {
		recipients[grants[i].UserID] = struct{}{}
		if _, ok := seen[grants[i].ProfessionalID]; !ok {
			seen[grants[i].ProfessionalID] = struct{}{}
			professionalIDs = append(professionalIDs, grants[i].ProfessionalID)
		}
	}

	professionals, err := s.professionalRepo.FindByIDs(ctx, professionalIDs)
	if err != nil {
		s.logger.Warn("stakeholder fan-out: failed to load professionals",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return
	}
	for i := range professionals {
		if professionals[i].HasLinkedUser() {
			recipients[*professionals[i].UserID] = struct{}{}
		}
	}
}

// collectPaidBuyers adds every buyer who paid for the property's vault.
// Buyers whose paid access has since expired still hear about changes to
// documents they once had access to; only reading is gated by expiry.
func (s *StakeholderNotifier) collectPaidBuyers(ctx context.Context, propertyID uuid.UUID, recipients map[uuid.UUID]struct{}) {
	paid, err := s.buyerAccessRepo.FindPaidByProperty(ctx, propertyID)
	if err != nil {
		s.logger.Warn("stakeholder fan-out: failed to load paid buyers",
			zap.String("property_id", propertyID.String()),
			zap.Error(err))
		return
	}
	for i := range paid {
		recipients[paid[i].BuyerID] = struct{}{}
	}
}

func (s *StakeholderNotifier) buildMetadata(doc *vault.Document, propertyID, actorUserID uuid.UUID, action notification.VaultAction) datatypes.JSON {
	raw, err := json.Marshal(map[string]string{
		"property_id":   propertyID.String(),
		"document_id":   doc.ID.String(),
		"document_name": doc.Name,
		"action":        string(action),
		"actor_id":      actorUserID.String(),
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
