package vault

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
)

// BuyerAccessConfig carries the commercial parameters of paid vault access
type BuyerAccessConfig struct {
	Price          decimal.Decimal
	AccessDuration time.Duration // Zero means paid access never expires
	SuccessURL     string
	CancelURL      string
}

// BuyerAccessService handles buyer vault access operations
type BuyerAccessService struct {
	buyerAccessRepo vault.BuyerAccessRepository
	propertyRepo    vault.PropertyRepository
	checkout        CheckoutProvider
	eventBus        shared.EventPublisher
	config          BuyerAccessConfig
	logger          *zap.Logger
	now             func() time.Time
}

// NewBuyerAccessService creates a new BuyerAccessService
func NewBuyerAccessService(
	buyerAccessRepo vault.BuyerAccessRepository,
	propertyRepo vault.PropertyRepository,
	checkout CheckoutProvider,
	eventBus shared.EventPublisher,
	config BuyerAccessConfig,
	logger *zap.Logger,
) *BuyerAccessService {
	return &BuyerAccessService{
		buyerAccessRepo: buyerAccessRepo,
		propertyRepo:    propertyRepo,
		checkout:        checkout,
		eventBus:        eventBus,
		config:          config,
		logger:          logger,
		now:             time.Now,
	}
}

// Request opens a buyer's access request for a property. Owners cannot
// request access to their own vault, and an open or live request blocks a
// new one.
func (s *BuyerAccessService) Request(ctx context.Context, buyerID uuid.UUID, req RequestBuyerAccessRequest) (*BuyerAccessResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.IsOwnedBy(buyerID) {
		return nil, shared.NewDomainError("OWN_PROPERTY", "Owners already have full access to their vault")
	}

	existing, err := s.buyerAccessRepo.FindByBuyerAndProperty(ctx, buyerID, req.PropertyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && s.blocksNewRequest(existing) {
		resp := ToBuyerAccessResponse(existing)
		return &resp, nil
	}

	access, err := vault.NewBuyerAccess(buyerID, req.PropertyID, s.config.Price)
	if err != nil {
		return nil, err
	}

	if err := s.buyerAccessRepo.Save(ctx, access); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, access)

	resp := ToBuyerAccessResponse(access)
	return &resp, nil
}

// Approve lets the property owner approve a pending request so the buyer
// can proceed to payment
func (s *BuyerAccessService) Approve(ctx context.Context, ownerID, accessID uuid.UUID) (*BuyerAccessResponse, error) {
	return s.ownerTransition(ctx, ownerID, accessID, (*vault.BuyerAccess).Approve)
}

// Reject lets the property owner terminally reject a request
func (s *BuyerAccessService) Reject(ctx context.Context, ownerID, accessID uuid.UUID) (*BuyerAccessResponse, error) {
	return s.ownerTransition(ctx, ownerID, accessID, (*vault.BuyerAccess).Reject)
}

func (s *BuyerAccessService) ownerTransition(ctx context.Context, ownerID, accessID uuid.UUID, transition func(*vault.BuyerAccess) error) (*BuyerAccessResponse, error) {
	access, err := s.buyerAccessRepo.FindByID(ctx, accessID)
	if err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, access.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsOwnedBy(ownerID) {
		return nil, shared.ErrForbidden
	}

	if err := transition(access); err != nil {
		return nil, err
	}

	if err := s.buyerAccessRepo.Save(ctx, access); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, access)

	resp := ToBuyerAccessResponse(access)
	return &resp, nil
}

// StartCheckout opens a payment session for an approved request and returns
// the checkout URL. Buyer only.
func (s *BuyerAccessService) StartCheckout(ctx context.Context, buyerID, accessID uuid.UUID) (*CheckoutResponse, error) {
	access, err := s.buyerAccessRepo.FindByID(ctx, accessID)
	if err != nil {
		return nil, err
	}
	if access.BuyerID != buyerID {
		return nil, shared.ErrForbidden
	}

	session, err := s.checkout.CreateVaultCheckout(ctx, access.ID, access.Price, s.config.SuccessURL, s.config.CancelURL)
	if err != nil {
		return nil, err
	}

	if err := access.AttachCheckoutSession(session.ID); err != nil {
		return nil, err
	}

	if err := s.buyerAccessRepo.Save(ctx, access); err != nil {
		return nil, err
	}

	return &CheckoutResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// HandlePaymentSucceeded reacts to the payment collaborator confirming a
// checkout session. The transition to paid happens here and nowhere else.
func (s *BuyerAccessService) HandlePaymentSucceeded(ctx context.Context, sessionID string) error {
	access, err := s.buyerAccessRepo.FindByCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if s.config.AccessDuration > 0 {
		t := s.now().Add(s.config.AccessDuration)
		expiresAt = &t
	}

	if err := access.MarkPaid(expiresAt); err != nil {
		// Webhooks redeliver; a second confirmation for a paid access is fine
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "ALREADY_PAID" {
			return nil
		}
		return err
	}

	if err := s.buyerAccessRepo.Save(ctx, access); err != nil {
		return err
	}

	s.publishEvents(ctx, access)

	return nil
}

// HandlePaymentFailed reacts to a failed or expired checkout session
func (s *BuyerAccessService) HandlePaymentFailed(ctx context.Context, sessionID string) error {
	access, err := s.buyerAccessRepo.FindByCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}

	access.MarkPaymentFailed()

	return s.buyerAccessRepo.Save(ctx, access)
}

// GetForBuyer returns the buyer's access record for a property
func (s *BuyerAccessService) GetForBuyer(ctx context.Context, buyerID, propertyID uuid.UUID) (*BuyerAccessResponse, error) {
	access, err := s.buyerAccessRepo.FindByBuyerAndProperty(ctx, buyerID, propertyID)
	if err != nil {
		return nil, err
	}

	resp := ToBuyerAccessResponse(access)
	return &resp, nil
}

// ListByProperty lists access requests for a property. Owner only.
func (s *BuyerAccessService) ListByProperty(ctx context.Context, ownerID, propertyID uuid.UUID) ([]BuyerAccessResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsOwnedBy(ownerID) {
		return nil, shared.ErrForbidden
	}

	rows, err := s.buyerAccessRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	responses := make([]BuyerAccessResponse, len(rows))
	for i := range rows {
		responses[i] = ToBuyerAccessResponse(&rows[i])
	}
	return responses, nil
}

// blocksNewRequest reports whether an existing record still occupies the
// (buyer, property) slot. Rejected requests and expired paid access free
// the slot for a fresh request.
func (s *BuyerAccessService) blocksNewRequest(access *vault.BuyerAccess) bool {
	switch access.Status {
	case vault.BuyerAccessStatusRequested, vault.BuyerAccessStatusApproved:
		return true
	case vault.BuyerAccessStatusPaid:
		return !access.IsExpired(s.now())
	default:
		return false
	}
}

func (s *BuyerAccessService) publishEvents(ctx context.Context, access *vault.BuyerAccess) {
	for _, event := range access.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	access.ClearDomainEvents()
}
