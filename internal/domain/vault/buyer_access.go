package vault

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivenda/backend/internal/domain/shared"
)

// BuyerAccessStatus represents the state of a buyer's paid vault access
type BuyerAccessStatus string

const (
	BuyerAccessStatusRequested BuyerAccessStatus = "requested"
	BuyerAccessStatusApproved  BuyerAccessStatus = "approved"
	BuyerAccessStatusPaid      BuyerAccessStatus = "paid"
	BuyerAccessStatusRejected  BuyerAccessStatus = "rejected"
)

// IsValid checks if the buyer access status is valid
func (s BuyerAccessStatus) IsValid() bool {
	switch s {
	case BuyerAccessStatusRequested, BuyerAccessStatusApproved,
		BuyerAccessStatusPaid, BuyerAccessStatusRejected:
		return true
	default:
		return false
	}
}

// PaymentStatus mirrors the payment collaborator's view of the purchase
type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "none"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// BuyerAccess is a buyer's paid access to one property's vault.
// State machine: requested -> approved -> paid (until expiry), or
// requested/approved -> rejected (terminal). The paid transition is
// driven by the external payment collaborator, never originated here.
type BuyerAccess struct {
	shared.BaseAggregateRoot
	BuyerID           uuid.UUID
	PropertyID        uuid.UUID
	Status            BuyerAccessStatus
	PaymentStatus     PaymentStatus
	Price             decimal.Decimal
	CheckoutSessionID string     // Payment collaborator session reference
	ExpiresAt         *time.Time // Nil means the paid access never expires
}

// NewBuyerAccess creates a new access request in requested status
func NewBuyerAccess(buyerID, propertyID uuid.UUID, price decimal.Decimal) (*BuyerAccess, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER_ID", "Buyer ID cannot be empty")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	access := &BuyerAccess{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		PropertyID:        propertyID,
		Status:            BuyerAccessStatusRequested,
		PaymentStatus:     PaymentStatusNone,
		Price:             price,
	}

	access.AddDomainEvent(NewBuyerAccessRequestedEvent(access))

	return access, nil
}

// Approve moves the request to approved so the buyer can pay
func (a *BuyerAccess) Approve() error {
	if a.Status != BuyerAccessStatusRequested {
		return shared.NewDomainError("INVALID_STATE", "Only requested access can be approved")
	}

	a.Status = BuyerAccessStatusApproved
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewBuyerAccessStatusChangedEvent(a, BuyerAccessStatusRequested))

	return nil
}

// Reject terminally rejects the request
func (a *BuyerAccess) Reject() error {
	if a.Status == BuyerAccessStatusRejected {
		return shared.NewDomainError("ALREADY_REJECTED", "Access request is already rejected")
	}
	if a.Status == BuyerAccessStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid access cannot be rejected")
	}

	oldStatus := a.Status
	a.Status = BuyerAccessStatusRejected
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewBuyerAccessStatusChangedEvent(a, oldStatus))

	return nil
}

// AttachCheckoutSession records the payment collaborator's session reference
func (a *BuyerAccess) AttachCheckoutSession(sessionID string) error {
	if a.Status != BuyerAccessStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Checkout can only start for approved access")
	}
	if sessionID == "" {
		return shared.NewDomainError("INVALID_SESSION_ID", "Checkout session ID cannot be empty")
	}

	a.CheckoutSessionID = sessionID
	a.PaymentStatus = PaymentStatusPending
	a.Touch()
	a.IncrementVersion()

	return nil
}

// MarkPaid records the externally confirmed payment. This transition reacts
// to the payment webhook; the core never originates it.
func (a *BuyerAccess) MarkPaid(expiresAt *time.Time) error {
	if a.Status == BuyerAccessStatusRejected {
		return shared.NewDomainError("INVALID_STATE", "Rejected access cannot be paid")
	}
	if a.Status == BuyerAccessStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Access is already paid")
	}

	oldStatus := a.Status
	a.Status = BuyerAccessStatusPaid
	a.PaymentStatus = PaymentStatusSucceeded
	a.ExpiresAt = expiresAt
	a.Touch()
	a.IncrementVersion()

	a.AddDomainEvent(NewBuyerAccessStatusChangedEvent(a, oldStatus))

	return nil
}

// MarkPaymentFailed records a failed payment attempt without changing status
func (a *BuyerAccess) MarkPaymentFailed() {
	a.PaymentStatus = PaymentStatusFailed
	a.Touch()
	a.IncrementVersion()
}

// HasReadAccess reports whether the buyer may read the vault at the given
// instant: paid and not expired. Expiry is evaluated at read time.
func (a *BuyerAccess) HasReadAccess(now time.Time) bool {
	if a.Status != BuyerAccessStatusPaid {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

// IsExpired reports whether a paid access has run out
func (a *BuyerAccess) IsExpired(now time.Time) bool {
	return a.Status == BuyerAccessStatusPaid && a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}
