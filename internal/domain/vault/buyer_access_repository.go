package vault

import (
	"context"

	"github.com/google/uuid"
)

// BuyerAccessRepository defines the interface for buyer vault access persistence
type BuyerAccessRepository interface {
	// FindByID finds a buyer access record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BuyerAccess, error)

	// FindByBuyerAndProperty finds the buyer's access record for a property,
	// preferring the most recent one
	FindByBuyerAndProperty(ctx context.Context, buyerID, propertyID uuid.UUID) (*BuyerAccess, error)

	// FindByCheckoutSession finds the access record attached to a payment
	// collaborator session
	FindByCheckoutSession(ctx context.Context, sessionID string) (*BuyerAccess, error)

	// FindPaidByProperty finds all paid access rows for a property,
	// regardless of expiry
	FindPaidByProperty(ctx context.Context, propertyID uuid.UUID) ([]BuyerAccess, error)

	// FindByProperty finds all access rows for a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]BuyerAccess, error)

	// FindByBuyer finds all access rows for a buyer
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]BuyerAccess, error)

	// Save creates or updates a buyer access record
	Save(ctx context.Context, access *BuyerAccess) error
}
