package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// ConsentDeclarations are the five statements a user must accept before
// the vault is shown for a property
type ConsentDeclarations struct {
	IsOwnerOrAuthorized  bool // Declares ownership of, or authority over, the property
	DocumentsAreGenuine  bool // Declares uploaded documents are authentic
	AcceptsSharing       bool // Accepts sharing with granted professionals and paid buyers
	AcceptsDataRetention bool // Accepts retention of documents and audit records
	AcceptsTerms         bool // Accepts the vault terms of service
}

// AllAccepted reports whether every declaration was checked
func (d ConsentDeclarations) AllAccepted() bool {
	return d.IsOwnerOrAuthorized &&
		d.DocumentsAreGenuine &&
		d.AcceptsSharing &&
		d.AcceptsDataRetention &&
		d.AcceptsTerms
}

// ConsentAcceptance is an append-only audit record of a user accepting the
// vault declarations for one property. It is created once per
// (user, property) pair and never updated or deleted.
type ConsentAcceptance struct {
	shared.BaseEntity
	UserID       uuid.UUID
	PropertyID   uuid.UUID
	Declarations ConsentDeclarations
	IPAddress    string
	UserAgent    string
	TermsVersion string
}

// NewConsentAcceptance creates a new consent acceptance record
func NewConsentAcceptance(
	userID, propertyID uuid.UUID,
	declarations ConsentDeclarations,
	ipAddress, userAgent, termsVersion string,
) (*ConsentAcceptance, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if !declarations.AllAccepted() {
		return nil, shared.NewDomainError("DECLARATIONS_INCOMPLETE", "All five declarations must be accepted")
	}
	if termsVersion == "" {
		return nil, shared.NewDomainError("INVALID_TERMS_VERSION", "Terms version cannot be empty")
	}

	return &ConsentAcceptance{
		BaseEntity:   shared.NewBaseEntity(),
		UserID:       userID,
		PropertyID:   propertyID,
		Declarations: declarations,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		TermsVersion: termsVersion,
	}, nil
}

// ConsentRepository defines the interface for consent acceptance persistence.
// Rows are append-only: there is no update or delete operation.
type ConsentRepository interface {
	// FindByUserAndProperty finds the consent record for a (user, property)
	// pair, or shared.ErrNotFound
	FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*ConsentAcceptance, error)

	// ExistsForUserAndProperty reports whether consent was given
	ExistsForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)

	// Create inserts a new consent record
	Create(ctx context.Context, consent *ConsentAcceptance) error
}
