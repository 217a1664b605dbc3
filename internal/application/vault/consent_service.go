package vault

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
)

// ConsentService handles vault consent operations
type ConsentService struct {
	consentRepo  vault.ConsentRepository
	propertyRepo vault.PropertyRepository
}

// NewConsentService creates a new ConsentService
func NewConsentService(consentRepo vault.ConsentRepository, propertyRepo vault.PropertyRepository) *ConsentService {
	return &ConsentService{
		consentRepo:  consentRepo,
		propertyRepo: propertyRepo,
	}
}

// Accept records the user accepting the vault declarations for a property.
// Accepting twice is not an error: the original record is returned and
// flagged as pre-existing, keeping the audit trail append-only.
func (s *ConsentService) Accept(ctx context.Context, userID uuid.UUID, req AcceptConsentRequest) (*ConsentResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}

	existing, err := s.consentRepo.FindByUserAndProperty(ctx, userID, req.PropertyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		resp := ToConsentResponse(existing, true)
		return &resp, nil
	}

	consent, err := vault.NewConsentAcceptance(userID, req.PropertyID, vault.ConsentDeclarations{
		IsOwnerOrAuthorized:  req.IsOwnerOrAuthorized,
		DocumentsAreGenuine:  req.DocumentsAreGenuine,
		AcceptsSharing:       req.AcceptsSharing,
		AcceptsDataRetention: req.AcceptsDataRetention,
		AcceptsTerms:         req.AcceptsTerms,
	}, req.IPAddress, req.UserAgent, req.TermsVersion)
	if err != nil {
		return nil, err
	}

	if err := s.consentRepo.Create(ctx, consent); err != nil {
		// A concurrent acceptance wins the insert race; report it as the record
		if errors.Is(err, shared.ErrAlreadyExists) {
			winner, findErr := s.consentRepo.FindByUserAndProperty(ctx, userID, req.PropertyID)
			if findErr != nil {
				return nil, findErr
			}
			resp := ToConsentResponse(winner, true)
			return &resp, nil
		}
		return nil, err
	}

	resp := ToConsentResponse(consent, false)
	return &resp, nil
}

// Status reports whether the user has accepted the declarations for a property
func (s *ConsentService) Status(ctx context.Context, userID, propertyID uuid.UUID) (*ConsentStatusResponse, error) {
	accepted, err := s.consentRepo.ExistsForUserAndProperty(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	return &ConsentStatusResponse{
		PropertyID: propertyID,
		Accepted:   accepted,
	}, nil
}
