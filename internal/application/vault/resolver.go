package vault

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
)

// AccessResolver answers the three authorization questions of the vault:
// who may read a document, who may change its review status, and who may
// manage it. Every answer is computed from fresh repository reads so a
// revocation takes effect on the next request.
type AccessResolver struct {
	grantRepo        vault.AccessGrantRepository
	buyerAccessRepo  vault.BuyerAccessRepository
	professionalRepo vault.ProfessionalRepository
	propertyRepo     vault.PropertyRepository
	now              func() time.Time
}

// NewAccessResolver creates a new AccessResolver
func NewAccessResolver(
	grantRepo vault.AccessGrantRepository,
	buyerAccessRepo vault.BuyerAccessRepository,
	professionalRepo vault.ProfessionalRepository,
	propertyRepo vault.PropertyRepository,
) *AccessResolver {
	return &AccessResolver{
		grantRepo:        grantRepo,
		buyerAccessRepo:  buyerAccessRepo,
		professionalRepo: professionalRepo,
		propertyRepo:     propertyRepo,
		now:              time.Now,
	}
}

// CanReadDocument reports whether the user may read the document.
// Public documents are readable by anyone. Private documents are readable
// by the owner, by professionals holding an active vault access grant on
// the document's property, and by buyers with paid unexpired access.
func (r *AccessResolver) CanReadDocument(ctx context.Context, userID uuid.UUID, doc *vault.Document) (bool, error) {
	if doc.IsPublic {
		return true, nil
	}
	if doc.IsOwnedBy(userID) {
		return true, nil
	}
	// A document outside any property is visible to its owner only
	if doc.PropertyID == nil {
		return false, nil
	}
	return r.CanReadPropertyVault(ctx, userID, *doc.PropertyID)
}

// CanReadPropertyVault reports whether the user may read private documents
// of the given property's vault
func (r *AccessResolver) CanReadPropertyVault(ctx context.Context, userID uuid.UUID, propertyID uuid.UUID) (bool, error) {
	property, err := r.propertyRepo.FindByID(ctx, propertyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}
	if property != nil && property.IsOwnedBy(userID) {
		return true, nil
	}

	ok, err := r.hasActiveVaultGrant(ctx, userID, propertyID)
	if err != nil || ok {
		return ok, err
	}

	return r.hasPaidUnexpiredAccess(ctx, userID, propertyID)
}

// CanMutateDocumentStatus reports whether the user may approve or reject
// the document. Only professionals holding an active vault access grant on
// the document's property review documents; the owner does not review their
// own vault, and documents outside any property are never reviewed.
func (r *AccessResolver) CanMutateDocumentStatus(ctx context.Context, userID uuid.UUID, doc *vault.Document) (bool, error) {
	if doc.PropertyID == nil {
		return false, nil
	}
	return r.hasActiveVaultGrant(ctx, userID, *doc.PropertyID)
}

// CanManageDocument reports whether the user may rename, change visibility
// of, or delete the document. Only the owner manages a document.
func (r *AccessResolver) CanManageDocument(_ context.Context, userID uuid.UUID, doc *vault.Document) (bool, error) {
	return doc.IsOwnedBy(userID), nil
}

// hasActiveVaultGrant checks if the user acts as a professional holding an
// active vault access grant on the property
func (r *AccessResolver) hasActiveVaultGrant(ctx context.Context, userID uuid.UUID, propertyID uuid.UUID) (bool, error) {
	professional, err := r.professionalRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	relType := vault.RelationshipVaultAccess
	grants, err := r.grantRepo.FindActive(ctx, vault.ActiveGrantFilter{
		ProfessionalID:   &professional.ID,
		PropertyID:       &propertyID,
		RelationshipType: &relType,
	})
	if err != nil {
		return false, err
	}
	return len(grants) > 0, nil
}

// hasPaidUnexpiredAccess checks if the user holds paid vault access on the
// property that has not run out. Expiry is evaluated now, not persisted.
func (r *AccessResolver) hasPaidUnexpiredAccess(ctx context.Context, userID uuid.UUID, propertyID uuid.UUID) (bool, error) {
	access, err := r.buyerAccessRepo.FindByBuyerAndProperty(ctx, userID, propertyID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return access.HasReadAccess(r.now()), nil
}
