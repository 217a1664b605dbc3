package vault

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
)

// GrantService handles access grant operations
type GrantService struct {
	grantRepo        vault.AccessGrantRepository
	professionalRepo vault.ProfessionalRepository
	propertyRepo     vault.PropertyRepository
	eventBus         shared.EventPublisher
	logger           *zap.Logger
}

// NewGrantService creates a new GrantService
func NewGrantService(
	grantRepo vault.AccessGrantRepository,
	professionalRepo vault.ProfessionalRepository,
	propertyRepo vault.PropertyRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *GrantService {
	return &GrantService{
		grantRepo:        grantRepo,
		professionalRepo: professionalRepo,
		propertyRepo:     propertyRepo,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// Grant creates an access grant from the user to a professional. Granting
// is idempotent: if an active grant already covers the exact scope, that
// grant is returned instead of a duplicate being created.
func (s *GrantService) Grant(ctx context.Context, userID uuid.UUID, req GrantAccessRequest) (*GrantResponse, error) {
	relType := vault.RelationshipType(req.RelationshipType)

	// The professional must exist before anything is granted to it
	if _, err := s.professionalRepo.FindByID(ctx, req.ProfessionalID); err != nil {
		return nil, err
	}

	// Property-scoped grants can only be issued by the property owner
	if req.PropertyID != nil {
		property, err := s.propertyRepo.FindByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if !property.IsOwnedBy(userID) {
			return nil, shared.ErrForbidden
		}
	}

	existing, err := s.grantRepo.FindActiveForScope(ctx, req.ProfessionalID, userID, req.PropertyID, relType)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		resp := ToGrantResponse(existing)
		return &resp, nil
	}

	grant, err := vault.NewAccessGrant(relType, req.ProfessionalID, userID, req.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := s.grantRepo.Save(ctx, grant); err != nil {
		// A concurrent duplicate loses the insert race; return the winner
		if errors.Is(err, shared.ErrAlreadyExists) {
			winner, findErr := s.grantRepo.FindActiveForScope(ctx, req.ProfessionalID, userID, req.PropertyID, relType)
			if findErr != nil {
				return nil, findErr
			}
			resp := ToGrantResponse(winner)
			return &resp, nil
		}
		return nil, err
	}

	s.publishEvents(ctx, grant)

	resp := ToGrantResponse(grant)
	return &resp, nil
}

// Revoke deactivates a grant. Only the grantor may revoke; the row stays
// behind as an audit record.
func (s *GrantService) Revoke(ctx context.Context, userID, grantID uuid.UUID) error {
	grant, err := s.grantRepo.FindByID(ctx, grantID)
	if err != nil {
		return err
	}

	if grant.UserID != userID {
		return shared.ErrForbidden
	}

	if err := grant.Revoke(); err != nil {
		return err
	}

	if err := s.grantRepo.Save(ctx, grant); err != nil {
		return err
	}

	s.publishEvents(ctx, grant)

	return nil
}

// ListByUser lists the user's active grants as grantor
func (s *GrantService) ListByUser(ctx context.Context, userID uuid.UUID) ([]GrantResponse, error) {
	grants, err := s.grantRepo.FindActive(ctx, vault.ActiveGrantFilter{UserID: &userID})
	if err != nil {
		return nil, err
	}
	return toGrantResponses(grants), nil
}

// ListByProfessional lists the active grants held by the professional
// linked to the calling user
func (s *GrantService) ListByProfessional(ctx context.Context, userID uuid.UUID) ([]GrantResponse, error) {
	professional, err := s.professionalRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	grants, err := s.grantRepo.FindActive(ctx, vault.ActiveGrantFilter{ProfessionalID: &professional.ID})
	if err != nil {
		return nil, err
	}
	return toGrantResponses(grants), nil
}

// ListByProperty lists the active grants scoped to a property. Owner only.
func (s *GrantService) ListByProperty(ctx context.Context, userID, propertyID uuid.UUID) ([]GrantResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}

	grants, err := s.grantRepo.FindActive(ctx, vault.ActiveGrantFilter{PropertyID: &propertyID})
	if err != nil {
		return nil, err
	}
	return toGrantResponses(grants), nil
}

func (s *GrantService) publishEvents(ctx context.Context, grant *vault.AccessGrant) {
	for _, event := range grant.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	grant.ClearDomainEvents()
}

func toGrantResponses(grants []vault.AccessGrant) []GrantResponse {
	responses := make([]GrantResponse, len(grants))
	for i := range grants {
		responses[i] = ToGrantResponse(&grants[i])
	}
	return responses
}
