package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"github.com/vivenda/backend/internal/infrastructure/persistence/models"
)

// GormAccessGrantRepository implements AccessGrantRepository using GORM.
// Grants are never physically deleted; revocation flips is_active.
type GormAccessGrantRepository struct {
	db *gorm.DB
}

// NewGormAccessGrantRepository creates a new GormAccessGrantRepository
func NewGormAccessGrantRepository(db *gorm.DB) *GormAccessGrantRepository {
	return &GormAccessGrantRepository{db: db}
}

// FindByID finds a grant by its ID
func (r *GormAccessGrantRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.AccessGrant, error) {
	var model models.AccessGrantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active grants matching the filter
func (r *GormAccessGrantRepository) FindActive(ctx context.Context, filter vault.ActiveGrantFilter) ([]vault.AccessGrant, error) {
	query := r.db.WithContext(ctx).Model(&models.AccessGrantModel{}).
		Where("is_active = ?", true)

	if filter.ProfessionalID != nil {
		query = query.Where("professional_id = ?", *filter.ProfessionalID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.RelationshipType != nil {
		query = query.Where("relationship_type = ?", *filter.RelationshipType)
	}

	var grantModels []models.AccessGrantModel
	if err := query.Order("created_at DESC").Find(&grantModels).Error; err != nil {
		return nil, err
	}

	grants := make([]vault.AccessGrant, len(grantModels))
	for i, model := range grantModels {
		grants[i] = *model.ToDomain()
	}
	return grants, nil
}

// FindActiveForScope finds the single active grant for the exact
// (professional, user, property, type) tuple
func (r *GormAccessGrantRepository) FindActiveForScope(
	ctx context.Context,
	professionalID, userID uuid.UUID,
	propertyID *uuid.UUID,
	relationshipType vault.RelationshipType,
) (*vault.AccessGrant, error) {
	var model models.AccessGrantModel
	if err := r.scopeQuery(ctx, professionalID, userID, propertyID, relationshipType).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsActiveForScope reports whether an active grant exists for the
// exact (professional, user, property, type) tuple
func (r *GormAccessGrantRepository) ExistsActiveForScope(
	ctx context.Context,
	professionalID, userID uuid.UUID,
	propertyID *uuid.UUID,
	relationshipType vault.RelationshipType,
) (bool, error) {
	var count int64
	if err := r.scopeQuery(ctx, professionalID, userID, propertyID, relationshipType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a grant. The active-scope partial unique index
// surfaces concurrent duplicate grants as shared.ErrAlreadyExists.
func (r *GormAccessGrantRepository) Save(ctx context.Context, grant *vault.AccessGrant) error {
	model := models.AccessGrantModelFromDomain(grant)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormAccessGrantRepository) scopeQuery(
	ctx context.Context,
	professionalID, userID uuid.UUID,
	propertyID *uuid.UUID,
	relationshipType vault.RelationshipType,
) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.AccessGrantModel{}).
		Where("is_active = ? AND professional_id = ? AND user_id = ? AND relationship_type = ?",
			true, professionalID, userID, relationshipType)

	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}
	return query
}
