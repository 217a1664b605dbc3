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

// GormConsentRepository implements ConsentRepository using GORM.
// Consent rows are append-only; there is no update or delete path.
type GormConsentRepository struct {
	db *gorm.DB
}

// NewGormConsentRepository creates a new GormConsentRepository
func NewGormConsentRepository(db *gorm.DB) *GormConsentRepository {
	return &GormConsentRepository{db: db}
}

// FindByUserAndProperty finds the consent record for a (user, property) pair
func (r *GormConsentRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*vault.ConsentAcceptance, error) {
	var model models.ConsentAcceptanceModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsForUserAndProperty reports whether consent was given
func (r *GormConsentRepository) ExistsForUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ConsentAcceptanceModel{}).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new consent record. The unique index on
// (user_id, property_id) turns a concurrent duplicate into ErrAlreadyExists.
func (r *GormConsentRepository) Create(ctx context.Context, consent *vault.ConsentAcceptance) error {
	model := models.ConsentAcceptanceModelFromDomain(consent)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}
