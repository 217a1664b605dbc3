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

// GormBuyerAccessRepository implements BuyerAccessRepository using GORM
type GormBuyerAccessRepository struct {
	db *gorm.DB
}

// NewGormBuyerAccessRepository creates a new GormBuyerAccessRepository
func NewGormBuyerAccessRepository(db *gorm.DB) *GormBuyerAccessRepository {
	return &GormBuyerAccessRepository{db: db}
}

// FindByID finds a buyer access record by its ID
func (r *GormBuyerAccessRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.BuyerAccess, error) {
	var model models.BuyerAccessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyerAndProperty finds the buyer's most recent access record for a property
func (r *GormBuyerAccessRepository) FindByBuyerAndProperty(ctx context.Context, buyerID, propertyID uuid.UUID) (*vault.BuyerAccess, error) {
	var model models.BuyerAccessModel
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND property_id = ?", buyerID, propertyID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCheckoutSession finds the access record attached to a payment session
func (r *GormBuyerAccessRepository) FindByCheckoutSession(ctx context.Context, sessionID string) (*vault.BuyerAccess, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION_ID", "Checkout session ID cannot be empty")
	}
	var model models.BuyerAccessModel
	if err := r.db.WithContext(ctx).
		Where("checkout_session_id = ?", sessionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPaidByProperty finds all paid access rows for a property regardless
// of expiry. Expired buyers keep receiving vault notifications.
func (r *GormBuyerAccessRepository) FindPaidByProperty(ctx context.Context, propertyID uuid.UUID) ([]vault.BuyerAccess, error) {
	return r.findAll(r.db.WithContext(ctx).
		Where("property_id = ? AND status = ?", propertyID, vault.BuyerAccessStatusPaid))
}

// FindByProperty finds all access rows for a property
func (r *GormBuyerAccessRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]vault.BuyerAccess, error) {
	return r.findAll(r.db.WithContext(ctx).Where("property_id = ?", propertyID))
}

// FindByBuyer finds all access rows for a buyer
func (r *GormBuyerAccessRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]vault.BuyerAccess, error) {
	return r.findAll(r.db.WithContext(ctx).Where("buyer_id = ?", buyerID))
}

// Save creates or updates a buyer access record
func (r *GormBuyerAccessRepository) Save(ctx context.Context, access *vault.BuyerAccess) error {
	model := models.BuyerAccessModelFromDomain(access)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *GormBuyerAccessRepository) findAll(query *gorm.DB) ([]vault.BuyerAccess, error) {
	var accessModels []models.BuyerAccessModel
	if err := query.Order("created_at DESC").Find(&accessModels).Error; err != nil {
		return nil, err
	}

	rows := make([]vault.BuyerAccess, len(accessModels))
	for i, model := range accessModels {
		rows[i] = *model.ToDomain()
	}
	return rows, nil
}
