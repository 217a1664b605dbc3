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

// GormProfessionalRepository implements ProfessionalRepository using GORM
type GormProfessionalRepository struct {
	db *gorm.DB
}

// NewGormProfessionalRepository creates a new GormProfessionalRepository
func NewGormProfessionalRepository(db *gorm.DB) *GormProfessionalRepository {
	return &GormProfessionalRepository{db: db}
}

// FindByID finds a professional by its ID
func (r *GormProfessionalRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Professional, error) {
	var model models.ProfessionalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple professionals by their IDs
func (r *GormProfessionalRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]vault.Professional, error) {
	if len(ids) == 0 {
		return []vault.Professional{}, nil
	}

	var professionalModels []models.ProfessionalModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&professionalModels).Error; err != nil {
		return nil, err
	}

	professionals := make([]vault.Professional, len(professionalModels))
	for i, model := range professionalModels {
		professionals[i] = *model.ToDomain()
	}
	return professionals, nil
}

// FindByUserID finds the professional record linked to a user account
func (r *GormProfessionalRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vault.Professional, error) {
	var model models.ProfessionalModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}
