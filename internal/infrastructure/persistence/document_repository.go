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

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*vault.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOwner finds all documents owned by a user
func (r *GormDocumentRepository) FindByOwner(ctx context.Context, ownerUserID uuid.UUID, filter shared.Filter) ([]vault.Document, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).
			Where("owner_user_id = ?", ownerUserID),
		filter,
	)
	return r.findAll(query)
}

// FindByProperty finds all documents attached to a property
func (r *GormDocumentRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]vault.Document, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.DocumentModel{}).
			Where("property_id = ?", propertyID),
		filter,
	)
	return r.findAll(query)
}

// CountByProperty counts documents attached to a property
func (r *GormDocumentRepository) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	return count, err
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *vault.Document) error {
	model := models.DocumentModelFromDomain(doc)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a document
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormDocumentRepository) findAll(query *gorm.DB) ([]vault.Document, error) {
	var documentModels []models.DocumentModel
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]vault.Document, len(documentModels))
	for i, model := range documentModels {
		docs[i] = *model.ToDomain()
	}
	return docs, nil
}

// applyFilter applies search, field filters, pagination and ordering
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "is_public":
			query = query.Where("is_public = ?", value)
		case "content_type":
			query = query.Where("content_type = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}
