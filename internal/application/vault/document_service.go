package vault

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
	"go.uber.org/zap"
)

// Presigned URL lifetimes
const (
	uploadURLTTL   = 15 * time.Minute
	downloadURLTTL = 5 * time.Minute
)

// DocumentService handles vault document operations
type DocumentService struct {
	documentRepo vault.DocumentRepository
	propertyRepo vault.PropertyRepository
	consentRepo  vault.ConsentRepository
	resolver     *AccessResolver
	storage      FileStorage
	notifier     StakeholderNotifier
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo vault.DocumentRepository,
	propertyRepo vault.PropertyRepository,
	consentRepo vault.ConsentRepository,
	resolver *AccessResolver,
	storage FileStorage,
	notifier StakeholderNotifier,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		propertyRepo: propertyRepo,
		consentRepo:  consentRepo,
		resolver:     resolver,
		storage:      storage,
		notifier:     notifier,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// Upload registers a new document and returns a presigned URL for the file
// bytes. Documents attached to a property require the uploader to be the
// property owner and to have accepted the vault declarations.
func (s *DocumentService) Upload(ctx context.Context, userID uuid.UUID, req UploadDocumentRequest) (*UploadDocumentResponse, error) {
	if req.PropertyID != nil {
		property, err := s.propertyRepo.FindByID(ctx, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if !property.IsOwnedBy(userID) {
			return nil, shared.ErrForbidden
		}

		accepted, err := s.consentRepo.ExistsForUserAndProperty(ctx, userID, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if !accepted {
			return nil, shared.ErrConsentRequired
		}
	}

	storageKey := buildStorageKey(userID, req.PropertyID, req.Name)

	doc, err := vault.NewDocument(userID, req.PropertyID, req.Name, storageKey, req.FileSize, req.ContentType, req.IsPublic)
	if err != nil {
		return nil, err
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	uploadURL, err := s.storage.PresignUpload(ctx, doc.StorageKey, doc.ContentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)
	if err := s.notifier.NotifyVaultAction(ctx, userID, doc, notification.VaultActionUpload); err != nil {
		s.logger.Warn("stakeholder notification failed", zap.Error(err))
	}

	return &UploadDocumentResponse{
		Document:  ToDocumentResponse(doc),
		UploadURL: uploadURL,
	}, nil
}

// GetByID returns a document the user is allowed to read
func (s *DocumentService) GetByID(ctx context.Context, userID, docID uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	ok, err := s.resolver.CanReadDocument(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrForbidden
	}

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// DownloadURL returns a short-lived URL for the document's file
func (s *DocumentService) DownloadURL(ctx context.Context, userID, docID uuid.UUID) (*DownloadURLResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	ok, err := s.resolver.CanReadDocument(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrForbidden
	}

	url, err := s.storage.PresignDownload(ctx, doc.StorageKey, downloadURLTTL)
	if err != nil {
		return nil, err
	}

	return &DownloadURLResponse{
		URL:       url,
		ExpiresAt: time.Now().Add(downloadURLTTL),
	}, nil
}

// ListByProperty lists the property's documents visible to the caller.
// Vault readers see every document; everyone else sees public ones only.
func (s *DocumentService) ListByProperty(ctx context.Context, userID, propertyID uuid.UUID, filter shared.Filter) ([]DocumentResponse, error) {
	canReadAll, err := s.resolver.CanReadPropertyVault(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}

	docs, err := s.documentRepo.FindByProperty(ctx, propertyID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		if !canReadAll && !docs[i].IsPublic {
			continue
		}
		responses = append(responses, ToDocumentResponse(&docs[i]))
	}
	return responses, nil
}

// ListOwn lists all documents the user owns
func (s *DocumentService) ListOwn(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]DocumentResponse, error) {
	docs, err := s.documentRepo.FindByOwner(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = ToDocumentResponse(&docs[i])
	}
	return responses, nil
}

// Update renames a document or changes its visibility. Owner only.
func (s *DocumentService) Update(ctx context.Context, userID, docID uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	ok, err := s.resolver.CanManageDocument(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrForbidden
	}

	changed := false
	if req.Name != nil && *req.Name != doc.Name {
		if err := doc.Rename(*req.Name); err != nil {
			return nil, err
		}
		changed = true
	}
	if req.IsPublic != nil && *req.IsPublic != doc.IsPublic {
		if err := doc.SetPublic(*req.IsPublic); err != nil {
			return nil, err
		}
		changed = true
	}

	if changed {
		if err := s.documentRepo.Save(ctx, doc); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, doc)
		if err := s.notifier.NotifyVaultAction(ctx, userID, doc, notification.VaultActionUpdated); err != nil {
			s.logger.Warn("stakeholder notification failed", zap.Error(err))
		}
	}

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Approve marks a document as reviewed and approved. Reviewer only.
func (s *DocumentService) Approve(ctx context.Context, userID, docID uuid.UUID) (*DocumentResponse, error) {
	return s.mutateStatus(ctx, userID, docID, (*vault.Document).Approve, notification.VaultActionValidated)
}

// Reject marks a document as reviewed and rejected. Reviewer only.
func (s *DocumentService) Reject(ctx context.Context, userID, docID uuid.UUID) (*DocumentResponse, error) {
	return s.mutateStatus(ctx, userID, docID, (*vault.Document).Reject, notification.VaultActionRejectedDoc)
}

func (s *DocumentService) mutateStatus(ctx context.Context, userID, docID uuid.UUID, transition func(*vault.Document) error, action notification.VaultAction) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	ok, err := s.resolver.CanMutateDocumentStatus(ctx, userID, doc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrForbidden
	}

	if err := transition(doc); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc)
	if err := s.notifier.NotifyVaultAction(ctx, userID, doc, action); err != nil {
		s.logger.Warn("stakeholder notification failed", zap.Error(err))
	}

	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// Delete removes a document and its stored file. Owner only.
func (s *DocumentService) Delete(ctx context.Context, userID, docID uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, docID)
	if err != nil {
		return err
	}

	ok, err := s.resolver.CanManageDocument(ctx, userID, doc)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}

	if err := s.documentRepo.Delete(ctx, docID); err != nil {
		return err
	}

	// The row is gone; a leaked object is cleanup work, not a failure
	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_key", doc.StorageKey),
			zap.Error(err))
	}

	doc.AddDomainEvent(vault.NewDocumentDeletedEvent(doc))
	s.publishEvents(ctx, doc)
	if err := s.notifier.NotifyVaultAction(ctx, userID, doc, notification.VaultActionDelete); err != nil {
		s.logger.Warn("stakeholder notification failed", zap.Error(err))
	}

	return nil
}

// publishEvents drains the aggregate's pending events onto the bus.
// Publication is best effort.
func (s *DocumentService) publishEvents(ctx context.Context, doc *vault.Document) {
	for _, event := range doc.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	doc.ClearDomainEvents()
}

// buildStorageKey derives a collision-free object key. The original
// extension is kept so content sniffing keeps working downstream.
func buildStorageKey(ownerID uuid.UUID, propertyID *uuid.UUID, name string) string {
	scope := "users/" + ownerID.String()
	if propertyID != nil {
		scope = "properties/" + propertyID.String()
	}
	return fmt.Sprintf("vault/%s/%s%s", scope, uuid.New().String(), path.Ext(name))
}
