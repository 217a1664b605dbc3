package vault

import (
	"strings"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// MaxDocumentFileSize is the maximum allowed file size (50MB)
const MaxDocumentFileSize = 50 * 1024 * 1024

// DocumentStatus represents the review status of a vault document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// IsValid checks if the document status is valid
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusApproved, DocumentStatusRejected:
		return true
	default:
		return false
	}
}

// Document represents a file stored in a property's digital vault.
// Visibility of a private document is derived from the set of active
// grants for its property at read time, never denormalized onto the row.
type Document struct {
	shared.BaseAggregateRoot
	OwnerUserID uuid.UUID      // User who owns (and uploaded) the document
	PropertyID  *uuid.UUID     // Optional: a document may exist outside any property
	Name        string         // Display name, e.g. "Caderneta.pdf"
	StorageKey  string         // Key in object storage
	FileSize    int64          // File size in bytes
	ContentType string         // MIME type
	IsPublic    bool           // Public documents are readable by anyone
	Status      DocumentStatus // Review status set by a professional
}

// NewDocument creates a new vault document in pending status
func NewDocument(
	ownerUserID uuid.UUID,
	propertyID *uuid.UUID,
	name string,
	storageKey string,
	fileSize int64,
	contentType string,
	isPublic bool,
) (*Document, error) {
	if ownerUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER_ID", "Owner user ID cannot be empty")
	}
	if propertyID != nil && *propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be the nil UUID")
	}
	if err := validateDocumentName(name); err != nil {
		return nil, err
	}
	if err := validateStorageKey(storageKey); err != nil {
		return nil, err
	}
	if err := validateFileSize(fileSize); err != nil {
		return nil, err
	}
	if err := validateContentType(contentType); err != nil {
		return nil, err
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OwnerUserID:       ownerUserID,
		PropertyID:        propertyID,
		Name:              name,
		StorageKey:        storageKey,
		FileSize:          fileSize,
		ContentType:       contentType,
		IsPublic:          isPublic,
		Status:            DocumentStatusPending,
	}

	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))

	return doc, nil
}

// Approve marks the document as reviewed and approved
func (d *Document) Approve() error {
	if d.Status == DocumentStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Document is already approved")
	}

	oldStatus := d.Status
	d.Status = DocumentStatusApproved
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentStatusChangedEvent(d, oldStatus))

	return nil
}

// Reject marks the document as reviewed and rejected
func (d *Document) Reject() error {
	if d.Status == DocumentStatusRejected {
		return shared.NewDomainError("ALREADY_REJECTED", "Document is already rejected")
	}

	oldStatus := d.Status
	d.Status = DocumentStatusRejected
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentStatusChangedEvent(d, oldStatus))

	return nil
}

// Rename changes the document's display name
func (d *Document) Rename(name string) error {
	if err := validateDocumentName(name); err != nil {
		return err
	}

	d.Name = name
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentUpdatedEvent(d))

	return nil
}

// SetPublic changes the document's visibility flag
func (d *Document) SetPublic(public bool) error {
	if d.IsPublic == public {
		return shared.NewDomainError("VISIBILITY_UNCHANGED", "Document visibility is already set to the requested value")
	}

	d.IsPublic = public
	d.Touch()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentUpdatedEvent(d))

	return nil
}

// IsPending returns true if the document has not been reviewed
func (d *Document) IsPending() bool {
	return d.Status == DocumentStatusPending
}

// IsApproved returns true if the document was approved by a professional
func (d *Document) IsApproved() bool {
	return d.Status == DocumentStatusApproved
}

// IsRejected returns true if the document was rejected by a professional
func (d *Document) IsRejected() bool {
	return d.Status == DocumentStatusRejected
}

// IsOwnedBy returns true if the given user owns the document
func (d *Document) IsOwnedBy(userID uuid.UUID) bool {
	return d.OwnerUserID == userID
}

// validation functions

func validateDocumentName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Document name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Document name cannot exceed 255 characters")
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return shared.NewDomainError("INVALID_NAME", "Document name contains invalid characters")
		}
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return shared.NewDomainError("INVALID_NAME", "Document name cannot contain path separators")
	}
	return nil
}

func validateStorageKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot exceed 500 characters")
	}
	// Prevent path traversal and absolute keys
	if strings.Contains(key, "..") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot contain path traversal sequences")
	}
	if strings.HasPrefix(key, "/") {
		return shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key must be a relative path")
	}
	return nil
}

func validateFileSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_FILE_SIZE", "File size must be greater than 0")
	}
	if size > MaxDocumentFileSize {
		return shared.NewDomainError("FILE_TOO_LARGE", "File size cannot exceed 50MB")
	}
	return nil
}

func validateContentType(contentType string) error {
	if contentType == "" {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be empty")
	}
	if len(contentType) > 100 {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot exceed 100 characters")
	}
	if !strings.Contains(contentType, "/") ||
		strings.HasPrefix(contentType, "/") || strings.HasSuffix(contentType, "/") {
		return shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be in type/subtype format")
	}
	return nil
}
