package vault

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivenda/backend/internal/domain/vault"
)

// =============================================================================
// Document DTOs
// =============================================================================

// UploadDocumentRequest represents a request to register a vault document
type UploadDocumentRequest struct {
	PropertyID  *uuid.UUID `json:"property_id"`
	Name        string     `json:"name" binding:"required,min=1,max=255"`
	FileSize    int64      `json:"file_size" binding:"required,min=1"`
	ContentType string     `json:"content_type" binding:"required,max=100"`
	IsPublic    bool       `json:"is_public"`
}

// UpdateDocumentRequest represents a request to update a vault document
type UpdateDocumentRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	IsPublic *bool   `json:"is_public"`
}

// DocumentResponse represents a vault document in API responses
type DocumentResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerUserID uuid.UUID  `json:"owner_user_id"`
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	Name        string     `json:"name"`
	FileSize    int64      `json:"file_size"`
	ContentType string     `json:"content_type"`
	IsPublic    bool       `json:"is_public"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int        `json:"version"`
}

// UploadDocumentResponse carries the registered document plus the URL the
// client must PUT the file bytes to
type UploadDocumentResponse struct {
	Document  DocumentResponse `json:"document"`
	UploadURL string           `json:"upload_url"`
}

// DownloadURLResponse carries a short-lived download URL
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(doc *vault.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		OwnerUserID: doc.OwnerUserID,
		PropertyID:  doc.PropertyID,
		Name:        doc.Name,
		FileSize:    doc.FileSize,
		ContentType: doc.ContentType,
		IsPublic:    doc.IsPublic,
		Status:      string(doc.Status),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Version:     doc.Version,
	}
}

// =============================================================================
// Access grant DTOs
// =============================================================================

// GrantAccessRequest represents a request to create an access grant
type GrantAccessRequest struct {
	RelationshipType string     `json:"relationship_type" binding:"required,oneof=contact_accepted vault_access property_assignment"`
	ProfessionalID   uuid.UUID  `json:"professional_id" binding:"required"`
	PropertyID       *uuid.UUID `json:"property_id"`
}

// GrantResponse represents an access grant in API responses
type GrantResponse struct {
	ID               uuid.UUID  `json:"id"`
	RelationshipType string     `json:"relationship_type"`
	ProfessionalID   uuid.UUID  `json:"professional_id"`
	UserID           uuid.UUID  `json:"user_id"`
	PropertyID       *uuid.UUID `json:"property_id,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToGrantResponse converts a domain grant to a response DTO
func ToGrantResponse(grant *vault.AccessGrant) GrantResponse {
	return GrantResponse{
		ID:               grant.ID,
		RelationshipType: string(grant.RelationshipType),
		ProfessionalID:   grant.ProfessionalID,
		UserID:           grant.UserID,
		PropertyID:       grant.PropertyID,
		IsActive:         grant.IsActive,
		CreatedAt:        grant.CreatedAt,
		UpdatedAt:        grant.UpdatedAt,
	}
}

// =============================================================================
// Buyer access DTOs
// =============================================================================

// RequestBuyerAccessRequest represents a buyer asking for vault access
type RequestBuyerAccessRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
}

// BuyerAccessResponse represents a buyer access record in API responses
type BuyerAccessResponse struct {
	ID            uuid.UUID       `json:"id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Price         decimal.Decimal `json:"price"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CheckoutResponse carries the payment collaborator's checkout URL
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// ToBuyerAccessResponse converts a domain buyer access to a response DTO
func ToBuyerAccessResponse(access *vault.BuyerAccess) BuyerAccessResponse {
	return BuyerAccessResponse{
		ID:            access.ID,
		BuyerID:       access.BuyerID,
		PropertyID:    access.PropertyID,
		Status:        string(access.Status),
		PaymentStatus: string(access.PaymentStatus),
		Price:         access.Price,
		ExpiresAt:     access.ExpiresAt,
		CreatedAt:     access.CreatedAt,
		UpdatedAt:     access.UpdatedAt,
	}
}

// =============================================================================
// Consent DTOs
// =============================================================================

// AcceptConsentRequest represents a user accepting the vault declarations
// for one property
type AcceptConsentRequest struct {
	PropertyID           uuid.UUID `json:"property_id" binding:"required"`
	IsOwnerOrAuthorized  bool      `json:"is_owner_or_authorized" binding:"required"`
	DocumentsAreGenuine  bool      `json:"documents_are_genuine" binding:"required"`
	AcceptsSharing       bool      `json:"accepts_sharing" binding:"required"`
	AcceptsDataRetention bool      `json:"accepts_data_retention" binding:"required"`
	AcceptsTerms         bool      `json:"accepts_terms" binding:"required"`
	TermsVersion         string    `json:"terms_version" binding:"required,max=50"`
	IPAddress            string    `json:"-"` // Set from the request, not the body
	UserAgent            string    `json:"-"`
}

// ConsentResponse represents a consent record in API responses
type ConsentResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	PropertyID   uuid.UUID `json:"property_id"`
	TermsVersion string    `json:"terms_version"`
	AcceptedAt   time.Time `json:"accepted_at"`
	PreExisting  bool      `json:"pre_existing"`
}

// ConsentStatusResponse reports whether consent was given for a property
type ConsentStatusResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	Accepted   bool      `json:"accepted"`
}

// ToConsentResponse converts a domain consent record to a response DTO
func ToConsentResponse(consent *vault.ConsentAcceptance, preExisting bool) ConsentResponse {
	return ConsentResponse{
		ID:           consent.ID,
		UserID:       consent.UserID,
		PropertyID:   consent.PropertyID,
		TermsVersion: consent.TermsVersion,
		AcceptedAt:   consent.CreatedAt,
		PreExisting:  preExisting,
	}
}
