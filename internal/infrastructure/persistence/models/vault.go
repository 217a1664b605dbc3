package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vivenda/backend/internal/domain/vault"
)

// DocumentModel is the persistence model for the vault Document aggregate.
type DocumentModel struct {
	AggregateModel
	OwnerUserID uuid.UUID            `gorm:"type:uuid;not null;index"`
	PropertyID  *uuid.UUID           `gorm:"type:uuid;index"`
	Name        string               `gorm:"type:varchar(255);not null"`
	StorageKey  string               `gorm:"type:varchar(500);not null;uniqueIndex"`
	FileSize    int64                `gorm:"not null"`
	ContentType string               `gorm:"type:varchar(255);not null"`
	IsPublic    bool                 `gorm:"not null;default:false"`
	Status      vault.DocumentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "vault_documents"
}

// ToDomain converts the persistence model to a domain Document.
func (m *DocumentModel) ToDomain() *vault.Document {
	doc := &vault.Document{
		OwnerUserID: m.OwnerUserID,
		PropertyID:  m.PropertyID,
		Name:        m.Name,
		StorageKey:  m.StorageKey,
		FileSize:    m.FileSize,
		ContentType: m.ContentType,
		IsPublic:    m.IsPublic,
		Status:      m.Status,
	}
	m.PopulateAggregateRoot(&doc.BaseAggregateRoot)
	return doc
}

// FromDomain populates the persistence model from a domain Document.
func (m *DocumentModel) FromDomain(d *vault.Document) {
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	m.OwnerUserID = d.OwnerUserID
	m.PropertyID = d.PropertyID
	m.Name = d.Name
	m.StorageKey = d.StorageKey
	m.FileSize = d.FileSize
	m.ContentType = d.ContentType
	m.IsPublic = d.IsPublic
	m.Status = d.Status
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *vault.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// AccessGrantModel is the persistence model for the AccessGrant aggregate.
// Revoked rows stay in the table; the partial unique index on active rows
// is created by migrations, not by GORM tags.
type AccessGrantModel struct {
	AggregateModel
	RelationshipType vault.RelationshipType `gorm:"type:varchar(30);not null;index"`
	ProfessionalID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	PropertyID       *uuid.UUID             `gorm:"type:uuid;index"`
	IsActive         bool                   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (AccessGrantModel) TableName() string {
	return "access_grants"
}

// ToDomain converts the persistence model to a domain AccessGrant.
func (m *AccessGrantModel) ToDomain() *vault.AccessGrant {
	grant := &vault.AccessGrant{
		RelationshipType: m.RelationshipType,
		ProfessionalID:   m.ProfessionalID,
		UserID:           m.UserID,
		PropertyID:       m.PropertyID,
		IsActive:         m.IsActive,
	}
	m.PopulateAggregateRoot(&grant.BaseAggregateRoot)
	return grant
}

// FromDomain populates the persistence model from a domain AccessGrant.
func (m *AccessGrantModel) FromDomain(g *vault.AccessGrant) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.RelationshipType = g.RelationshipType
	m.ProfessionalID = g.ProfessionalID
	m.UserID = g.UserID
	m.PropertyID = g.PropertyID
	m.IsActive = g.IsActive
}

// AccessGrantModelFromDomain creates a new persistence model from a domain AccessGrant.
func AccessGrantModelFromDomain(g *vault.AccessGrant) *AccessGrantModel {
	m := &AccessGrantModel{}
	m.FromDomain(g)
	return m
}

// BuyerAccessModel is the persistence model for the BuyerAccess aggregate.
type BuyerAccessModel struct {
	AggregateModel
	BuyerID           uuid.UUID               `gorm:"type:uuid;not null;index:idx_buyer_access_buyer_property,priority:1"`
	PropertyID        uuid.UUID               `gorm:"type:uuid;not null;index:idx_buyer_access_buyer_property,priority:2;index"`
	Status            vault.BuyerAccessStatus `gorm:"type:varchar(20);not null;default:'requested';index"`
	PaymentStatus     vault.PaymentStatus     `gorm:"type:varchar(20);not null;default:'none'"`
	Price             decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	CheckoutSessionID string                  `gorm:"type:varchar(255);index"`
	ExpiresAt         *time.Time
}

// TableName returns the table name for GORM
func (BuyerAccessModel) TableName() string {
	return "buyer_vault_access"
}

// ToDomain converts the persistence model to a domain BuyerAccess.
func (m *BuyerAccessModel) ToDomain() *vault.BuyerAccess {
	access := &vault.BuyerAccess{
		BuyerID:           m.BuyerID,
		PropertyID:        m.PropertyID,
		Status:            m.Status,
		PaymentStatus:     m.PaymentStatus,
		Price:             m.Price,
		CheckoutSessionID: m.CheckoutSessionID,
		ExpiresAt:         m.ExpiresAt,
	}
	m.PopulateAggregateRoot(&access.BaseAggregateRoot)
	return access
}

// FromDomain populates the persistence model from a domain BuyerAccess.
func (m *BuyerAccessModel) FromDomain(a *vault.BuyerAccess) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.BuyerID = a.BuyerID
	m.PropertyID = a.PropertyID
	m.Status = a.Status
	m.PaymentStatus = a.PaymentStatus
	m.Price = a.Price
	m.CheckoutSessionID = a.CheckoutSessionID
	m.ExpiresAt = a.ExpiresAt
}

// BuyerAccessModelFromDomain creates a new persistence model from a domain BuyerAccess.
func BuyerAccessModelFromDomain(a *vault.BuyerAccess) *BuyerAccessModel {
	m := &BuyerAccessModel{}
	m.FromDomain(a)
	return m
}

// ConsentAcceptanceModel is the persistence model for ConsentAcceptance.
// A unique index on (user_id, property_id) backs the append-only contract.
type ConsentAcceptanceModel struct {
	BaseModel
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_consent_user_property,priority:1"`
	PropertyID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_consent_user_property,priority:2"`
	IsOwnerOrAuthorized  bool      `gorm:"not null"`
	DocumentsAreGenuine  bool      `gorm:"not null"`
	AcceptsSharing       bool      `gorm:"not null"`
	AcceptsDataRetention bool      `gorm:"not null"`
	AcceptsTerms         bool      `gorm:"not null"`
	IPAddress            string    `gorm:"type:varchar(45)"`
	UserAgent            string    `gorm:"type:varchar(500)"`
	TermsVersion         string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (ConsentAcceptanceModel) TableName() string {
	return "vault_consent_acceptances"
}

// ToDomain converts the persistence model to a domain ConsentAcceptance.
func (m *ConsentAcceptanceModel) ToDomain() *vault.ConsentAcceptance {
	return &vault.ConsentAcceptance{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		PropertyID: m.PropertyID,
		Declarations: vault.ConsentDeclarations{
			IsOwnerOrAuthorized:  m.IsOwnerOrAuthorized,
			DocumentsAreGenuine:  m.DocumentsAreGenuine,
			AcceptsSharing:       m.AcceptsSharing,
			AcceptsDataRetention: m.AcceptsDataRetention,
			AcceptsTerms:         m.AcceptsTerms,
		},
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		TermsVersion: m.TermsVersion,
	}
}

// FromDomain populates the persistence model from a domain ConsentAcceptance.
func (m *ConsentAcceptanceModel) FromDomain(c *vault.ConsentAcceptance) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.UserID = c.UserID
	m.PropertyID = c.PropertyID
	m.IsOwnerOrAuthorized = c.Declarations.IsOwnerOrAuthorized
	m.DocumentsAreGenuine = c.Declarations.DocumentsAreGenuine
	m.AcceptsSharing = c.Declarations.AcceptsSharing
	m.AcceptsDataRetention = c.Declarations.AcceptsDataRetention
	m.AcceptsTerms = c.Declarations.AcceptsTerms
	m.IPAddress = c.IPAddress
	m.UserAgent = c.UserAgent
	m.TermsVersion = c.TermsVersion
}

// ConsentAcceptanceModelFromDomain creates a new persistence model from a domain ConsentAcceptance.
func ConsentAcceptanceModelFromDomain(c *vault.ConsentAcceptance) *ConsentAcceptanceModel {
	m := &ConsentAcceptanceModel{}
	m.FromDomain(c)
	return m
}

// PropertyModel is the read model for the listings the vault references.
// The table is owned by the listings service; the vault only reads it.
type PropertyModel struct {
	BaseModel
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Title   string    `gorm:"type:varchar(255);not null"`
	City    string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property.
func (m *PropertyModel) ToDomain() *vault.Property {
	return &vault.Property{
		BaseEntity: m.BaseModel.ToDomain(),
		OwnerID:    m.OwnerID,
		Title:      m.Title,
		City:       m.City,
	}
}

// ProfessionalModel is the read model for marketplace professionals.
// UserID stays null until the professional registers an account.
type ProfessionalModel struct {
	BaseModel
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name      string     `gorm:"type:varchar(200);not null"`
	Specialty string     `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ProfessionalModel) TableName() string {
	return "professionals"
}

// ToDomain converts the persistence model to a domain Professional.
func (m *ProfessionalModel) ToDomain() *vault.Professional {
	return &vault.Professional{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Name:       m.Name,
		Specialty:  m.Specialty,
	}
}
