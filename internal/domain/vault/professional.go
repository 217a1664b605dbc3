package vault

import (
	"context"

	"github.com/google/uuid"
	"github.com/vivenda/backend/internal/domain/shared"
)

// Professional is a marketplace service provider. A professional record may
// exist before its owner registers an account, so UserID is nullable.
type Professional struct {
	shared.BaseEntity
	UserID    *uuid.UUID // Linked account, nil until the professional registers
	Name      string
	Specialty string
}

// HasLinkedUser returns true if the professional has a registered account
func (p *Professional) HasLinkedUser() bool {
	return p.UserID != nil && *p.UserID != uuid.Nil
}

// ProfessionalRepository defines the read interface the vault core needs
type ProfessionalRepository interface {
	// FindByID finds a professional by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Professional, error)

	// FindByIDs finds multiple professionals by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Professional, error)

	// FindByUserID finds the professional record linked to a user account,
	// or shared.ErrNotFound
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Professional, error)
}
