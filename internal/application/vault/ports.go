package vault

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vivenda/backend/internal/domain/notification"
	"github.com/vivenda/backend/internal/domain/vault"
)

// FileStorage abstracts the object store holding document files
type FileStorage interface {
	// PresignUpload returns a URL the client can PUT the file to
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// PresignDownload returns a URL the client can GET the file from
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error)

	// Delete removes the object at key
	Delete(ctx context.Context, key string) error
}

// CheckoutSession is the payment collaborator's session handle
type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutProvider abstracts the payment collaborator used for buyer
// vault access purchases
type CheckoutProvider interface {
	// CreateVaultCheckout opens a checkout session for one buyer access
	// purchase. The accessID travels in session metadata so the webhook
	// can correlate the payment back.
	CreateVaultCheckout(ctx context.Context, accessID uuid.UUID, price decimal.Decimal, successURL, cancelURL string) (*CheckoutSession, error)
}

// StakeholderNotifier fans a vault document action out to every stakeholder
// of the document's property. A returned error is informational; the vault
// mutation has already succeeded, so callers log it and continue.
type StakeholderNotifier interface {
	NotifyVaultAction(ctx context.Context, actorUserID uuid.UUID, doc *vault.Document, action notification.VaultAction) error
}
