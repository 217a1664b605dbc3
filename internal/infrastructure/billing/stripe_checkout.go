// Package billing integrates the Stripe payment collaborator for paid
// vault access purchases.
package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"go.uber.org/zap"

	vaultapp "github.com/vivenda/backend/internal/application/vault"
	infraconfig "github.com/vivenda/backend/internal/infrastructure/config"
)

var _ vaultapp.CheckoutProvider = (*StripeCheckoutProvider)(nil)

// StripeCheckoutProvider implements CheckoutProvider with Stripe Checkout.
// The buyer access ID travels in session metadata so webhook events can be
// correlated back to the access row.
type StripeCheckoutProvider struct {
	config *infraconfig.StripeConfig
	logger *zap.Logger
}

// NewStripeCheckoutProvider creates a Stripe checkout provider and sets
// the global API key.
func NewStripeCheckoutProvider(cfg *infraconfig.StripeConfig, logger *zap.Logger) (*StripeCheckoutProvider, error) {
	if cfg == nil || cfg.SecretKey == "" {
		return nil, errors.New("stripe: secret key is required")
	}

	stripe.Key = cfg.SecretKey

	return &StripeCheckoutProvider{
		config: cfg,
		logger: logger,
	}, nil
}

// CreateVaultCheckout opens a one-off payment checkout session for a buyer
// access purchase. Prices are charged in euro cents.
func (p *StripeCheckoutProvider) CreateVaultCheckout(
	ctx context.Context,
	accessID uuid.UUID,
	price decimal.Decimal,
	successURL, cancelURL string,
) (*vaultapp.CheckoutSession, error) {
	if successURL == "" {
		successURL = p.config.SuccessURL
	}
	if cancelURL == "" {
		cancelURL = p.config.CancelURL
	}

	amountCents := price.Mul(decimal.NewFromInt(100)).IntPart()
	if amountCents <= 0 {
		return nil, errors.New("stripe: checkout amount must be positive")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Acesso ao cofre digital"),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"access_id": accessID.String(),
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		p.logger.Error("failed to create checkout session",
			zap.String("access_id", accessID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	p.logger.Info("created checkout session",
		zap.String("access_id", accessID.String()),
		zap.String("session_id", sess.ID))

	return &vaultapp.CheckoutSession{
		ID:  sess.ID,
		URL: sess.URL,
	}, nil
}
