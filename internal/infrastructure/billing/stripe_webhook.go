package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// PaymentEventHandler reacts to confirmed payment outcomes. Implemented by
// the buyer access application service.
type PaymentEventHandler interface {
	HandlePaymentSucceeded(ctx context.Context, sessionID string) error
	HandlePaymentFailed(ctx context.Context, sessionID string) error
}

// WebhookResult describes the outcome of processing one webhook delivery
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// StripeWebhookProcessor verifies and dispatches Stripe webhook events.
// Stripe redelivers events until acknowledged, so handlers must stay
// idempotent.
type StripeWebhookProcessor struct {
	webhookSecret string
	handler       PaymentEventHandler
	logger        *zap.Logger
}

// NewStripeWebhookProcessor creates a new StripeWebhookProcessor
func NewStripeWebhookProcessor(webhookSecret string, handler PaymentEventHandler, logger *zap.Logger) *StripeWebhookProcessor {
	return &StripeWebhookProcessor{
		webhookSecret: webhookSecret,
		handler:       handler,
		logger:        logger,
	}
}

// ProcessWebhook verifies the signature and dispatches the event.
// A nil result means the signature check failed.
func (p *StripeWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.logger.Error("failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	p.logger.Info("processing webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		err = p.handleCheckoutOutcome(ctx, event, p.handler.HandlePaymentSucceeded)
	case "checkout.session.expired", "checkout.session.async_payment_failed":
		err = p.handleCheckoutOutcome(ctx, event, p.handler.HandlePaymentFailed)
	default:
		p.logger.Debug("unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		p.logger.Error("failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

func (p *StripeWebhookProcessor) handleCheckoutOutcome(
	ctx context.Context,
	event stripe.Event,
	apply func(ctx context.Context, sessionID string) error,
) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}
	if sess.ID == "" {
		p.logger.Warn("checkout event has no session ID, skipping",
			zap.String("event_id", event.ID))
		return nil
	}

	// Only paid completions grant access; a completed session can still be
	// unpaid when an async payment method is pending.
	if event.Type == "checkout.session.completed" &&
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		p.logger.Info("checkout completed but unpaid, awaiting async outcome",
			zap.String("session_id", sess.ID))
		return nil
	}

	return apply(ctx, sess.ID)
}
