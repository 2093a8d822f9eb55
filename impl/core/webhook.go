package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const unknownFailure = "Unknown error"

// HandleWebhook verifies and dispatches a gateway event. Only an
// authenticity failure is returned as an error; once the signature is valid
// the event is acknowledged and processing failures go into the ack body.
func (c *Core) HandleWebhook(ctx context.Context, payload []byte, signature string) (*entity.WebhookAck, error) {
	if c.payments == nil {
		return nil, fmt.Errorf("payment service is not set")
	}

	event, err := c.payments.ParseWebhook(payload, signature)
	if err != nil {
		c.log.With(sl.Err(err)).Warn("webhook signature verification failed")
		return nil, err
	}

	log := c.log.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)

	if event.DecodeError != "" {
		log.With(slog.String("error", event.DecodeError)).Error("webhook event not decoded")
		return &entity.WebhookAck{Received: true, Error: event.DecodeError}, nil
	}

	if c.guard != nil {
		seen, err := c.guard.Seen(ctx, event.ID)
		if err != nil {
			log.With(sl.Err(err)).Warn("event guard unavailable")
		}
		if seen {
			log.Info("duplicate event skipped")
			return &entity.WebhookAck{Received: true}, nil
		}
	}

	if err = c.dispatchEvent(ctx, event); err != nil {
		log.With(sl.Err(err)).Error("webhook processing failed")
		if c.guard != nil {
			if ferr := c.guard.Forget(ctx, event.ID); ferr != nil {
				log.With(sl.Err(ferr)).Warn("event guard forget")
			}
		}
		return &entity.WebhookAck{Received: true, Error: err.Error()}, nil
	}

	return &entity.WebhookAck{Received: true}, nil
}

func (c *Core) dispatchEvent(ctx context.Context, event *entity.PaymentEvent) error {
	switch event.Type {
	case entity.EventCheckoutCompleted:
		return c.handleCheckoutCompleted(ctx, event.SessionID)
	case entity.EventPaymentSucceeded:
		if event.PaymentIntent != nil {
			c.log.With(
				slog.String("payment_intent", event.PaymentIntent.ID),
				slog.Int64("amount", event.PaymentIntent.Amount),
			).Info("payment succeeded")
		}
		return nil
	case entity.EventPaymentFailed:
		c.recordFailedPayment(ctx, event.PaymentIntent)
		return nil
	default:
		c.log.With(slog.String("event_type", event.Type)).Debug("unhandled event type")
		return nil
	}
}

func (c *Core) handleCheckoutCompleted(ctx context.Context, sessionID string) error {
	if err := c.checkRepository(); err != nil {
		return err
	}
	if sessionID == "" {
		return entity.Validation("checkout event without session id")
	}

	existing, err := c.repo.GetLicenseBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	if existing != nil {
		c.log.With(
			slog.String("session_id", sessionID),
			slog.String("license_id", existing.ID),
		).Info("session already fulfilled")
		return nil
	}

	session, err := c.payments.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return err
	}

	_, err = c.FulfillPaid(ctx, session)
	return err
}

// recordFailedPayment is best effort; an insert failure is only logged.
func (c *Core) recordFailedPayment(ctx context.Context, intent *entity.PaymentIntent) {
	if intent == nil || c.repo == nil {
		return
	}

	reason := intent.FailureReason
	if reason == "" {
		reason = unknownFailure
	}

	payment := &entity.FailedPayment{
		ID:                    uuid.NewString(),
		StripePaymentIntentID: intent.ID,
		FailureReason:         reason,
		Amount:                intent.Amount,
		Currency:              intent.Currency,
		FailedAt:              c.now(),
	}

	log := c.log.With(
		slog.String("payment_intent", intent.ID),
		slog.String("reason", reason),
	)
	if err := c.repo.InsertFailedPayment(ctx, payment); err != nil {
		log.With(sl.Err(err)).Error("record failed payment")
		return
	}
	log.Warn("payment failed")
}
