package core

import (
	"SchoolLicensing/entity"
	"context"
	"fmt"
	"log/slog"
)

func (c *Core) CreateCheckoutSession(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c.payments == nil {
		return nil, fmt.Errorf("payment service is not set")
	}

	order := &entity.CheckoutOrder{
		StudentQuantity: req.StudentQuantity,
		TeacherQuantity: req.TeacherQuantity,
		PurchaseDate:    c.now(),
		SuccessURL:      c.links.BaseURL + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:       c.links.BaseURL + "/error",
	}

	result, err := c.payments.CreateCheckoutSession(ctx, order)
	if err != nil {
		return nil, err
	}

	c.log.With(
		slog.String("session_id", result.SessionID),
		slog.Int("students", req.StudentQuantity),
		slog.Int("teachers", req.TeacherQuantity),
	).Info("checkout session created")

	return result, nil
}

// GetCheckoutSession returns the public part of a session for the success page.
func (c *Core) GetCheckoutSession(ctx context.Context, id string) (*entity.SessionStatus, error) {
	if id == "" {
		return nil, entity.Validation("session_id is required")
	}
	if c.payments == nil {
		return nil, fmt.Errorf("payment service is not set")
	}

	session, err := c.payments.GetCheckoutSession(ctx, id)
	if err != nil {
		return nil, err
	}

	return &entity.SessionStatus{
		PaymentStatus:   session.PaymentStatus,
		CustomerDetails: session.CustomerDetails,
		Metadata:        session.Metadata,
		AmountTotal:     session.AmountTotal,
	}, nil
}
