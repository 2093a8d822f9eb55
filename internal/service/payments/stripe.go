package payments

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/config"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Service struct {
	api            *client.API
	webhookSecret  string
	studentPriceID string
	teacherPriceID string
	log            *slog.Logger
}

func NewService(conf *config.Config, log *slog.Logger) *Service {
	api := &client.API{}
	api.Init(conf.Stripe.SecretKey, nil)

	return &Service{
		api:            api,
		webhookSecret:  conf.Stripe.WebhookSecret,
		studentPriceID: conf.Stripe.StudentPriceID,
		teacherPriceID: conf.Stripe.TeacherPriceID,
		log:            log.With(sl.Module("payments.stripe")),
	}
}

func (s *Service) CreateCheckoutSession(ctx context.Context, order *entity.CheckoutOrder) (*entity.CheckoutResult, error) {
	params := s.sessionParams(order)
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, entity.Upstream(err)
	}

	s.log.With(
		slog.String("session_id", session.ID),
		slog.Int("students", order.StudentQuantity),
		slog.Int("teachers", order.TeacherQuantity),
	).Debug("checkout session created")

	return &entity.CheckoutResult{URL: session.URL, SessionID: session.ID}, nil
}

// sessionParams adds a line item only for the license kinds actually bought.
func (s *Service) sessionParams(order *entity.CheckoutOrder) *stripe.CheckoutSessionParams {
	var items []*stripe.CheckoutSessionLineItemParams
	if order.StudentQuantity > 0 {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(s.studentPriceID),
			Quantity: stripe.Int64(int64(order.StudentQuantity)),
		})
	}
	if order.TeacherQuantity > 0 {
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(s.teacherPriceID),
			Quantity: stripe.Int64(int64(order.TeacherQuantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                items,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SubmitType:               stripe.String(string(stripe.CheckoutSessionSubmitTypeAuto)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		SuccessURL:               stripe.String(order.SuccessURL),
		CancelURL:                stripe.String(order.CancelURL),
		CustomFields: []*stripe.CheckoutSessionCustomFieldParams{
			textField(entity.FieldSchoolName, "School Name"),
			textField(entity.FieldDistrictName, "District Name"),
		},
	}
	params.AddMetadata(entity.MetaStudentQuantity, strconv.Itoa(order.StudentQuantity))
	params.AddMetadata(entity.MetaTeacherQuantity, strconv.Itoa(order.TeacherQuantity))
	params.AddMetadata(entity.MetaPurchaseDate, order.PurchaseDate.UTC().Format("2006-01-02T15:04:05.000Z"))

	return params
}

func textField(key, label string) *stripe.CheckoutSessionCustomFieldParams {
	return &stripe.CheckoutSessionCustomFieldParams{
		Key: stripe.String(key),
		Label: &stripe.CheckoutSessionCustomFieldLabelParams{
			Type:   stripe.String(string(stripe.CheckoutSessionCustomFieldLabelTypeCustom)),
			Custom: stripe.String(label),
		},
		Type:     stripe.String(string(stripe.CheckoutSessionCustomFieldTypeText)),
		Optional: stripe.Bool(false),
	}
}

// GetCheckoutSession fetches a session with the customer expanded.
func (s *Service) GetCheckoutSession(ctx context.Context, id string) (*entity.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("customer")

	session, err := s.api.CheckoutSessions.Get(id, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.HTTPStatusCode == 404 {
			return nil, entity.NotFound("Checkout session not found")
		}
		return nil, entity.Upstream(err)
	}

	return toCheckoutSession(session), nil
}

func toCheckoutSession(session *stripe.CheckoutSession) *entity.CheckoutSession {
	result := &entity.CheckoutSession{
		ID:            session.ID,
		CustomFields:  make(map[string]string),
		Metadata:      session.Metadata,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Status:        string(session.Status),
	}
	if session.Customer != nil {
		result.CustomerID = session.Customer.ID
	}
	if session.CustomerDetails != nil {
		result.CustomerDetails = &entity.CustomerDetails{
			Email: session.CustomerDetails.Email,
			Name:  session.CustomerDetails.Name,
		}
	}
	for _, field := range session.CustomFields {
		if field == nil || field.Text == nil {
			continue
		}
		result.CustomFields[field.Key] = field.Text.Value
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]string)
	}
	return result
}

// ParseWebhook verifies the signature over the raw payload before decoding
// anything from it. Only a verification failure is returned as an error; a
// verified event whose object does not decode carries DecodeError instead.
func (s *Service) ParseWebhook(payload []byte, signature string) (*entity.PaymentEvent, error) {
	if len(payload) == 0 {
		return nil, entity.Authenticity("empty payload")
	}
	if signature == "" {
		return nil, entity.Authenticity("missing signature header")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, entity.Authenticity("%s", err.Error())
	}

	result := &entity.PaymentEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch result.Type {
	case entity.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
			result.DecodeError = fmt.Sprintf("decode checkout session: %v", err)
			break
		}
		result.SessionID = session.ID
	case entity.EventPaymentSucceeded, entity.EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err = json.Unmarshal(event.Data.Raw, &intent); err != nil {
			result.DecodeError = fmt.Sprintf("decode payment intent: %v", err)
			break
		}
		result.PaymentIntent = &entity.PaymentIntent{
			ID:       intent.ID,
			Amount:   intent.Amount,
			Currency: string(intent.Currency),
		}
		if intent.LastPaymentError != nil {
			result.PaymentIntent.FailureReason = intent.LastPaymentError.Msg
		}
	}

	return result, nil
}
