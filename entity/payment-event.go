package entity

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// PaymentEvent is a verified webhook event reduced to the fields we act on.
type PaymentEvent struct {
	ID   string
	Type string
	// checkout session id for checkout events
	SessionID     string
	PaymentIntent *PaymentIntent
	// set when the signature was valid but the object could not be decoded
	DecodeError string
}

type PaymentIntent struct {
	ID            string
	Amount        int64
	Currency      string
	FailureReason string
}

type WebhookAck struct {
	Received bool   `json:"received"`
	Error    string `json:"error,omitempty"`
}
