package entity

import "time"

const EmailTypeTeacherCode = "teacher_code_email"

// FailedPayment is an append-only record of a declined payment intent.
type FailedPayment struct {
	ID                    string    `json:"id" bson:"_id"`
	StripePaymentIntentID string    `json:"stripe_payment_intent_id" bson:"stripe_payment_intent_id"`
	FailureReason         string    `json:"failure_reason" bson:"failure_reason"`
	Amount                int64     `json:"amount" bson:"amount"`
	Currency              string    `json:"currency" bson:"currency"`
	FailedAt              time.Time `json:"failed_at" bson:"failed_at"`
}

// EmailLog is an append-only record of a teacher code sent by an administrator.
type EmailLog struct {
	ID             string    `json:"id" bson:"_id"`
	Type           string    `json:"type" bson:"type"`
	AdminEmail     string    `json:"admin_email" bson:"admin_email"`
	RecipientEmail string    `json:"recipient_email" bson:"recipient_email"`
	SchoolName     string    `json:"school_name" bson:"school_name"`
	TeacherCode    string    `json:"teacher_code" bson:"teacher_code"`
	CodeID         string    `json:"code_id" bson:"code_id"`
	Subject        string    `json:"subject" bson:"subject"`
	SentAt         time.Time `json:"sent_at" bson:"sent_at"`
	EmailID        string    `json:"email_id" bson:"email_id"`
}
