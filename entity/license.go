package entity

import (
	"math"
	"time"
)

const (
	LicenseTypePaid  = "paid"
	LicenseTypeTrial = "trial"

	PaymentStatusCompleted = "completed"
	PaymentStatusTrial     = "trial"

	PaymentMethodStripe = "stripe"
	PaymentMethodManual = "manual/ACH"

	PaidLicenseDays = 365
	TrialDays       = 30
)

// License is the purchase (or trial) record owned by a school administrator.
// At most one active license exists per admin email.
type License struct {
	ID               string    `json:"id" bson:"_id"`
	SchoolName       string    `json:"school_name" bson:"school_name"`
	DistrictName     string    `json:"district_name" bson:"district_name"`
	AdminEmail       string    `json:"admin_email" bson:"admin_email"`
	AdminName        string    `json:"admin_name" bson:"admin_name"`
	StudentLicenses  int       `json:"student_licenses" bson:"student_licenses"`
	TeacherLicenses  int       `json:"teacher_licenses" bson:"teacher_licenses"`
	StripeSessionID  string    `json:"stripe_session_id,omitempty" bson:"stripe_session_id,omitempty"`
	StripeCustomerID string    `json:"stripe_customer_id,omitempty" bson:"stripe_customer_id,omitempty"`
	PaymentStatus    string    `json:"payment_status" bson:"payment_status"`
	PaymentMethod    string    `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PONumber         string    `json:"po_number,omitempty" bson:"po_number,omitempty"`
	TeacherTotal     float64   `json:"teacher_license_total,omitempty" bson:"teacher_license_total,omitempty"`
	StudentTotal     float64   `json:"student_license_total,omitempty" bson:"student_license_total,omitempty"`
	AmountPaid       float64   `json:"amount_paid" bson:"amount_paid"`
	Currency         string    `json:"currency" bson:"currency"`
	PurchaseDate     time.Time `json:"purchase_date" bson:"purchase_date"`
	LicenseExpiry    time.Time `json:"license_expiry" bson:"license_expiry"`
	IsActive         bool      `json:"is_active" bson:"is_active"`
	LicenseType      string    `json:"license_type" bson:"license_type"`
	TrialID          string    `json:"trial_id,omitempty" bson:"trial_id,omitempty"`
}

func (l *License) IsTrial() bool {
	return l.LicenseType == LicenseTypeTrial
}

// TrialOver reports whether a trial license has passed its expiry. Paid
// licenses are never expired lazily.
func (l *License) TrialOver(now time.Time) bool {
	return l.IsTrial() && now.After(l.LicenseExpiry)
}

// TotalSeats is the number of user profiles the license allows.
func (l *License) TotalSeats() int {
	return l.StudentLicenses + l.TeacherLicenses
}

// DaysRemaining rounds up, so any part of a day counts as a whole day.
func DaysRemaining(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}
