package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"
	"time"
)

const (
	FieldSchoolName   = "school_name"
	FieldDistrictName = "district_name"

	MetaStudentQuantity = "student_quantity"
	MetaTeacherQuantity = "teacher_quantity"
	MetaPurchaseDate    = "purchase_date"

	UnknownSchool   = "Unknown School"
	UnknownDistrict = "Unknown District"
)

type CheckoutRequest struct {
	StudentQuantity int    `json:"student_quantity" validate:"gte=0"`
	TeacherQuantity int    `json:"teacher_quantity" validate:"gte=0"`
	SchoolName      string `json:"school_name,omitempty" validate:"omitempty"`
	AdminEmail      string `json:"admin_email,omitempty" validate:"omitempty,email"`
	AdminName       string `json:"admin_name,omitempty" validate:"omitempty"`
}

func (c *CheckoutRequest) Bind(_ *http.Request) error {
	return c.Validate()
}

func (c *CheckoutRequest) Validate() error {
	if err := validate.Struct(c); err != nil {
		return Validation("%s", validate.Message(err))
	}
	if c.StudentQuantity > 0 && c.TeacherQuantity == 0 {
		return Validation("At least 1 teacher license is required when purchasing student licenses")
	}
	if c.StudentQuantity == 0 && c.TeacherQuantity == 0 {
		return Validation("Please select at least one license")
	}
	return nil
}

// CheckoutOrder is what the payment gateway needs to open a hosted checkout.
type CheckoutOrder struct {
	StudentQuantity int
	TeacherQuantity int
	PurchaseDate    time.Time
	SuccessURL      string
	CancelURL       string
}

type CheckoutResult struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type CustomerDetails struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// CheckoutSession is the gateway-neutral view of a completed or pending checkout.
type CheckoutSession struct {
	ID              string            `json:"id"`
	CustomerID      string            `json:"customer,omitempty"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
	CustomFields    map[string]string `json:"custom_fields,omitempty"`
	Metadata        map[string]string `json:"metadata"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Status          string            `json:"status"`
}

func (s *CheckoutSession) AdminEmail() string {
	if s.CustomerDetails == nil {
		return ""
	}
	return s.CustomerDetails.Email
}

// CustomField returns the text value of a custom field or def when it is absent.
func (s *CheckoutSession) CustomField(key, def string) string {
	if v, ok := s.CustomFields[key]; ok && v != "" {
		return v
	}
	return def
}

// SessionStatus is the public pass-through of a checkout session.
type SessionStatus struct {
	PaymentStatus   string            `json:"payment_status"`
	CustomerDetails *CustomerDetails  `json:"customer_details"`
	Metadata        map[string]string `json:"metadata"`
	AmountTotal     int64             `json:"amount_total"`
}
