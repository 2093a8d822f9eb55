package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"

	"github.com/shopspring/decimal"
)

const (
	BulkQuoteQuantity = "999"
	BulkQuoteTotal    = "$20,000"
)

type QuoteRequest struct {
	StudentQuantity int `json:"student_quantity" validate:"gte=0"`
	TeacherQuantity int `json:"teacher_quantity" validate:"gte=0"`
}

func (q *QuoteRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(q); err != nil {
		return Validation("License quantities cannot be negative")
	}
	return nil
}

// Quote is the price breakdown shown on the order form.
type Quote struct {
	StudentQuantity int             `json:"student_quantity"`
	TeacherQuantity int             `json:"teacher_quantity"`
	StudentPrice    decimal.Decimal `json:"student_price"`
	TeacherPrice    decimal.Decimal `json:"teacher_price"`
	StudentTotal    decimal.Decimal `json:"student_total"`
	TeacherTotal    decimal.Decimal `json:"teacher_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Currency        string          `json:"currency"`
}

// QuoteEmail carries a browser-rendered quote PDF to mail to a customer.
type QuoteEmail struct {
	PDFBase64      string `json:"pdfBase64" validate:"required,base64"`
	PDFFilename    string `json:"pdfFilename,omitempty"`
	RecipientEmail string `json:"recipientEmail" validate:"required,email"`
	AdminName      string `json:"adminName,omitempty"`
	DistrictName   string `json:"districtName,omitempty"`
	SchoolName     string `json:"schoolName,omitempty"`
	SchoolAddress  string `json:"schoolAddress,omitempty"`
	StudentQty     string `json:"studentQty,omitempty"`
	TeacherQty     string `json:"teacherQty,omitempty"`
	StudentTotal   string `json:"studentTotal,omitempty"`
	TeacherTotal   string `json:"teacherTotal,omitempty"`
	GrandTotal     string `json:"grandTotal,omitempty"`
	QuoteID        string `json:"quoteId,omitempty"`
	QuoteDate      string `json:"quoteDate,omitempty"`
}

func (q *QuoteEmail) Bind(_ *http.Request) error {
	return q.Validate()
}

func (q *QuoteEmail) Validate() error {
	if q.PDFBase64 == "" || q.RecipientEmail == "" {
		return Validation("Missing PDF or recipient email")
	}
	if err := validate.Struct(q); err != nil {
		return Validation("%s", validate.Message(err))
	}
	return nil
}

func (q *QuoteEmail) IsBulk() bool {
	return q.StudentQty == BulkQuoteQuantity && q.TeacherQty == BulkQuoteQuantity && q.GrandTotal == BulkQuoteTotal
}
