package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"
	"slices"
)

type TrialRequest struct {
	AdminName       string `json:"admin_name" validate:"required"`
	AdminEmail      string `json:"admin_email" validate:"required,email"`
	SchoolName      string `json:"school_name" validate:"required"`
	DistrictName    string `json:"district_name" validate:"required"`
	TeacherQuantity int    `json:"teacher_quantity" validate:"gt=0"`
	StudentQuantity int    `json:"student_quantity" validate:"gt=0"`
}

func (t *TrialRequest) Bind(_ *http.Request) error {
	return t.Validate()
}

// Validate reports the first broken rule in the order the signup form
// presents them: identity fields, then teacher count, then student count.
func (t *TrialRequest) Validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}
	fields := validate.Fields(err)
	for _, f := range fields {
		switch f {
		case "admin_name", "school_name", "district_name":
			return Validation("All fields are required for free trial signup")
		case "admin_email":
			if t.AdminEmail == "" {
				return Validation("All fields are required for free trial signup")
			}
			return Validation("A valid admin email is required for free trial signup")
		}
	}
	if slices.Contains(fields, "teacher_quantity") {
		return Validation("At least 1 teacher is required for free trial")
	}
	if slices.Contains(fields, "student_quantity") {
		return Validation("At least 1 student is required for free trial")
	}
	return Validation("%s", validate.Message(err))
}

type TrialResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
	TrialID     string `json:"trial_id"`
}

// ManualPurchase is a purchase order paid outside the gateway (PO / ACH).
type ManualPurchase struct {
	SchoolName          string `json:"schoolName" validate:"required"`
	SchoolDistrict      string `json:"schoolDistrict" validate:"required"`
	PONumber            string `json:"poNumber" validate:"required"`
	StudentQty          int    `json:"studentQty" validate:"gt=0"`
	TeacherQty          int    `json:"teacherQty" validate:"gt=0"`
	TeacherLicenseTotal string `json:"teacherLicenseTotal" validate:"required,number"`
	StudentLicenseTotal string `json:"studentLicenseTotal" validate:"required,number"`
	TotalPurchasePrice  string `json:"totalPurchasePrice" validate:"required,number"`
	AdminEmail          string `json:"adminEmail" validate:"required,email"`
}

func (m *ManualPurchase) Bind(_ *http.Request) error {
	return m.Validate()
}

func (m *ManualPurchase) Validate() error {
	if err := validate.Struct(m); err != nil {
		return Validation("Missing required fields.").With("fields", validate.Fields(err))
	}
	return nil
}

type ManualPurchaseResult struct {
	Message   string `json:"message"`
	LicenseID string `json:"license_id"`
}
