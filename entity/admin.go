package entity

import (
	"SchoolLicensing/internal/lib/validate"
	"net/http"
	"time"
)

// AdminSummary describes the active license of an administrator.
type AdminSummary struct {
	Valid           bool       `json:"valid"`
	LicenseType     string     `json:"license_type"`
	SchoolName      string     `json:"school_name"`
	DistrictName    string     `json:"district_name"`
	AdminName       string     `json:"admin_name"`
	TeacherLicenses int        `json:"teacher_licenses"`
	StudentLicenses int        `json:"student_licenses"`
	PurchaseDate    *time.Time `json:"purchase_date,omitempty"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	TrialEndDate    *time.Time `json:"trial_end_date,omitempty"`
	DaysRemaining   *int       `json:"days_remaining,omitempty"`
}

// NewAdminSummary fills the paid or trial specific fields depending on the license type.
func NewAdminSummary(l *License, now time.Time) *AdminSummary {
	s := &AdminSummary{
		Valid:           true,
		LicenseType:     LicenseTypePaid,
		SchoolName:      l.SchoolName,
		DistrictName:    l.DistrictName,
		AdminName:       l.AdminName,
		TeacherLicenses: l.TeacherLicenses,
		StudentLicenses: l.StudentLicenses,
	}
	if l.IsTrial() {
		end := l.LicenseExpiry
		days := DaysRemaining(end, now)
		s.LicenseType = LicenseTypeTrial
		s.TrialEndDate = &end
		s.DaysRemaining = &days
	} else {
		purchase, expiry := l.PurchaseDate, l.LicenseExpiry
		s.PurchaseDate = &purchase
		s.LicenseExpiry = &expiry
	}
	return s
}

type AdminPortal struct {
	AdminSummary
	UnusedCodes    []AccessCode `json:"unused_codes"`
	UsedCodes      []AccessCode `json:"used_codes"`
	CodesRemaining int          `json:"codes_remaining"`
}

type CodeStats struct {
	Total int64
	Sent  int64
	Used  int64
}

type AdminStats struct {
	SchoolName           string     `json:"school_name"`
	DistrictName         string     `json:"district_name"`
	TotalTeacherLicenses int        `json:"total_teacher_licenses"`
	TotalStudentLicenses int        `json:"total_student_licenses"`
	CodesGenerated       int64      `json:"codes_generated"`
	CodesSent            int64      `json:"codes_sent"`
	CodesUsed            int64      `json:"codes_used"`
	CodesRemaining       int64      `json:"codes_remaining"`
	PurchaseDate         time.Time  `json:"purchase_date"`
	LicenseExpiry        time.Time  `json:"license_expiry"`
	RecentEmails         []EmailLog `json:"recent_emails"`
}

// TeacherCodeEmail is a ready-to-send invitation for the next unused code.
type TeacherCodeEmail struct {
	Code       string    `json:"code"`
	CodeID     string    `json:"code_id"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	SchoolName string    `json:"school_name"`
	AdminName  string    `json:"admin_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type SchoolLicenseInfo struct {
	SchoolName      string    `json:"school_name"`
	DistrictName    string    `json:"district_name"`
	TeacherLicenses int       `json:"teacher_licenses"`
	StudentLicenses int       `json:"student_licenses"`
	PurchaseDate    time.Time `json:"purchase_date"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	AdminEmail      string    `json:"admin_email"`
	AdminName       string    `json:"admin_name"`
}

type AdminRequest struct {
	AdminEmail string `json:"admin_email" validate:"required,email"`
}

func (a *AdminRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(a); err != nil {
		return Validation("A valid admin_email is required")
	}
	return nil
}

type SendCodeRequest struct {
	AdminEmail     string `json:"admin_email" validate:"required,email"`
	RecipientEmail string `json:"recipient_email" validate:"required,email"`
	Subject        string `json:"subject" validate:"required"`
	Body           string `json:"body" validate:"required"`
	CodeID         string `json:"code_id" validate:"required"`
}

func (s *SendCodeRequest) Bind(_ *http.Request) error {
	if err := validate.Struct(s); err != nil {
		return Validation("%s", validate.Message(err))
	}
	return nil
}

type SendCodeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EmailID string `json:"email_id"`
	SentTo  string `json:"sent_to"`
}
