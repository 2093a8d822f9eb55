package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// grant is everything one fulfillment writes.
type grant struct {
	license *entity.License
	trial   *entity.Trial
	codes   []entity.AccessCode
	// supersede deactivates a previous active license of the same admin
	supersede bool
}

// FulfillPaid issues a license and teacher codes for a completed checkout.
func (c *Core) FulfillPaid(ctx context.Context, session *entity.CheckoutSession) (*entity.License, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	adminEmail := session.AdminEmail()
	if adminEmail == "" {
		return nil, entity.Validation("No customer email found in checkout session")
	}

	now := c.now()
	license := &entity.License{
		ID:               uuid.NewString(),
		SchoolName:       session.CustomField(entity.FieldSchoolName, entity.UnknownSchool),
		DistrictName:     session.CustomField(entity.FieldDistrictName, entity.UnknownDistrict),
		AdminEmail:       adminEmail,
		AdminName:        adminNameFromEmail(adminEmail),
		StudentLicenses:  quantity(session.Metadata[entity.MetaStudentQuantity]),
		TeacherLicenses:  quantity(session.Metadata[entity.MetaTeacherQuantity]),
		StripeSessionID:  session.ID,
		StripeCustomerID: session.CustomerID,
		PaymentStatus:    entity.PaymentStatusCompleted,
		PaymentMethod:    entity.PaymentMethodStripe,
		AmountPaid:       centsToAmount(session.AmountTotal),
		Currency:         session.Currency,
		PurchaseDate:     now,
		LicenseExpiry:    now.Add(entity.PaidLicenseDays * day),
		IsActive:         true,
		LicenseType:      entity.LicenseTypePaid,
	}

	log := c.log.With(
		slog.String("session_id", session.ID),
		slog.String("school", license.SchoolName),
		sl.Email("admin", adminEmail),
	)

	c.sendMail(ctx, purchaseConfirmationEmail(license))

	codes, err := generateCodes(license, now, entity.PaidLicenseDays)
	if err != nil {
		return nil, err
	}
	if err = c.issueLicense(ctx, &grant{license: license, codes: codes, supersede: true}); err != nil {
		log.With(sl.Err(err)).Error("paid fulfillment")
		return nil, err
	}

	log.With(
		slog.Int("teachers", license.TeacherLicenses),
		slog.Int("students", license.StudentLicenses),
		slog.Float64("amount", license.AmountPaid),
	).Info("license issued")
	c.notify(fmt.Sprintf("*New purchase*: %s (%s)\nTeachers: %d, students: %d\nAmount: %.2f %s",
		license.SchoolName, license.DistrictName, license.TeacherLicenses, license.StudentLicenses,
		license.AmountPaid, strings.ToUpper(license.Currency)))

	return license, nil
}

// StartTrial creates a 30-day trial with a mirrored trial license.
func (c *Core) StartTrial(ctx context.Context, req *entity.TrialRequest) (*entity.TrialResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	trial, err := c.repo.GetActiveTrialByEmail(ctx, req.AdminEmail)
	if err != nil {
		return nil, err
	}
	if trial != nil {
		return nil, entity.Conflict("This email already has an active free trial")
	}
	active, err := c.repo.GetActiveLicenseByEmail(ctx, req.AdminEmail)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, entity.Conflict("This email already has an active license. Free trial not available.")
	}

	now := c.now()
	end := now.Add(entity.TrialDays * day)
	trial = &entity.Trial{
		ID:              uuid.NewString(),
		SchoolName:      req.SchoolName,
		DistrictName:    req.DistrictName,
		AdminEmail:      req.AdminEmail,
		AdminName:       req.AdminName,
		TeacherLicenses: req.TeacherQuantity,
		StudentLicenses: req.StudentQuantity,
		TrialStartDate:  now,
		TrialEndDate:    end,
		IsActive:        true,
		LicenseType:     entity.LicenseTypeTrial,
		CreatedAt:       now,
	}
	license := &entity.License{
		ID:              uuid.NewString(),
		SchoolName:      req.SchoolName,
		DistrictName:    req.DistrictName,
		AdminEmail:      req.AdminEmail,
		AdminName:       req.AdminName,
		StudentLicenses: req.StudentQuantity,
		TeacherLicenses: req.TeacherQuantity,
		PaymentStatus:   entity.PaymentStatusTrial,
		AmountPaid:      0,
		Currency:        c.currency,
		PurchaseDate:    now,
		LicenseExpiry:   end,
		IsActive:        true,
		LicenseType:     entity.LicenseTypeTrial,
		TrialID:         trial.ID,
	}

	codes, err := generateCodes(license, now, entity.TrialDays)
	if err != nil {
		return nil, err
	}
	if err = c.issueLicense(ctx, &grant{license: license, trial: trial, codes: codes}); err != nil {
		if errors.Is(err, entity.ErrConflict) && !errors.Is(err, entity.ErrCodeCollision) {
			return nil, entity.Conflict("This email already has an active free trial")
		}
		return nil, err
	}

	redirect := distributionLink(c.links.DistributionURL, req.AdminEmail, true)
	c.sendMail(ctx, trialConfirmationEmail(trial, redirect))

	c.log.With(
		slog.String("trial_id", trial.ID),
		slog.String("school", trial.SchoolName),
		sl.Email("admin", trial.AdminEmail),
	).Info("free trial started")
	c.notify(fmt.Sprintf("*New free trial*: %s (%s)\nTeachers: %d, students: %d\nEnds: %s",
		trial.SchoolName, trial.DistrictName, trial.TeacherLicenses, trial.StudentLicenses, formatDate(end)))

	return &entity.TrialResult{
		Success:     true,
		Message:     "Free trial activated successfully",
		RedirectURL: redirect,
		TrialID:     trial.ID,
	}, nil
}

// ManualPurchase records a purchase order paid outside the gateway. The
// instructions email goes out first and a delivery failure aborts the purchase.
func (c *Core) ManualPurchase(ctx context.Context, req *entity.ManualPurchase) (*entity.ManualPurchaseResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := c.checkRepository(); err != nil {
		return nil, err
	}
	if c.mailer == nil {
		return nil, fmt.Errorf("mail service is not set")
	}

	teacherTotal, err := decimal.NewFromString(req.TeacherLicenseTotal)
	if err != nil {
		return nil, entity.Validation("invalid teacherLicenseTotal")
	}
	studentTotal, err := decimal.NewFromString(req.StudentLicenseTotal)
	if err != nil {
		return nil, entity.Validation("invalid studentLicenseTotal")
	}
	total, err := decimal.NewFromString(req.TotalPurchasePrice)
	if err != nil {
		return nil, entity.Validation("invalid totalPurchasePrice")
	}

	message := distributionInstructionsEmail(req, c.links.DistributionURL)
	if _, err = c.mailer.Send(ctx, message); err != nil {
		return nil, entity.Upstream(err)
	}

	now := c.now()
	license := &entity.License{
		ID:              uuid.NewString(),
		SchoolName:      req.SchoolName,
		DistrictName:    req.SchoolDistrict,
		AdminEmail:      req.AdminEmail,
		AdminName:       adminNameFromEmail(req.AdminEmail),
		StudentLicenses: req.StudentQty,
		TeacherLicenses: req.TeacherQty,
		PaymentStatus:   entity.PaymentStatusCompleted,
		PaymentMethod:   entity.PaymentMethodManual,
		PONumber:        req.PONumber,
		TeacherTotal:    teacherTotal.InexactFloat64(),
		StudentTotal:    studentTotal.InexactFloat64(),
		AmountPaid:      total.InexactFloat64(),
		Currency:        c.currency,
		PurchaseDate:    now,
		LicenseExpiry:   now.AddDate(1, 0, 0),
		IsActive:        true,
		LicenseType:     entity.LicenseTypePaid,
	}

	codes, err := generateCodes(license, now, entity.PaidLicenseDays)
	if err != nil {
		return nil, err
	}
	if err = c.issueLicense(ctx, &grant{license: license, codes: codes, supersede: true}); err != nil {
		return nil, err
	}

	c.log.With(
		slog.String("school", license.SchoolName),
		slog.String("po_number", license.PONumber),
		sl.Email("admin", license.AdminEmail),
	).Info("manual purchase recorded")
	c.notify(fmt.Sprintf("*Manual purchase*: %s, PO %s\nTeachers: %d, students: %d\nTotal: $%s",
		license.SchoolName, license.PONumber, license.TeacherLicenses, license.StudentLicenses, total.StringFixed(2)))

	return &entity.ManualPurchaseResult{
		Message:   "Email and license setup complete.",
		LicenseID: license.ID,
	}, nil
}

// issueLicense writes the trial, the license and its codes in one
// transaction when the store supports it.
func (c *Core) issueLicense(ctx context.Context, g *grant) error {
	return c.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if g.supersede {
			if err := c.supersedeLicense(ctx, g.license.AdminEmail); err != nil {
				return err
			}
		}
		if g.trial != nil {
			if err := c.repo.InsertTrial(ctx, g.trial); err != nil {
				return err
			}
		}
		if err := c.repo.InsertLicense(ctx, g.license); err != nil {
			return err
		}
		return c.repo.InsertAccessCodes(ctx, g.codes)
	})
}

// supersedeLicense retires the admin's current license so the new purchase
// becomes the only active one; a running trial ends with it.
func (c *Core) supersedeLicense(ctx context.Context, adminEmail string) error {
	previous, err := c.repo.GetActiveLicenseByEmail(ctx, adminEmail)
	if err != nil || previous == nil {
		return err
	}

	if err = c.repo.DeactivateLicense(ctx, previous.ID); err != nil {
		return err
	}
	if previous.TrialID != "" {
		if err = c.repo.DeactivateTrial(ctx, previous.TrialID); err != nil {
			return err
		}
	}

	c.log.With(
		slog.String("license_id", previous.ID),
		slog.String("license_type", previous.LicenseType),
		sl.Email("admin", adminEmail),
	).Info("previous license superseded")
	return nil
}

// generateCodes returns one teacher code per teacher license.
func generateCodes(l *entity.License, now time.Time, days int) ([]entity.AccessCode, error) {
	codes := make([]entity.AccessCode, 0, l.TeacherLicenses)
	for i := 0; i < l.TeacherLicenses; i++ {
		code, err := newCode()
		if err != nil {
			return nil, fmt.Errorf("generate access code: %w", err)
		}
		codes = append(codes, entity.AccessCode{
			ID:          uuid.NewString(),
			Code:        code,
			Type:        entity.CodeTypeTeacher,
			School:      l.SchoolName,
			Admin:       l.AdminName,
			Used:        false,
			CreatedAt:   now,
			ExpiresAt:   now.Add(time.Duration(days) * day),
			LicenseType: l.LicenseType,
			TrialID:     l.TrialID,
		})
	}
	return codes, nil
}

// newCode is 4 random bytes as 8 upper-case hex characters.
func newCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// quantity parses a metadata count; anything unparseable counts as zero.
func quantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
