package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

const recentEmailsLimit = 10

// resolveActiveLicense loads the admin's active license. A trial found past
// its end is deactivated together with its Trial record and reported as
// expired; every admin read path goes through here.
func (c *Core) resolveActiveLicense(ctx context.Context, adminEmail string) (*entity.License, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	license, err := c.repo.GetActiveLicenseByEmail(ctx, adminEmail)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, entity.NotFound("No active license or trial found for this admin")
	}

	now := c.now()
	if !license.TrialOver(now) {
		return license, nil
	}

	log := c.log.With(
		slog.String("license_id", license.ID),
		slog.String("trial_id", license.TrialID),
		sl.Email("admin", adminEmail),
	)
	err = c.repo.WithTransaction(ctx, func(ctx context.Context) error {
		if err := c.repo.DeactivateLicense(ctx, license.ID); err != nil {
			return err
		}
		if license.TrialID == "" {
			return nil
		}
		if err := c.repo.DeactivateTrial(ctx, license.TrialID); err != nil {
			return err
		}
		return c.repo.ExpireUnusedCodes(ctx, license.TrialID, now)
	})
	if err != nil {
		log.With(sl.Err(err)).Error("expire trial")
		return nil, err
	}
	log.Info("trial expired")

	return nil, entity.TrialExpired("Trial has expired").
		With("expired", true).
		With("trial_end_date", license.LicenseExpiry)
}

func (c *Core) AdminPortal(ctx context.Context, adminEmail string) (*entity.AdminPortal, error) {
	license, err := c.resolveActiveLicense(ctx, adminEmail)
	if err != nil {
		return nil, err
	}

	used, unused := true, false
	unusedCodes, err := c.repo.ListTeacherCodes(ctx, license.SchoolName, &unused)
	if err != nil {
		return nil, err
	}
	usedCodes, err := c.repo.ListTeacherCodes(ctx, license.SchoolName, &used)
	if err != nil {
		return nil, err
	}

	return &entity.AdminPortal{
		AdminSummary:   *entity.NewAdminSummary(license, c.now()),
		UnusedCodes:    unusedCodes,
		UsedCodes:      usedCodes,
		CodesRemaining: len(unusedCodes),
	}, nil
}

func (c *Core) ValidateAdmin(ctx context.Context, adminEmail string) (*entity.AdminSummary, error) {
	license, err := c.resolveActiveLicense(ctx, adminEmail)
	if err != nil {
		var e *entity.Error
		if errors.As(err, &e) {
			e.With("valid", false)
		}
		return nil, err
	}
	return entity.NewAdminSummary(license, c.now()), nil
}

func (c *Core) AdminStats(ctx context.Context, adminEmail string) (*entity.AdminStats, error) {
	license, err := c.resolveActiveLicense(ctx, adminEmail)
	if err != nil {
		return nil, err
	}

	stats, err := c.repo.CountTeacherCodes(ctx, license.SchoolName)
	if err != nil {
		return nil, err
	}
	emails, err := c.repo.RecentEmailLogs(ctx, adminEmail, recentEmailsLimit)
	if err != nil {
		return nil, err
	}

	return &entity.AdminStats{
		SchoolName:           license.SchoolName,
		DistrictName:         license.DistrictName,
		TotalTeacherLicenses: license.TeacherLicenses,
		TotalStudentLicenses: license.StudentLicenses,
		CodesGenerated:       stats.Total,
		CodesSent:            stats.Sent,
		CodesUsed:            stats.Used,
		CodesRemaining:       stats.Total - stats.Sent,
		PurchaseDate:         license.PurchaseDate,
		LicenseExpiry:        license.LicenseExpiry,
		RecentEmails:         emails,
	}, nil
}

// NextTeacherCode picks the oldest unused code and renders the invitation
// the admin can edit before sending.
func (c *Core) NextTeacherCode(ctx context.Context, adminEmail string) (*entity.TeacherCodeEmail, error) {
	license, err := c.resolveActiveLicense(ctx, adminEmail)
	if err != nil {
		return nil, err
	}

	code, err := c.repo.NextUnusedTeacherCode(ctx, license.SchoolName)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, entity.NotFound("No unused teacher codes available").With("codes_exhausted", true)
	}

	return c.teacherCodeEmail(license, code), nil
}

// SendTeacherCode claims a code for a teacher, then mails it. The claim is
// released when the mail cannot be delivered.
func (c *Core) SendTeacherCode(ctx context.Context, req *entity.SendCodeRequest) (*entity.SendCodeResult, error) {
	if c.mailer == nil {
		return nil, fmt.Errorf("mail service is not set")
	}
	license, err := c.resolveActiveLicense(ctx, req.AdminEmail)
	if err != nil {
		return nil, err
	}

	code, err := c.repo.GetAccessCodeByID(ctx, req.CodeID)
	if err != nil {
		return nil, err
	}
	if code == nil || code.Used || code.Type != entity.CodeTypeTeacher || code.School != license.SchoolName {
		return nil, entity.NotFound("Invalid or already used teacher code")
	}

	now := c.now()
	usage := entity.CodeUsage{
		UsedBy: req.RecipientEmail,
		UsedAt: now,
		SentBy: req.AdminEmail,
	}
	consumed, err := c.repo.ConsumeAccessCode(ctx, code.ID, usage)
	if err != nil {
		return nil, err
	}
	if consumed == nil {
		return nil, entity.Conflict("Access code already used")
	}

	emailID, err := c.mailer.Send(ctx, &entity.MailMessage{
		To:      req.RecipientEmail,
		ReplyTo: req.AdminEmail,
		Subject: req.Subject,
		Text:    req.Body,
		HTML:    strings.ReplaceAll(req.Body, "\n", "<br>"),
	})
	if err != nil {
		if rErr := c.repo.ReleaseAccessCode(context.WithoutCancel(ctx), code.ID, usage); rErr != nil {
			c.log.With(sl.Err(rErr), slog.String("code_id", code.ID)).Error("release teacher code")
		}
		return nil, entity.Upstream(err)
	}

	emailLog := &entity.EmailLog{
		ID:             uuid.NewString(),
		Type:           entity.EmailTypeTeacherCode,
		AdminEmail:     req.AdminEmail,
		RecipientEmail: req.RecipientEmail,
		SchoolName:     license.SchoolName,
		TeacherCode:    code.Code,
		CodeID:         code.ID,
		Subject:        req.Subject,
		SentAt:         now,
		EmailID:        emailID,
	}
	if err = c.repo.InsertEmailLog(ctx, emailLog); err != nil {
		c.log.With(sl.Err(err)).Error("write email log")
	}

	c.log.With(
		slog.String("code_id", code.ID),
		slog.String("school", license.SchoolName),
		sl.Email("to", req.RecipientEmail),
	).Info("teacher code sent")

	return &entity.SendCodeResult{
		Success: true,
		Message: "Teacher access code email sent successfully",
		EmailID: emailID,
		SentTo:  req.RecipientEmail,
	}, nil
}

// ExportCodes returns the school's teacher codes for the spreadsheet export.
func (c *Core) ExportCodes(ctx context.Context, adminEmail string) (*entity.License, []entity.AccessCode, error) {
	license, err := c.resolveActiveLicense(ctx, adminEmail)
	if err != nil {
		return nil, nil, err
	}
	codes, err := c.repo.ListTeacherCodes(ctx, license.SchoolName, nil)
	if err != nil {
		return nil, nil, err
	}
	return license, codes, nil
}

func (c *Core) SchoolLicense(ctx context.Context, schoolName string) (*entity.SchoolLicenseInfo, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	license, err := c.repo.GetActiveLicenseBySchool(ctx, schoolName)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, entity.NotFound("No active license found")
	}

	return &entity.SchoolLicenseInfo{
		SchoolName:      license.SchoolName,
		DistrictName:    license.DistrictName,
		TeacherLicenses: license.TeacherLicenses,
		StudentLicenses: license.StudentLicenses,
		PurchaseDate:    license.PurchaseDate,
		LicenseExpiry:   license.LicenseExpiry,
		AdminEmail:      license.AdminEmail,
		AdminName:       license.AdminName,
	}, nil
}

func (c *Core) TeacherCodes(ctx context.Context, schoolName string) ([]entity.AccessCode, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}
	return c.repo.ListTeacherCodes(ctx, schoolName, nil)
}

// AccessCodes lists the school's codes of every type.
func (c *Core) AccessCodes(ctx context.Context, schoolName string) ([]entity.AccessCode, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}
	return c.repo.ListAccessCodes(ctx, schoolName)
}
