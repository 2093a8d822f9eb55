package core

import (
	"SchoolLicensing/entity"
	"SchoolLicensing/internal/lib/sl"
	"context"
	"log/slog"
)

// ValidateTeacherCode is a pure read; redeeming is done by UseTeacherCode.
func (c *Core) ValidateTeacherCode(ctx context.Context, code string) (*entity.CodeValidation, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	accessCode, err := c.repo.GetAccessCode(ctx, code, entity.CodeTypeTeacher)
	if err != nil {
		return nil, err
	}
	if accessCode == nil {
		return nil, entity.NotFound("Invalid teacher access code")
	}
	if accessCode.Used {
		return nil, entity.AlreadyUsed("Teacher access code already used")
	}
	if accessCode.IsExpired(c.now()) {
		return nil, entity.Expired("Access code expired")
	}

	licenseType := accessCode.LicenseType
	if licenseType == "" {
		licenseType = entity.LicenseTypePaid
	}
	var trialID *string
	if accessCode.TrialID != "" {
		id := accessCode.TrialID
		trialID = &id
	}

	return &entity.CodeValidation{
		Valid:       true,
		School:      accessCode.School,
		Type:        entity.CodeTypeTeacher,
		CodeID:      accessCode.ID,
		LicenseType: licenseType,
		ExpiresAt:   accessCode.ExpiresAt,
		TrialID:     trialID,
	}, nil
}

// UseTeacherCode consumes a code exactly once; a second consumer gets a conflict.
func (c *Core) UseTeacherCode(ctx context.Context, req *entity.UseCodeRequest) (*entity.CodeConsumption, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	usage := entity.CodeUsage{UsedBy: req.UserEmail, UsedAt: c.now()}
	code, err := c.repo.ConsumeAccessCode(ctx, req.CodeID, usage)
	if err != nil {
		return nil, err
	}

	if code == nil {
		existing, err := c.repo.GetAccessCodeByID(ctx, req.CodeID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, entity.NotFound("Access code not found")
		}
		return nil, entity.Conflict("Access code already used")
	}

	c.log.With(
		slog.String("code_id", code.ID),
		slog.String("school", code.School),
		sl.Email("user", req.UserEmail),
		slog.String("user_name", req.UserName),
	).Info("access code used")

	return &entity.CodeConsumption{Success: true, School: code.School}, nil
}

// ValidateLicenseCapacity checks a code of any type and that the school
// still has seats left.
func (c *Core) ValidateLicenseCapacity(ctx context.Context, code string) (*entity.CapacityCheck, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	accessCode, err := c.repo.GetAccessCode(ctx, code, "")
	if err != nil {
		return nil, err
	}
	if accessCode == nil {
		return nil, entity.NotFound("Invalid access code")
	}
	if accessCode.Used {
		return nil, entity.AlreadyUsed("Access code already used")
	}
	if accessCode.IsExpired(c.now()) {
		return nil, entity.Expired("Access code expired")
	}

	license, err := c.repo.GetActiveLicenseBySchool(ctx, accessCode.School)
	if err != nil {
		return nil, err
	}
	if license == nil {
		return nil, entity.NotFound("No active license found for this school")
	}

	users, err := c.repo.CountUserProfiles(ctx, accessCode.School)
	if err != nil {
		return nil, err
	}
	seats := int64(license.TotalSeats())
	if users >= seats {
		return nil, entity.CapacityExceeded("License capacity exceeded")
	}

	return &entity.CapacityCheck{
		Valid:             true,
		School:            accessCode.School,
		Type:              accessCode.Type,
		RemainingCapacity: int(seats - users),
	}, nil
}

// ValidateUserAccess checks whether an application user may still log in;
// trial users lose access when their trial ends.
func (c *Core) ValidateUserAccess(ctx context.Context, req *entity.UserAccessRequest) (*entity.UserAccess, error) {
	if err := c.checkRepository(); err != nil {
		return nil, err
	}

	user, err := c.repo.GetUser(ctx, req.UserEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.NotFound("User not found").With("valid", false)
	}

	if user.LicenseType != entity.LicenseTypeTrial || user.TrialID == "" {
		return &entity.UserAccess{Valid: true, LicenseType: entity.LicenseTypePaid}, nil
	}

	trial, err := c.repo.GetTrial(ctx, user.TrialID)
	if err != nil {
		return nil, err
	}
	if trial == nil {
		return nil, entity.NotFound("Associated trial not found").With("valid", false)
	}

	now := c.now()
	end := trial.TrialEndDate
	if now.After(end) {
		return nil, entity.TrialExpired("Trial access has expired").
			With("valid", false).
			With("expired", true).
			With("trial_end_date", end).
			With("message", "Your 30-day trial has expired. Please contact your administrator to purchase a full license.")
	}

	days := entity.DaysRemaining(end, now)
	return &entity.UserAccess{
		Valid:        true,
		LicenseType:  entity.LicenseTypeTrial,
		TrialEndDate: &end,
		DaysLeft:     &days,
		SchoolName:   trial.SchoolName,
	}, nil
}
