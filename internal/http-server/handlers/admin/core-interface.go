package admin

import (
	"SchoolLicensing/entity"
	"context"
)

type Core interface {
	AdminPortal(ctx context.Context, adminEmail string) (*entity.AdminPortal, error)
	ValidateAdmin(ctx context.Context, adminEmail string) (*entity.AdminSummary, error)
	AdminStats(ctx context.Context, adminEmail string) (*entity.AdminStats, error)
	NextTeacherCode(ctx context.Context, adminEmail string) (*entity.TeacherCodeEmail, error)
	SendTeacherCode(ctx context.Context, req *entity.SendCodeRequest) (*entity.SendCodeResult, error)
	ExportCodes(ctx context.Context, adminEmail string) (*entity.License, []entity.AccessCode, error)
	SchoolLicense(ctx context.Context, schoolName string) (*entity.SchoolLicenseInfo, error)
	TeacherCodes(ctx context.Context, schoolName string) ([]entity.AccessCode, error)
	AccessCodes(ctx context.Context, schoolName string) ([]entity.AccessCode, error)
}
