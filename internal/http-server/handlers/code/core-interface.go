package code

import (
	"SchoolLicensing/entity"
	"context"
)

type Core interface {
	ValidateTeacherCode(ctx context.Context, code string) (*entity.CodeValidation, error)
	UseTeacherCode(ctx context.Context, req *entity.UseCodeRequest) (*entity.CodeConsumption, error)
	ValidateLicenseCapacity(ctx context.Context, code string) (*entity.CapacityCheck, error)
	ValidateUserAccess(ctx context.Context, req *entity.UserAccessRequest) (*entity.UserAccess, error)
}
