package operator

import (
	"SchoolLicensing/entity"
	"context"
)

type Core interface {
	ManualPurchase(ctx context.Context, req *entity.ManualPurchase) (*entity.ManualPurchaseResult, error)
	GenerateApiKey(ctx context.Context, username string) (string, error)
}
