package checkout

import (
	"SchoolLicensing/entity"
	"context"
)

type Core interface {
	CreateCheckoutSession(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutResult, error)
	GetCheckoutSession(ctx context.Context, id string) (*entity.SessionStatus, error)
}
