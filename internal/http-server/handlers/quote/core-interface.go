package quote

import (
	"SchoolLicensing/entity"
	"context"
)

type Core interface {
	Quote(req *entity.QuoteRequest) (*entity.Quote, error)
	SendQuoteEmail(ctx context.Context, req *entity.QuoteEmail) error
}
