package core

import (
	"SchoolLicensing/entity"

	"github.com/shopspring/decimal"
)

// Quote prices an order; totals are rounded to cents.
func (c *Core) Quote(req *entity.QuoteRequest) (*entity.Quote, error) {
	if req.StudentQuantity < 0 || req.TeacherQuantity < 0 {
		return nil, entity.Validation("License quantities cannot be negative")
	}

	studentTotal := c.studentPrice.Mul(decimal.NewFromInt(int64(req.StudentQuantity))).Round(2)
	teacherTotal := c.teacherPrice.Mul(decimal.NewFromInt(int64(req.TeacherQuantity))).Round(2)

	return &entity.Quote{
		StudentQuantity: req.StudentQuantity,
		TeacherQuantity: req.TeacherQuantity,
		StudentPrice:    c.studentPrice,
		TeacherPrice:    c.teacherPrice,
		StudentTotal:    studentTotal,
		TeacherTotal:    teacherTotal,
		GrandTotal:      studentTotal.Add(teacherTotal),
		Currency:        c.currency,
	}, nil
}

// centsToAmount converts a gateway minor-unit amount to dollars.
func centsToAmount(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
