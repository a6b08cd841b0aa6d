package order

import (
	"github.com/xenking/floormaster/internal/domain/money"
)

// Calculator fills the derived cost fields of validated orders.
type Calculator struct {
	validator *Validator
}

// NewCalculator creates a Calculator that validates with v before pricing.
func NewCalculator(v *Validator) *Calculator {
	return &Calculator{validator: v}
}

// Calculate validates o against notBefore (see Validator.Validate) and returns
// a copy with MaterialCost, LaborCost, Tax and Total computed. Invalid orders
// are rejected without pricing.
func (c *Calculator) Calculate(o Order, notBefore Date) (Order, error) {
	if err := c.validator.Validate(o, notBefore); err != nil {
		return Order{}, err
	}
	return priced(o), nil
}

// priced computes the derived fields, rounding half-up to cents at every step.
// The tax rate is reduced to a two-digit fraction before it is applied.
func priced(o Order) Order {
	o.MaterialCost = money.Round2(o.Area.Mul(o.CostPerSquareFoot))
	o.LaborCost = money.Round2(o.Area.Mul(o.LaborCostPerSquareFoot))
	subtotal := o.MaterialCost.Add(o.LaborCost)
	o.Tax = money.Round2(subtotal.Mul(money.Percent(o.TaxRate)))
	o.Total = money.Round2(subtotal.Add(o.Tax))
	return o
}
