package order

import (
	"regexp"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/floormaster/internal/domain/money"
	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
)

// MinArea is the smallest accepted order area in square feet.
var MinArea = money.MustParse("100.00")

var customerNameRe = regexp.MustCompile(`^[a-zA-Z0-9., ]+$`)

// Validator checks candidate orders against business rules and the tax and
// product catalogs. It holds no state of its own.
type Validator struct {
	taxes    tax.Provider
	products product.Provider
}

// NewValidator creates a Validator reading reference data from the given
// providers on every call.
func NewValidator(taxes tax.Provider, products product.Provider) *Validator {
	return &Validator{taxes: taxes, products: products}
}

// Validate checks every field of o and returns the first failure.
//
// When notBefore is non-zero the order date must be strictly after it; a zero
// notBefore accepts any date, which is how historical orders are edited.
func (v *Validator) Validate(o Order, notBefore Date) error {
	if err := validateDate(o.Date, notBefore); err != nil {
		return err
	}
	if err := validateCustomerName(o.CustomerName); err != nil {
		return err
	}
	rate, err := matchRate(v.taxes.Rates(), o.State)
	if err != nil {
		return err
	}
	p, err := matchProduct(v.products.Products(), o.ProductType)
	if err != nil {
		return err
	}
	if o.Area.LessThan(MinArea) {
		return &InvalidInputError{
			Field:  "area",
			Reason: "must be at least " + money.Format(MinArea) + " sq ft",
		}
	}
	if err := sameAmount("tax rate", o.TaxRate, rate.Rate); err != nil {
		return err
	}
	if err := sameAmount("cost per square foot", o.CostPerSquareFoot, p.CostPerSquareFoot); err != nil {
		return err
	}
	if err := sameAmount("labor cost per square foot", o.LaborCostPerSquareFoot, p.LaborCostPerSquareFoot); err != nil {
		return err
	}
	return nil
}

func validateDate(date, notBefore Date) error {
	if date.IsZero() {
		return &InvalidInputError{Field: "order date", Reason: "is required"}
	}
	if notBefore.IsZero() {
		return nil
	}
	if !date.After(notBefore) {
		return &InvalidInputError{
			Field:  "order date",
			Reason: "must be after " + notBefore.String(),
		}
	}
	return nil
}

func validateCustomerName(name string) error {
	if name == "" {
		return &InvalidInputError{Field: "customer name", Reason: "cannot be empty"}
	}
	if !customerNameRe.MatchString(name) {
		return &InvalidInputError{
			Field:  "customer name",
			Reason: "may only contain letters, digits, spaces, commas and periods",
		}
	}
	return nil
}

func matchRate(rates []tax.Rate, state string) (tax.Rate, error) {
	matched := tax.Match(rates, state)
	switch len(matched) {
	case 0:
		return tax.Rate{}, &InvalidInputError{Field: "state", Reason: "no tax rate for " + state}
	case 1:
		return matched[0], nil
	default:
		return tax.Rate{}, &PersistenceError{
			Err: errors.Errorf("%d tax entries share state %q", len(matched), state),
		}
	}
}

func matchProduct(products []product.Product, productType string) (product.Product, error) {
	matched := product.Match(products, productType)
	switch len(matched) {
	case 0:
		return product.Product{}, &InvalidInputError{Field: "product type", Reason: "unknown product " + productType}
	case 1:
		return matched[0], nil
	default:
		return product.Product{}, &PersistenceError{
			Err: errors.Errorf("%d products share type %q", len(matched), productType),
		}
	}
}

func sameAmount(field string, got, want decimal.Decimal) error {
	if !got.Equal(want) {
		return &InvalidInputError{
			Field:  field,
			Reason: "expected " + money.Format(want) + ", got " + money.Format(got),
		}
	}
	return nil
}
