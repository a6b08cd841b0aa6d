package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar day without time of day or location. The zero Date
// means "no date".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the Date for year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses s with the given time layout. Impossible calendar days
// such as 02/30 are rejected.
func ParseDate(layout, s string) (Date, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// Format formats d with a time layout.
func (d Date) Format(layout string) string {
	return d.Time().Format(layout)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// Key identifies an order. Order numbers are unique only within a date.
type Key struct {
	Date   Date
	Number int
}

func (k Key) String() string {
	return fmt.Sprintf("%s #%d", k.Date, k.Number)
}

// Order is one flooring job.
//
// MaterialCost, LaborCost, Tax and Total are derived by Calculator and never
// taken from user input.
type Order struct {
	Number                 int
	Date                   Date
	CustomerName           string
	State                  string
	TaxRate                decimal.Decimal
	ProductType            string
	Area                   decimal.Decimal
	CostPerSquareFoot      decimal.Decimal
	LaborCostPerSquareFoot decimal.Decimal

	MaterialCost decimal.Decimal
	LaborCost    decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// Key returns the primary key of o.
func (o Order) Key() Key {
	return Key{Date: o.Date, Number: o.Number}
}

// Equal reports whether o and other hold the same values. Decimal fields are
// compared numerically, so 2.5 equals 2.50.
func (o Order) Equal(other Order) bool {
	return o.Number == other.Number &&
		o.Date == other.Date &&
		o.CustomerName == other.CustomerName &&
		!o.PricedInputsChanged(other) &&
		o.MaterialCost.Equal(other.MaterialCost) &&
		o.LaborCost.Equal(other.LaborCost) &&
		o.Tax.Equal(other.Tax) &&
		o.Total.Equal(other.Total)
}

// PricedInputsChanged reports whether any field feeding the cost calculation
// differs between o and other.
func (o Order) PricedInputsChanged(other Order) bool {
	return o.State != other.State ||
		!o.TaxRate.Equal(other.TaxRate) ||
		o.ProductType != other.ProductType ||
		!o.Area.Equal(other.Area) ||
		!o.CostPerSquareFoot.Equal(other.CostPerSquareFoot) ||
		!o.LaborCostPerSquareFoot.Equal(other.LaborCostPerSquareFoot)
}
