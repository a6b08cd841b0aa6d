package file

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/floormaster/internal/domain/money"
	"github.com/xenking/floormaster/internal/domain/order"
)

const (
	delimiter = ","
	// nameSentinel stands in for delimiter inside customer names on disk.
	// A name that already contains it will not round-trip.
	nameSentinel = "*"
)

// OrderHeader is the mandatory first line of every order file.
var OrderHeader = []string{
	"OrderNumber",
	"CustomerName",
	"State",
	"TaxRate",
	"ProductType",
	"Area",
	"CostPerSquareFoot",
	"LaborCostPerSquareFoot",
	"MaterialCost",
	"LaborCost",
	"Tax",
	"Total",
}

// HeaderLine returns OrderHeader joined by the column delimiter.
func HeaderLine() string {
	return strings.Join(OrderHeader, delimiter)
}

func validHeader(line string) bool {
	fields := strings.Split(line, delimiter)
	if len(fields) != len(OrderHeader) {
		return false
	}
	for i, f := range fields {
		if f != OrderHeader[i] {
			return false
		}
	}
	return true
}

// FormatRecord encodes o as one order file row.
func FormatRecord(o order.Order) string {
	fields := []string{
		strconv.Itoa(o.Number),
		strings.ReplaceAll(o.CustomerName, delimiter, nameSentinel),
		o.State,
		money.Format(o.TaxRate),
		o.ProductType,
		money.Format(o.Area),
		money.Format(o.CostPerSquareFoot),
		money.Format(o.LaborCostPerSquareFoot),
		money.Format(o.MaterialCost),
		money.Format(o.LaborCost),
		money.Format(o.Tax),
		money.Format(o.Total),
	}
	return strings.Join(fields, delimiter)
}

// parseRecord decodes one order file row. The date comes from the file name.
func parseRecord(line string, date order.Date) (order.Order, error) {
	fields := strings.Split(line, delimiter)
	if len(fields) != len(OrderHeader) {
		return order.Order{}, errors.Errorf("expected %d fields, got %d", len(OrderHeader), len(fields))
	}

	number, err := strconv.Atoi(fields[0])
	if err != nil {
		return order.Order{}, errors.Wrap(err, "parse order number")
	}
	if number < 0 {
		return order.Order{}, errors.Errorf("negative order number %d", number)
	}

	o := order.Order{
		Number:       number,
		Date:         date,
		CustomerName: strings.ReplaceAll(fields[1], nameSentinel, delimiter),
		State:        fields[2],
		ProductType:  fields[4],
	}
	amounts := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&o.TaxRate, fields[3]},
		{&o.Area, fields[5]},
		{&o.CostPerSquareFoot, fields[6]},
		{&o.LaborCostPerSquareFoot, fields[7]},
		{&o.MaterialCost, fields[8]},
		{&o.LaborCost, fields[9]},
		{&o.Tax, fields[10]},
		{&o.Total, fields[11]},
	}
	for i, a := range amounts {
		v, err := money.Parse(a.src)
		if err != nil {
			return order.Order{}, errors.Wrapf(err, "column %s", amountColumns[i])
		}
		*a.dst = v
	}
	return o, nil
}

var amountColumns = []string{
	OrderHeader[3], OrderHeader[5], OrderHeader[6], OrderHeader[7],
	OrderHeader[8], OrderHeader[9], OrderHeader[10], OrderHeader[11],
}
