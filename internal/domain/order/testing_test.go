package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/floormaster/internal/domain/product"
	"github.com/xenking/floormaster/internal/domain/tax"
)

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var (
	testTaxes = tax.Table{
		{State: "Texas", Abbreviation: "TX", Rate: d("4.45")},
		{State: "Washington", Abbreviation: "WA", Rate: d("9.25")},
	}
	testProducts = product.Catalog{
		{Type: "Carpet", CostPerSquareFoot: d("2.25"), LaborCostPerSquareFoot: d("2.10")},
		{Type: "Tile", CostPerSquareFoot: d("3.50"), LaborCostPerSquareFoot: d("4.15")},
	}
	testDate = NewDate(2026, time.October, 20)
)

func newTestOrder() Order {
	return Order{
		Number:                 1,
		Date:                   testDate,
		CustomerName:           "Doctor Who, Inc.",
		State:                  "Texas",
		TaxRate:                d("4.45"),
		ProductType:            "Carpet",
		Area:                   d("249.00"),
		CostPerSquareFoot:      d("2.25"),
		LaborCostPerSquareFoot: d("2.10"),
	}
}
