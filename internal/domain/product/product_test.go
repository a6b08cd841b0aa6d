package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	products := []Product{
		{Type: "Carpet", CostPerSquareFoot: decimal.RequireFromString("2.25")},
		{Type: "Tile", CostPerSquareFoot: decimal.RequireFromString("3.50")},
		{Type: "Tile", CostPerSquareFoot: decimal.RequireFromString("3.75")},
	}

	assert.Len(t, Match(products, "Carpet"), 1)
	assert.Len(t, Match(products, "Tile"), 2)
	assert.Empty(t, Match(products, "carpet"))
	assert.Empty(t, Match(nil, "Carpet"))
}

func TestCatalog_ProductsReturnsCopy(t *testing.T) {
	catalog := Catalog{{Type: "Carpet"}}

	products := catalog.Products()
	require.Len(t, products, 1)
	products[0].Type = "Wood"
	assert.Equal(t, "Carpet", catalog[0].Type)
}
