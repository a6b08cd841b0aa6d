package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_Calculate(t *testing.T) {
	tests := []struct {
		name         string
		order        func() Order
		wantMaterial string
		wantLabor    string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "carpet in texas",
			order:        newTestOrder,
			wantMaterial: "560.25",
			wantLabor:    "522.90",
			// 1083.15 * 0.04, the rate is rounded before multiplying.
			wantTax:   "43.33",
			wantTotal: "1126.48",
		},
		{
			name: "tile in washington",
			order: func() Order {
				o := newTestOrder()
				o.State = "Washington"
				o.TaxRate = d("9.25")
				o.ProductType = "Tile"
				o.CostPerSquareFoot = d("3.50")
				o.LaborCostPerSquareFoot = d("4.15")
				o.Area = d("100.55")
				return o
			},
			// 100.55 * 3.50 = 351.925 -> 351.93
			wantMaterial: "351.93",
			// 100.55 * 4.15 = 417.2825 -> 417.28
			wantLabor: "417.28",
			// 769.21 * 0.09 = 69.2289 -> 69.23
			wantTax:   "69.23",
			wantTotal: "838.44",
		},
	}

	c := NewCalculator(NewValidator(testTaxes, testProducts))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Calculate(tt.order(), Date{})
			require.NoError(t, err)

			assert.Equal(t, tt.wantMaterial, got.MaterialCost.StringFixed(2))
			assert.Equal(t, tt.wantLabor, got.LaborCost.StringFixed(2))
			assert.Equal(t, tt.wantTax, got.Tax.StringFixed(2))
			assert.Equal(t, tt.wantTotal, got.Total.StringFixed(2))
		})
	}
}

func TestCalculator_OverwritesDerivedFields(t *testing.T) {
	o := newTestOrder()
	o.MaterialCost = d("1")
	o.LaborCost = d("2")
	o.Tax = d("3")
	o.Total = d("4")

	got, err := NewCalculator(NewValidator(testTaxes, testProducts)).Calculate(o, Date{})
	require.NoError(t, err)
	assert.True(t, d("1126.48").Equal(got.Total))
	assert.True(t, d("4").Equal(o.Total), "input must not be modified")
}

func TestCalculator_Idempotent(t *testing.T) {
	c := NewCalculator(NewValidator(testTaxes, testProducts))

	first, err := c.Calculate(newTestOrder(), Date{})
	require.NoError(t, err)
	second, err := c.Calculate(first, Date{})
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestCalculator_RejectsInvalidOrder(t *testing.T) {
	o := newTestOrder()
	o.Area = d("50")

	got, err := NewCalculator(NewValidator(testTaxes, testProducts)).Calculate(o, Date{})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, Order{}, got)
}
