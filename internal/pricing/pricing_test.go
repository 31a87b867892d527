package pricing

import (
	"testing"

	"green-kart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSummary_GSTCorrectness(t *testing.T) {
	engine := NewEngine(0)

	summary, err := engine.ComputeSummary([]LineItem{
		{ProductID: "P001", Quantity: 2, UnitPrice: 100},
	}, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 200.0, summary.Subtotal)
	assert.Equal(t, 36.0, summary.Tax)
	assert.Equal(t, 0.0, summary.Discount)
	assert.Equal(t, 0.0, summary.DeliveryFee)
	assert.Equal(t, 236.0, summary.Total)
}

func TestComputeSummary_WithDeliveryFeeAndDiscount(t *testing.T) {
	engine := NewEngine(0)

	summary, err := engine.ComputeSummary([]LineItem{
		{ProductID: "P001", Quantity: 1, UnitPrice: 500},
		{ProductID: "P002", Quantity: 3, UnitPrice: 100},
	}, 50, 10)

	require.NoError(t, err)
	// subtotal 800, discount 80, taxable 720, tax 129.60, total 899.60
	assert.Equal(t, 800.0, summary.Subtotal)
	assert.Equal(t, 80.0, summary.Discount)
	assert.Equal(t, 129.60, summary.Tax)
	assert.Equal(t, 50.0, summary.DeliveryFee)
	assert.Equal(t, 899.60, summary.Total)
}

func TestComputeSummary_Deterministic(t *testing.T) {
	engine := NewEngine(0)
	items := []LineItem{
		{ProductID: "P001", Quantity: 3, UnitPrice: 149.99},
		{ProductID: "P002", Quantity: 1, UnitPrice: 12.35},
	}

	first, err := engine.ComputeSummary(items, 80, 5)
	require.NoError(t, err)
	second, err := engine.ComputeSummary(items, 80, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeSummary_TotalConsistentWithComponents(t *testing.T) {
	engine := NewEngine(0)

	cases := []struct {
		name  string
		items []LineItem
		fee   float64
		pct   float64
	}{
		{"single item", []LineItem{{ProductID: "A", Quantity: 1, UnitPrice: 299}}, 50, 0},
		{"multiple items", []LineItem{{ProductID: "A", Quantity: 2, UnitPrice: 199.5}, {ProductID: "B", Quantity: 5, UnitPrice: 49.9}}, 80, 0},
		{"with discount", []LineItem{{ProductID: "A", Quantity: 4, UnitPrice: 123.45}}, 0, 15},
		{"empty items", nil, 80, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			summary, err := engine.ComputeSummary(tc.items, tc.fee, tc.pct)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, summary.Total, 0.0)
			assert.InDelta(t,
				summary.Subtotal-summary.Discount+summary.Tax+summary.DeliveryFee,
				summary.Total,
				0.011, // component fields are each rounded to 2dp
			)
		})
	}
}

func TestComputeSummary_RejectsInvalidInput(t *testing.T) {
	engine := NewEngine(0)

	_, err := engine.ComputeSummary([]LineItem{{ProductID: "A", Quantity: 0, UnitPrice: 10}}, 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = engine.ComputeSummary([]LineItem{{ProductID: "A", Quantity: -2, UnitPrice: 10}}, 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = engine.ComputeSummary([]LineItem{{ProductID: "A", Quantity: 1, UnitPrice: -10}}, 0, 0)
	require.Error(t, err)

	_, err = engine.ComputeSummary(nil, -1, 0)
	require.Error(t, err)

	_, err = engine.ComputeSummary(nil, 0, 101)
	require.Error(t, err)

	_, err = engine.ComputeSummary(nil, 0, -5)
	require.Error(t, err)
}

func TestNewEngine_CustomRate(t *testing.T) {
	engine := NewEngine(0.05)

	summary, err := engine.ComputeSummary([]LineItem{
		{ProductID: "P001", Quantity: 1, UnitPrice: 100},
	}, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.Tax)
	assert.Equal(t, 105.0, summary.Total)
}
