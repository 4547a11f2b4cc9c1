package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numTable(cols map[Field][]*float64, strs map[Field][]string, length int) *normalizedTable {
	t := &normalizedTable{
		length: length,
		strs:   make(map[Field][]string),
		nums:   make(map[Field][]*float64),
	}
	for f, col := range cols {
		t.fields = append(t.fields, f)
		t.nums[f] = col
	}
	for f, col := range strs {
		t.fields = append(t.fields, f)
		t.strs[f] = col
	}
	return t
}

func TestComplete_DerivesValueProfitAndRate(t *testing.T) {
	table := numTable(map[Field][]*float64{
		FieldQuantity:     {ptr(100), ptr(200)},
		FieldCostPrice:    {ptr(2500), ptr(1000)},
		FieldCurrentPrice: {ptr(3200), ptr(900)},
	}, nil, 2)

	complete(table)

	require.True(t, table.hasColumn(FieldValue))
	assert.Equal(t, 320000.0, *table.nums[FieldValue][0])
	assert.Equal(t, 180000.0, *table.nums[FieldValue][1])

	assert.Equal(t, 70000.0, *table.nums[FieldProfitLoss][0])
	assert.Equal(t, -20000.0, *table.nums[FieldProfitLoss][1])

	assert.InDelta(t, 28.0, *table.nums[FieldProfitLossRate][0], 1e-9)
	assert.InDelta(t, -10.0, *table.nums[FieldProfitLossRate][1], 1e-9)

	// cost_total is transient and never becomes a column
	assert.NotContains(t, table.nums, Field("cost_total"))
}

func TestComplete_ZeroCostGuard(t *testing.T) {
	table := numTable(map[Field][]*float64{
		FieldQuantity:     {ptr(100)},
		FieldCostPrice:    {ptr(0)},
		FieldCurrentPrice: {ptr(50)},
	}, nil, 1)

	complete(table)

	// cost_total == 0 yields rate 0, never an error or infinity.
	require.NotNil(t, table.nums[FieldProfitLossRate][0])
	assert.Equal(t, 0.0, *table.nums[FieldProfitLossRate][0])
}

func TestComplete_FullyPresentColumnUntouched(t *testing.T) {
	table := numTable(map[Field][]*float64{
		FieldQuantity:     {ptr(100)},
		FieldCostPrice:    {ptr(2500)},
		FieldCurrentPrice: {ptr(3200)},
		// explicit broker-supplied value differing from quantity × price
		FieldValue: {ptr(999999)},
	}, nil, 1)

	complete(table)

	assert.Equal(t, 999999.0, *table.nums[FieldValue][0])
}

func TestComplete_PartialColumnRecomputedWholesale(t *testing.T) {
	// Whole-column policy: one missing cell triggers a recompute of the
	// entire column, discarding the pre-existing explicit value in row 0.
	// This intentionally mirrors the upstream behavior; see DESIGN.md.
	table := numTable(map[Field][]*float64{
		FieldQuantity:     {ptr(100), ptr(10)},
		FieldCostPrice:    {ptr(2500), ptr(100)},
		FieldCurrentPrice: {ptr(3200), ptr(120)},
		FieldValue:        {ptr(999999), nil},
	}, nil, 2)

	complete(table)

	assert.Equal(t, 320000.0, *table.nums[FieldValue][0],
		"explicit value in a partially-filled column is recomputed away")
	assert.Equal(t, 1200.0, *table.nums[FieldValue][1])
}

func TestComplete_CurrencyDefaults(t *testing.T) {
	tests := []struct {
		name     string
		dual     bool
		existing []string
		want     []string
	}{
		{
			name: "missing column gets JPY",
			want: []string{"JPY", "JPY"},
		},
		{
			name:     "existing values preserved, gaps filled",
			existing: []string{"USD", ""},
			want:     []string{"USD", "JPY"},
		},
		{
			name: "dual currency defaults to USD",
			dual: true,
			want: []string{"USD", "USD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := map[Field][]*float64{
				FieldQuantity:     {ptr(1), ptr(2)},
				FieldCostPrice:    {ptr(10), ptr(20)},
				FieldCurrentPrice: {ptr(11), ptr(21)},
			}
			if tt.dual {
				cols[FieldCostPriceUSD] = []*float64{ptr(1), ptr(2)}
			}
			strs := map[Field][]string{}
			if tt.existing != nil {
				strs[FieldCurrency] = append([]string(nil), tt.existing...)
			}

			table := numTable(cols, strs, 2)
			complete(table)

			assert.Equal(t, tt.want, table.strs[FieldCurrency])
		})
	}
}

func TestComplete_DualCurrencyDerivations(t *testing.T) {
	table := numTable(map[Field][]*float64{
		FieldQuantity:        {ptr(10)},
		FieldCostPrice:       {ptr(15000)},
		FieldCurrentPrice:    {ptr(16500)},
		FieldCostPriceUSD:    {ptr(100)},
		FieldCurrentPriceUSD: {ptr(110)},
	}, nil, 1)

	complete(table)

	require.True(t, table.hasColumn(FieldValueUSD))
	assert.Equal(t, 1100.0, *table.nums[FieldValueUSD][0])
	assert.Equal(t, 100.0, *table.nums[FieldProfitLossUSD][0])
	assert.InDelta(t, 10.0, *table.nums[FieldProfitLossRateUSD][0], 1e-9)

	// JPY side derived independently
	assert.Equal(t, 165000.0, *table.nums[FieldValue][0])
	assert.Equal(t, 15000.0, *table.nums[FieldProfitLoss][0])
}

func TestComplete_MissingOperandLeavesCellMissing(t *testing.T) {
	table := numTable(map[Field][]*float64{
		FieldQuantity:     {ptr(100), nil},
		FieldCostPrice:    {ptr(2500), ptr(100)},
		FieldCurrentPrice: {ptr(3200), ptr(120)},
	}, nil, 2)

	complete(table)

	assert.NotNil(t, table.nums[FieldValue][0])
	assert.Nil(t, table.nums[FieldValue][1], "missing quantity cannot derive a value")
	assert.Nil(t, table.nums[FieldProfitLoss][1])
	assert.Nil(t, table.nums[FieldProfitLossRate][1])
}
