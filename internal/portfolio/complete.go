package portfolio

// Currency codes assigned to rows without an explicit currency.
const (
	currencyJPY = "JPY"
	currencyUSD = "USD"
)

// complete fills derivable valuation and profit fields column by column.
//
// Recompute policy: a target column that is absent, or that has any missing
// cell, is recomputed for the entire column. This reproduces the upstream
// behavior exactly; it means a partially filled derived column loses its
// pre-existing values. The tradeoff is pinned by a test in complete_test.go.
//
// The transient cost-total columns exist only inside this function and are
// never part of the output.
func complete(t *normalizedTable) {
	dualCurrency := t.hasColumn(FieldCostPriceUSD)

	if t.hasColumn(FieldQuantity) && t.hasColumn(FieldCurrentPrice) {
		if t.hasMissing(FieldValue) {
			t.setNumColumn(FieldValue, mulColumns(t.nums[FieldQuantity], t.nums[FieldCurrentPrice]))
		}
	}
	if dualCurrency && t.hasColumn(FieldQuantity) && t.hasColumn(FieldCurrentPriceUSD) {
		if t.hasMissing(FieldValueUSD) {
			t.setNumColumn(FieldValueUSD, mulColumns(t.nums[FieldQuantity], t.nums[FieldCurrentPriceUSD]))
		}
	}

	var costTotal, costTotalUSD []*float64
	if t.hasColumn(FieldQuantity) && t.hasColumn(FieldCostPrice) {
		costTotal = mulColumns(t.nums[FieldQuantity], t.nums[FieldCostPrice])
	}
	if dualCurrency && t.hasColumn(FieldQuantity) && t.hasColumn(FieldCostPriceUSD) {
		costTotalUSD = mulColumns(t.nums[FieldQuantity], t.nums[FieldCostPriceUSD])
	}

	if t.hasColumn(FieldValue) && costTotal != nil {
		if t.hasMissing(FieldProfitLoss) {
			t.setNumColumn(FieldProfitLoss, subColumns(t.nums[FieldValue], costTotal))
		}
	}
	if dualCurrency && t.hasColumn(FieldValueUSD) && costTotalUSD != nil {
		if t.hasMissing(FieldProfitLossUSD) {
			t.setNumColumn(FieldProfitLossUSD, subColumns(t.nums[FieldValueUSD], costTotalUSD))
		}
	}

	if t.hasColumn(FieldProfitLoss) && costTotal != nil {
		if t.hasMissing(FieldProfitLossRate) {
			t.setNumColumn(FieldProfitLossRate, rateColumns(t.nums[FieldProfitLoss], costTotal))
		}
	}
	if dualCurrency && t.hasColumn(FieldProfitLossUSD) && costTotalUSD != nil {
		if t.hasMissing(FieldProfitLossRateUSD) {
			t.setNumColumn(FieldProfitLossRateUSD, rateColumns(t.nums[FieldProfitLossUSD], costTotalUSD))
		}
	}

	fillCurrency(t, dualCurrency)
}

// fillCurrency assigns the default currency to rows without an explicit one.
// Unlike the numeric completions this is cell-wise: existing values are
// always preserved.
func fillCurrency(t *normalizedTable, dualCurrency bool) {
	def := currencyJPY
	if dualCurrency {
		def = currencyUSD
	}

	col, ok := t.strs[FieldCurrency]
	if !ok {
		col = make([]string, t.length)
	}
	for i, v := range col {
		if v == "" {
			col[i] = def
		}
	}
	t.setStrColumn(FieldCurrency, col)
}

// mulColumns multiplies two columns cell-wise; a missing operand yields a
// missing result.
func mulColumns(a, b []*float64) []*float64 {
	out := make([]*float64, len(a))
	for i := range a {
		if a[i] == nil || b[i] == nil {
			continue
		}
		v := *a[i] * *b[i]
		out[i] = &v
	}
	return out
}

// subColumns subtracts column b from column a cell-wise.
func subColumns(a, b []*float64) []*float64 {
	out := make([]*float64, len(a))
	for i := range a {
		if a[i] == nil || b[i] == nil {
			continue
		}
		v := *a[i] - *b[i]
		out[i] = &v
	}
	return out
}

// rateColumns computes profit/cost × 100 cell-wise. A zero cost yields 0,
// never a division error or infinity.
func rateColumns(profit, cost []*float64) []*float64 {
	out := make([]*float64, len(profit))
	for i := range profit {
		if profit[i] == nil || cost[i] == nil {
			continue
		}
		var v float64
		if *cost[i] != 0 {
			v = *profit[i] / *cost[i] * 100
		}
		out[i] = &v
	}
	return out
}
