package portfolio

import "fmt"

// AllocationUnclassified is the sentinel bucket for rows whose sector or
// market is absent; allocation keys are never empty.
const AllocationUnclassified = "unclassified"

// aggregate computes the portfolio-wide summary from the completed table.
// All divisions are guarded, so a failure here is unexpected; any panic from
// the computation is converted into an AggregationError instead of crossing
// the package boundary.
func aggregate(t *normalizedTable) (summary PortfolioSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &AggregationError{Err: fmt.Errorf("%v", r)}
		}
	}()

	dualCurrency := t.hasColumn(FieldCostPriceUSD)

	summary.TotalValue = sumColumn(t.nums[FieldValue])
	summary.TotalValueCurrency = currencyJPY
	summary.TotalProfitLoss = sumColumn(t.nums[FieldProfitLoss])
	summary.TotalProfitLossCurrency = currencyJPY
	summary.TotalCost = sumProducts(t.nums[FieldQuantity], t.nums[FieldCostPrice])
	summary.TotalCostCurrency = currencyJPY

	if summary.TotalCost != 0 {
		summary.TotalProfitLossRate = summary.TotalProfitLoss / summary.TotalCost * 100
	}

	if dualCurrency {
		totalValueUSD := sumColumn(t.nums[FieldValueUSD])
		totalProfitLossUSD := sumColumn(t.nums[FieldProfitLossUSD])
		totalCostUSD := sumProducts(t.nums[FieldQuantity], t.nums[FieldCostPriceUSD])

		var totalRateUSD float64
		if totalCostUSD != 0 {
			totalRateUSD = totalProfitLossUSD / totalCostUSD * 100
		}

		summary.TotalValueUSD = &totalValueUSD
		summary.TotalCostUSD = &totalCostUSD
		summary.TotalProfitLossUSD = &totalProfitLossUSD
		summary.TotalProfitLossRateUSD = &totalRateUSD
	}

	summary.NumberOfStocks = t.length

	// Rows whose profit/loss could not be derived count as breakeven so the
	// three buckets always sum to the row count.
	for _, pl := range t.nums[FieldProfitLoss] {
		switch {
		case pl != nil && *pl > 0:
			summary.ProfitableStocks++
		case pl != nil && *pl < 0:
			summary.UnprofitableStocks++
		default:
			summary.BreakevenStocks++
		}
	}
	if !t.hasColumn(FieldProfitLoss) {
		summary.BreakevenStocks = t.length
	}

	if t.hasColumn(FieldSector) && t.hasColumn(FieldValue) {
		summary.SectorAllocation = groupValues(t.strs[FieldSector], t.nums[FieldValue])
	}
	if t.hasColumn(FieldMarket) && t.hasColumn(FieldValue) {
		summary.MarketAllocation = groupValues(t.strs[FieldMarket], t.nums[FieldValue])
	}

	return summary, nil
}

// sumColumn sums a numeric column, skipping missing cells.
func sumColumn(col []*float64) float64 {
	var total float64
	for _, v := range col {
		if v != nil {
			total += *v
		}
	}
	return total
}

// sumProducts sums a×b across rows, skipping rows with a missing operand.
func sumProducts(a, b []*float64) float64 {
	var total float64
	for i := range a {
		if i < len(b) && a[i] != nil && b[i] != nil {
			total += *a[i] * *b[i]
		}
	}
	return total
}

// groupValues sums the value column grouped by a string key column. Missing
// keys fall into the unclassified bucket; missing values are skipped.
func groupValues(keys []string, values []*float64) map[string]float64 {
	groups := make(map[string]float64)
	for i, key := range keys {
		if i >= len(values) || values[i] == nil {
			continue
		}
		if key == "" {
			key = AllocationUnclassified
		}
		groups[key] += *values[i]
	}
	return groups
}
