// Package portfolio normalizes brokerage-exported CSV holdings into a single
// canonical schema and computes portfolio-level aggregates.
//
// The pipeline is strictly linear: decode bytes, read the table, detect the
// broker template, map columns, validate the schema, normalize cell types,
// complete derivable fields, aggregate. Each stage consumes the previous
// stage's output and fails fast with a typed error; only per-cell numeric and
// date coercion is downgraded to missing values. The package holds no mutable
// state between calls, so a Parser is safe for concurrent use.
package portfolio

import (
	"context"
	"log/slog"
)

// Parser is the core entry point. The template catalog is injected at
// construction and never mutated afterwards.
type Parser struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewParser creates a parser over the given catalog. A nil catalog uses the
// built-in broker templates; a nil logger uses slog's default.
func NewParser(catalog Catalog, logger *slog.Logger) *Parser {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "portfolio_parser")),
	}
}

// Parse converts raw CSV bytes into normalized holdings plus a portfolio
// summary. encodingHint may name the preferred encoding ("utf-8",
// "shift-jis", "iso-8859-1"); an empty or unknown hint starts from UTF-8.
// Failures are typed: DecodeError, MalformedTableError,
// MissingRequiredFieldError or AggregationError.
func (p *Parser) Parse(ctx context.Context, raw []byte, encodingHint string) (*Result, error) {
	text, err := decodeText(raw, encodingHint)
	if err != nil {
		return nil, err
	}

	table, err := readTable(text)
	if err != nil {
		return nil, err
	}

	templateName, tpl := p.catalog.Detect(table.Headers)
	p.logger.DebugContext(ctx, "broker template detected",
		slog.String("template", templateName),
		slog.Int("columns", len(table.Headers)),
		slog.Int("rows", len(table.Rows)))

	mapped := mapColumns(table, tpl)
	if err := validateRequired(mapped); err != nil {
		return nil, err
	}

	normalized := normalize(mapped)
	complete(normalized)

	summary, err := aggregate(normalized)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TemplateName: templateName,
		Items:        buildRows(normalized),
		Summary:      summary,
	}

	p.logger.InfoContext(ctx, "portfolio parsed",
		slog.String("template", templateName),
		slog.Int("holdings", len(result.Items)),
		slog.Float64("total_value", summary.TotalValue))

	return result, nil
}

// buildRows converts the completed column store into typed holding rows,
// preserving input row order.
func buildRows(t *normalizedTable) []HoldingRow {
	rows := make([]HoldingRow, t.length)
	for i := range rows {
		row := &rows[i]
		row.Code = t.strAt(FieldCode, i)
		row.Name = t.strAt(FieldName, i)
		row.Market = t.strAt(FieldMarket, i)
		row.Sector = t.strAt(FieldSector, i)
		row.AccountType = t.strAt(FieldAccountType, i)
		row.Currency = t.strAt(FieldCurrency, i)
		if date := t.strAt(FieldAcquisitionDate, i); date != "" {
			row.AcquisitionDate = &date
		}

		row.Quantity = t.numAt(FieldQuantity, i)
		row.CostPrice = t.numAt(FieldCostPrice, i)
		row.CurrentPrice = t.numAt(FieldCurrentPrice, i)
		row.Value = t.numAt(FieldValue, i)
		row.ProfitLoss = t.numAt(FieldProfitLoss, i)
		row.ProfitLossRate = t.numAt(FieldProfitLossRate, i)
		row.DividendYield = t.numAt(FieldDividendYield, i)

		row.CostPriceUSD = t.numAt(FieldCostPriceUSD, i)
		row.CurrentPriceUSD = t.numAt(FieldCurrentPriceUSD, i)
		row.ValueUSD = t.numAt(FieldValueUSD, i)
		row.ProfitLossUSD = t.numAt(FieldProfitLossUSD, i)
		row.ProfitLossRateUSD = t.numAt(FieldProfitLossRateUSD, i)
	}
	return rows
}

// strAt returns a string cell, or "" when the column is absent.
func (t *normalizedTable) strAt(f Field, i int) string {
	col, ok := t.strs[f]
	if !ok || i >= len(col) {
		return ""
	}
	return col[i]
}

// numAt returns a copy of a numeric cell, or nil when absent. Copying keeps
// the returned rows independent of the table's internal columns.
func (t *normalizedTable) numAt(f Field, i int) *float64 {
	col, ok := t.nums[f]
	if !ok || i >= len(col) || col[i] == nil {
		return nil
	}
	v := *col[i]
	return &v
}
