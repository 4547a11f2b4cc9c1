package portfolio

// HeaderMapping maps one brokerage-specific CSV header to a canonical field.
type HeaderMapping struct {
	Header string
	Field  Field
}

// BrokerTemplate describes one brokerage's CSV export layout as an ordered
// header-to-field mapping. Order matters twice: the mapped column order of
// the output follows it, and when two headers map to the same field the
// later entry wins.
type BrokerTemplate struct {
	Name     string
	Mappings []HeaderMapping
}

// lookup returns the canonical field for a header, if the template knows it.
func (t BrokerTemplate) lookup(header string) (Field, bool) {
	for _, m := range t.Mappings {
		if m.Header == header {
			return m.Field, true
		}
	}
	return "", false
}

// Catalog is an ordered, immutable set of broker templates. The first entry
// is the standard fallback; declaration order is the detector's tie-break.
type Catalog []BrokerTemplate

// standard returns the fallback template (by convention the first entry).
func (c Catalog) standard() BrokerTemplate {
	return c[0]
}

// detectThreshold is the minimum match score for a template to be trusted.
// Below it, an apparent best match is more likely coincidental header
// overlap than a real brokerage format, so the standard template applies.
const detectThreshold = 0.5

// Detect identifies which brokerage template produced a file from its header
// set. Each template is scored by the fraction of its own expected headers
// found in the file, so extra unmapped columns are not penalized. The
// strictly highest score wins; ties keep the earlier catalog entry.
func (c Catalog) Detect(headers []string) (string, BrokerTemplate) {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[h] = struct{}{}
	}

	best := c.standard()
	bestScore := -1.0

	for _, tpl := range c {
		matched := 0
		for _, m := range tpl.Mappings {
			if _, ok := present[m.Header]; ok {
				matched++
			}
		}
		score := float64(matched) / float64(len(tpl.Mappings))
		if score > bestScore {
			best = tpl
			bestScore = score
		}
	}

	if bestScore < detectThreshold {
		std := c.standard()
		return std.Name, std
	}
	return best.Name, best
}

// DefaultCatalog returns the built-in broker template catalog. It is created
// fresh per call so callers can treat their copy as immutable; the package
// level parser builds it once at construction.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name: "standard",
			Mappings: []HeaderMapping{
				{"銘柄コード", FieldCode},
				{"銘柄名", FieldName},
				{"市場区分", FieldMarket},
				{"セクター", FieldSector},
				{"保有数量", FieldQuantity},
				{"取得単価", FieldCostPrice},
				{"現在価格", FieldCurrentPrice},
				{"評価額", FieldValue},
				{"損益", FieldProfitLoss},
				{"損益率", FieldProfitLossRate},
				{"通貨", FieldCurrency},
				{"取得日", FieldAcquisitionDate},
				{"配当利回り", FieldDividendYield},
			},
		},
		{
			Name: "matsui",
			Mappings: []HeaderMapping{
				{"銘柄コード", FieldCode},
				{"銘柄名", FieldName},
				{"保有数", FieldQuantity},
				{"取得単価", FieldCostPrice},
				{"現在値", FieldCurrentPrice},
				{"損益", FieldProfitLoss},
				{"評価額", FieldValue},
			},
		},
		{
			Name: "matsui_us",
			Mappings: []HeaderMapping{
				{"ティッカー", FieldCode},
				{"銘柄", FieldName},
				{"市場", FieldMarket},
				{"口座区分", FieldAccountType},
				{"保有数[株]", FieldQuantity},
				{"取得平均[ドル]", FieldCostPriceUSD},
				{"取得平均[円]", FieldCostPrice},
				{"参考取得平均[ドル]", FieldRefCostPriceUSD},
				{"評価単価[ドル]", FieldCurrentPriceUSD},
				{"評価単価[円]", FieldCurrentPrice},
				{"時価評価額[ドル]", FieldValueUSD},
				{"時価評価額[円]", FieldValue},
				{"評価損益額[ドル]", FieldProfitLossUSD},
				{"評価損益額[円]", FieldProfitLoss},
				{"損益率[ドル]", FieldProfitLossRateUSD},
				{"損益率[円]", FieldProfitLossRate},
			},
		},
		{
			Name: "rakuten",
			Mappings: []HeaderMapping{
				{"銘柄コード", FieldCode},
				{"銘柄名", FieldName},
				{"市場", FieldMarket},
				{"保有株数", FieldQuantity},
				{"平均取得単価（円）", FieldCostPrice},
				{"現在値（円）", FieldCurrentPrice},
				{"評価額（円）", FieldValue},
				{"評価損益（円）", FieldProfitLoss},
				{"評価損益率（％）", FieldProfitLossRate},
			},
		},
		{
			Name: "sbi",
			Mappings: []HeaderMapping{
				{"銘柄コード", FieldCode},
				{"銘柄", FieldName},
				{"数量", FieldQuantity},
				{"平均取得単価", FieldCostPrice},
				{"現在値", FieldCurrentPrice},
				{"評価額", FieldValue},
				{"損益", FieldProfitLoss},
				{"損益率", FieldProfitLossRate},
			},
		},
	}
}
