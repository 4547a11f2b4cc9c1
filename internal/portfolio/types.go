package portfolio

// Field is a canonical column name that every brokerage-specific CSV header
// is mapped to before any further processing.
type Field string

// Canonical fields. The USD variants only appear for dual-currency exports
// (US holdings reported in both JPY and USD).
const (
	FieldCode            Field = "code"
	FieldName            Field = "name"
	FieldMarket          Field = "market"
	FieldSector          Field = "sector"
	FieldAccountType     Field = "account_type"
	FieldQuantity        Field = "quantity"
	FieldCostPrice       Field = "cost_price"
	FieldCurrentPrice    Field = "current_price"
	FieldValue           Field = "value"
	FieldProfitLoss      Field = "profit_loss"
	FieldProfitLossRate  Field = "profit_loss_rate"
	FieldCurrency        Field = "currency"
	FieldAcquisitionDate Field = "acquisition_date"
	FieldDividendYield   Field = "dividend_yield"

	FieldCostPriceUSD      Field = "cost_price_usd"
	FieldRefCostPriceUSD   Field = "reference_cost_price_usd"
	FieldCurrentPriceUSD   Field = "current_price_usd"
	FieldValueUSD          Field = "value_usd"
	FieldProfitLossUSD     Field = "profit_loss_usd"
	FieldProfitLossRateUSD Field = "profit_loss_rate_usd"
)

// requiredFields must all be present as columns after mapping. A file that
// cannot supply them is rejected before normalization.
var requiredFields = []Field{
	FieldCode,
	FieldName,
	FieldQuantity,
	FieldCostPrice,
	FieldCurrentPrice,
}

// numericFields are coerced to float64 during normalization. Cells that fail
// coercion become missing rather than failing the whole file.
var numericFields = []Field{
	FieldQuantity,
	FieldCostPrice,
	FieldCurrentPrice,
	FieldValue,
	FieldProfitLoss,
	FieldProfitLossRate,
	FieldDividendYield,
	FieldCostPriceUSD,
	FieldRefCostPriceUSD,
	FieldCurrentPriceUSD,
	FieldValueUSD,
	FieldProfitLossUSD,
	FieldProfitLossRateUSD,
}

// fieldLabels are the human-readable (Japanese) names used in user-facing
// validation messages, mirroring the standard template's headers.
var fieldLabels = map[Field]string{
	FieldCode:            "銘柄コード",
	FieldName:            "銘柄名",
	FieldMarket:          "市場区分",
	FieldSector:          "セクター",
	FieldQuantity:        "保有数量",
	FieldCostPrice:       "取得単価",
	FieldCurrentPrice:    "現在価格",
	FieldValue:           "評価額",
	FieldProfitLoss:      "損益",
	FieldProfitLossRate:  "損益率",
	FieldCurrency:        "通貨",
	FieldAcquisitionDate: "取得日",
	FieldDividendYield:   "配当利回り",
}

// Label returns the human-readable name for a canonical field, falling back
// to the field name itself for fields without a Japanese label.
func (f Field) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// Tag classification for market and sector values. Values present in the CSV
// but outside these sets are classified as TagOther; absent values stay empty
// and are grouped under the sentinel allocation bucket by the aggregator.
const TagOther = "other"

var knownMarkets = map[string]struct{}{
	"東証プライム":   {},
	"東証スタンダード": {},
	"東証グロース":   {},
	"東証一部":     {},
	"東証二部":     {},
	"名証":       {},
	"福証":       {},
	"札証":       {},
	"NASDAQ":   {},
	"NYSE":     {},
	"AMEX":     {},
}

var knownSectors = map[string]struct{}{
	"水産・農林業":    {},
	"鉱業":        {},
	"建設業":       {},
	"食料品":       {},
	"繊維製品":      {},
	"化学":        {},
	"医薬品":       {},
	"石油・石炭製品":   {},
	"ゴム製品":      {},
	"ガラス・土石製品":  {},
	"鉄鋼":        {},
	"非鉄金属":      {},
	"金属製品":      {},
	"機械":        {},
	"電気機器":      {},
	"輸送用機器":     {},
	"精密機器":      {},
	"その他製品":     {},
	"電気・ガス業":    {},
	"陸運業":       {},
	"海運業":       {},
	"空運業":       {},
	"倉庫・運輸関連業":  {},
	"情報・通信業":    {},
	"卸売業":       {},
	"小売業":       {},
	"銀行業":       {},
	"証券・商品先物取引業": {},
	"保険業":       {},
	"その他金融業":    {},
	"不動産業":      {},
	"サービス業":     {},
}

// HoldingRow is one normalized stock position. Required fields are guaranteed
// non-empty after a successful parse; optional numeric fields are nil when the
// source file did not carry them and they could not be derived.
type HoldingRow struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Market          string   `json:"market,omitempty"`
	Sector          string   `json:"sector,omitempty"`
	AccountType     string   `json:"account_type,omitempty"`
	Quantity        *float64 `json:"quantity"`
	CostPrice       *float64 `json:"cost_price"`
	CurrentPrice    *float64 `json:"current_price"`
	Value           *float64 `json:"value,omitempty"`
	ProfitLoss      *float64 `json:"profit_loss,omitempty"`
	ProfitLossRate  *float64 `json:"profit_loss_rate,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	AcquisitionDate *string  `json:"acquisition_date,omitempty"`
	DividendYield   *float64 `json:"dividend_yield,omitempty"`

	CostPriceUSD      *float64 `json:"cost_price_usd,omitempty"`
	CurrentPriceUSD   *float64 `json:"current_price_usd,omitempty"`
	ValueUSD          *float64 `json:"value_usd,omitempty"`
	ProfitLossUSD     *float64 `json:"profit_loss_usd,omitempty"`
	ProfitLossRateUSD *float64 `json:"profit_loss_rate_usd,omitempty"`
}

// PortfolioSummary is the aggregate projection over a parsed row set.
// JPY totals are always present; USD totals only for dual-currency files.
type PortfolioSummary struct {
	TotalValue              float64 `json:"total_value"`
	TotalValueCurrency      string  `json:"total_value_currency"`
	TotalCost               float64 `json:"total_cost"`
	TotalCostCurrency       string  `json:"total_cost_currency"`
	TotalProfitLoss         float64 `json:"total_profit_loss"`
	TotalProfitLossCurrency string  `json:"total_profit_loss_currency"`
	TotalProfitLossRate     float64 `json:"total_profit_loss_rate"`

	TotalValueUSD          *float64 `json:"total_value_usd,omitempty"`
	TotalCostUSD           *float64 `json:"total_cost_usd,omitempty"`
	TotalProfitLossUSD     *float64 `json:"total_profit_loss_usd,omitempty"`
	TotalProfitLossRateUSD *float64 `json:"total_profit_loss_rate_usd,omitempty"`

	NumberOfStocks     int `json:"number_of_stocks"`
	ProfitableStocks   int `json:"profitable_stocks"`
	UnprofitableStocks int `json:"unprofitable_stocks"`
	BreakevenStocks    int `json:"breakeven_stocks"`

	SectorAllocation map[string]float64 `json:"sector_allocation,omitempty"`
	MarketAllocation map[string]float64 `json:"market_allocation,omitempty"`
}

// Result is the outcome of a successful parse.
type Result struct {
	TemplateName string           `json:"broker_type"`
	Items        []HoldingRow     `json:"items"`
	Summary      PortfolioSummary `json:"summary"`
}
