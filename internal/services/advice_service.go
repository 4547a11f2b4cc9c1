package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"google.golang.org/genai"

	"kabucli/internal/config"
	"kabucli/internal/portfolio"
)

// advicePrompt frames the model as an investment advisor for Japanese retail
// investors and pins the response structure.
const advicePrompt = `あなたは投資アドバイザーです。日本の個人投資家向けにポートフォリオの分析と改善提案を行います。
以下のルールに従ってください：

1. 具体的な数値分析に基づいた提案をしてください
2. 理論的根拠と実践的なアドバイスをバランスよく提供してください
3. ポートフォリオの強みと弱みを明確に示してください
4. リスク分散、セクター配分、銘柄選定について具体的な提案をしてください
5. 専門用語は必要に応じて使用しますが、わかりやすい言葉で説明してください
6. 投資判断の最終決定はユーザー自身が行うことを前提としてください

回答のフォーマット：
- 「ポートフォリオ分析」セクション：現状の評価と特徴を述べる
- 「改善提案」セクション：具体的なアクション項目を提示する
- 「注意点」セクション：提案に関する留意事項を述べる`

// adviceModel abstracts the generative backend for testing.
type adviceModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// AdviceService produces portfolio analysis text from a parsed portfolio
// using the Gemini API.
type AdviceService struct {
	cfg    config.AdviceConfig
	model  adviceModel
	logger *slog.Logger
}

// Advice is one generated analysis.
type Advice struct {
	Advice    string    `json:"advice"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// NewAdviceService connects to the Gemini API. The client reads its API key
// from the environment (GEMINI_API_KEY or GOOGLE_API_KEY).
func NewAdviceService(ctx context.Context, cfg config.AdviceConfig, logger *slog.Logger) (*AdviceService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "advice_service"))

	if !cfg.Enabled {
		return &AdviceService{cfg: cfg, logger: logger}, nil
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AdviceService{cfg: cfg, model: client.Models, logger: logger}, nil
}

// newAdviceServiceWithModel wires a fake backend for tests.
func newAdviceServiceWithModel(cfg config.AdviceConfig, model adviceModel, logger *slog.Logger) *AdviceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdviceService{cfg: cfg, model: model, logger: logger}
}

// Enabled reports whether advice generation is available.
func (s *AdviceService) Enabled() bool {
	return s.cfg.Enabled && s.model != nil
}

// GetAdvice asks the model for an analysis of the given portfolio.
// customPrompt, when non-empty, is appended as an extra user question.
// modelOverride, when non-empty, replaces the configured model name for this
// request only.
func (s *AdviceService) GetAdvice(ctx context.Context, result *portfolio.Result, customPrompt, modelOverride string) (*Advice, error) {
	if !s.Enabled() {
		return nil, ErrAdviceDisabled
	}

	modelName := s.cfg.Model
	if modelOverride != "" {
		modelName = modelOverride
	}

	userPrompt := "以下のポートフォリオデータを分析し、投資アドバイスを提供してください。\n\n" + FormatPortfolio(result)
	if customPrompt != "" {
		userPrompt += "\n\n追加の質問・条件：\n" + customPrompt
	}

	resp, err := s.model.GenerateContent(ctx, modelName,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: advicePrompt}}},
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "advice generation failed",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("advice generation failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrAdviceEmptyReply
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, ErrAdviceEmptyReply
	}

	s.logger.InfoContext(ctx, "advice generated",
		slog.String("model", modelName),
		slog.Int("chars", len(text)),
	)
	return &Advice{
		Advice:    text,
		Model:     modelName,
		Timestamp: time.Now(),
	}, nil
}

// FormatPortfolio renders a parsed portfolio as the markdown document sent to
// the model: summary figures, sector percentages, and a holdings table.
func FormatPortfolio(result *portfolio.Result) string {
	var b strings.Builder
	sum := result.Summary

	b.WriteString("# ポートフォリオ基本情報\n\n")
	fmt.Fprintf(&b, "- 総評価額: %s円\n", formatAmount(sum.TotalValue))
	fmt.Fprintf(&b, "- 総取得価額: %s円\n", formatAmount(sum.TotalCost))
	fmt.Fprintf(&b, "- 総損益: %s円\n", formatAmount(sum.TotalProfitLoss))
	fmt.Fprintf(&b, "- 総損益率: %.2f%%\n", sum.TotalProfitLossRate)
	fmt.Fprintf(&b, "- 銘柄数: %d銘柄\n", sum.NumberOfStocks)
	fmt.Fprintf(&b, "- 利益銘柄数: %d銘柄\n", sum.ProfitableStocks)
	fmt.Fprintf(&b, "- 損失銘柄数: %d銘柄\n\n", sum.UnprofitableStocks)

	if len(sum.SectorAllocation) > 0 {
		b.WriteString("# セクター別配分\n\n")
		for _, sector := range sortedKeys(sum.SectorAllocation) {
			value := sum.SectorAllocation[sector]
			pct := 0.0
			if sum.TotalValue > 0 {
				pct = value / sum.TotalValue * 100
			}
			fmt.Fprintf(&b, "- %s: %s円 (%.2f%%)\n", sector, formatAmount(value), pct)
		}
		b.WriteString("\n")
	}

	b.WriteString("# 保有銘柄リスト\n\n")
	b.WriteString("| 銘柄コード | 銘柄名 | セクター | 保有数量 | 取得単価 | 現在価格 | 評価額 | 損益 | 損益率 |\n")
	b.WriteString("|-----------|--------|----------|----------|----------|----------|--------|------|--------|\n")
	for _, item := range result.Items {
		sector := item.Sector
		if sector == "" {
			sector = "N/A"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			item.Code, item.Name, sector,
			formatOptAmount(item.Quantity),
			formatOptAmount(item.CostPrice),
			formatOptAmount(item.CurrentPrice),
			formatOptAmount(item.Value),
			formatOptAmount(item.ProfitLoss),
			formatOptRate(item.ProfitLossRate),
		)
	}
	return b.String()
}

func formatOptAmount(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatAmount(*v)
}

func formatOptRate(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *v)
}

// formatAmount renders a number with thousands separators and no decimals,
// the way brokerage statements print yen amounts.
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.0f", v)

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
