// Package services contains the business logic between the HTTP transport
// and the core parsing pipeline.
package services

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"kabucli/internal/config"
	"kabucli/internal/infrastructure"
	"kabucli/internal/portfolio"
)

//go:embed samples/sample_portfolio.csv
var samplePortfolioCSV []byte

// PortfolioService handles portfolio file uploads end to end: upload policy,
// workbook conversion, and the parse pipeline.
type PortfolioService struct {
	cfg     config.UploadConfig
	parser  *portfolio.Parser
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewPortfolioService creates a portfolio service. metrics may be nil.
func NewPortfolioService(cfg config.UploadConfig, parser *portfolio.Parser, metrics *infrastructure.Metrics, logger *slog.Logger) *PortfolioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioService{
		cfg:     cfg,
		parser:  parser,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "portfolio_service")),
	}
}

// ProcessUpload validates an uploaded file against the upload policy and runs
// it through the parse pipeline. encodingHint may be empty.
func (s *PortfolioService) ProcessUpload(ctx context.Context, filename string, data []byte, encodingHint string) (*portfolio.Result, error) {
	if err := s.validateUpload(filename, int64(len(data))); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xlsx" {
		converted, err := workbookToCSV(data)
		if err != nil {
			return nil, err
		}
		data = converted
		// The workbook is already decoded text at this point.
		encodingHint = portfolio.EncodingUTF8
	}

	start := time.Now()
	result, err := s.parser.Parse(ctx, data, encodingHint)
	elapsed := time.Since(start)

	template := ""
	if result != nil {
		template = result.TemplateName
	}
	if s.metrics != nil {
		s.metrics.RecordParse(ctx, template, err == nil, elapsed)
	}

	if err != nil {
		s.logger.WarnContext(ctx, "upload parse failed",
			slog.String("filename", filename),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "upload parsed",
		slog.String("filename", filename),
		slog.String("template", template),
		slog.Int("rows", len(result.Items)),
		slog.Duration("duration", elapsed),
	)
	return result, nil
}

// SampleCSV returns the bundled sample portfolio file.
func (s *PortfolioService) SampleCSV() []byte {
	return samplePortfolioCSV
}

func (s *PortfolioService) validateUpload(filename string, size int64) error {
	if size == 0 {
		return ErrEmptyFile
	}
	if size > s.cfg.MaxSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, size, s.cfg.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range s.cfg.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidFileType, ext)
}

// workbookToCSV flattens the first sheet of an xlsx workbook into CSV text so
// the parse pipeline only ever sees tabular text.
func workbookToCSV(data []byte) ([]byte, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrWorkbookNoSheet
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Sheet rows may differ in width; pad to the header's width so the CSV
	// reader downstream sees a rectangular table.
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for _, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
