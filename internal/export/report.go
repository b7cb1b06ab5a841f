package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ShravyaChalla/fetch-rewards-assessment/internal/query"
)

// Sheet names of the report workbook, one per question.
const (
	SheetAverageSpend      = "Average Spend"
	SheetItemsPurchased    = "Items Purchased"
	SheetBrandsThisMonth   = "Top Brands This Month"
	SheetBrandsLastMonth   = "Top Brands Previous Month"
	SheetBrandSpend        = "Top Brand Spend"
	SheetBrandTransactions = "Top Brand Transactions"
)

// Service renders query results as an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ResultsXLSX returns the workbook bytes: a summary sheet plus one sheet per question.
func (s *Service) ResultsXLSX(res *query.Results) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	_ = f.SetCellValue(summary, "A1", "As of (UTC)")
	_ = f.SetCellValue(summary, "B1", res.AsOf.UTC().Format(time.RFC3339))
	_ = f.SetColWidth(summary, "A", "A", 32)
	_ = f.SetColWidth(summary, "B", "B", 28)

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
	}{
		{SheetAverageSpend, []string{"Status", "Average Spent"}, statusRows(res.AverageSpend)},
		{SheetItemsPurchased, []string{"Status", "Items Purchased"}, statusRows(res.ItemsPurchased)},
		{SheetBrandsThisMonth, []string{"Brand", "Receipts Scanned"}, brandRows(res.TopBrandsThisMonth)},
		{SheetBrandsLastMonth, []string{"Brand", "Receipts Scanned"}, brandRows(res.TopBrandsPreviousMonth)},
		{SheetBrandSpend, []string{"Brand", "Total Spend"}, brandRows(res.TopBrandSpend)},
		{SheetBrandTransactions, []string{"Brand", "Transactions"}, brandRows(res.TopBrandTransactions)},
	}

	for i, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := writeTable(f, sh.name, sh.headers, sh.rows); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
		}

		// summary line: first row of each sheet, or blank when the query returned nothing
		row := i + 3
		_ = f.SetCellValue(summary, cellName(1, row), sh.name)
		if len(sh.rows) > 0 {
			_ = f.SetCellValue(summary, cellName(2, row), sh.rows[0][0])
			_ = f.SetCellValue(summary, cellName(3, row), sh.rows[0][1])
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("report rendered", "sheets", len(sheets)+1, "bytes", buf.Len(), "duration", time.Since(start))
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			if err := f.SetCellValue(sheet, cellName(c+1, r+2), v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}

func statusRows(vals []query.StatusValue) [][]any {
	rows := make([][]any, len(vals))
	for i, v := range vals {
		rows[i] = []any{v.Status, v.Value}
	}
	return rows
}

func brandRows(vals []query.BrandValue) [][]any {
	rows := make([][]any, len(vals))
	for i, v := range vals {
		rows[i] = []any{v.Brand, v.Value}
	}
	return rows
}
