// Package export renders price series as spreadsheet downloads.
package export

import (
	"fmt"
	"io"
	"strings"

	"trading-dashboard/internal/models"

	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

var seriesHeader = []interface{}{"Date", "Open", "High", "Low", "Close", "Volume"}

// WriteSeriesXLSX writes a workbook with one sheet of daily records named after
// the symbol and a Summary sheet with the derived dashboard figures.
func WriteSeriesXLSX(w io.Writer, symbol string, series models.PriceSeries, state models.DerivedState) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(symbol)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &seriesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range series {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.Date, r.Open, r.High, r.Low, r.Close, r.Volume}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Symbol", symbol},
		{"Records", len(series)},
		{"Current price", state.CurrentPrice},
		{"Price change", state.PriceChange},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

var sheetNameReplacer = strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_", "'", "_")

// sheetName maps a symbol to a legal sheet name of at most 31 characters.
func sheetName(symbol string) string {
	name := sheetNameReplacer.Replace(symbol)
	if name == "" || strings.EqualFold(name, summarySheet) {
		return "Prices"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
