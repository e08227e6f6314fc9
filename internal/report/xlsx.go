package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

// Workbook sheet names, in order.
const (
	SheetData    = "Données"
	SheetKPIs    = "KPIs"
	SheetRegions = "Par Région"
	SheetTypes   = "Par Type"
)

// DataColumns are the columns of the raw data sheet.
var DataColumns = []string{
	portfolio.ColID, portfolio.ColAge, portfolio.ColSex, portfolio.ColType, portfolio.ColRegion,
	portfolio.ColDuration, portfolio.ColPremium, portfolio.ColClaimCount, portfolio.ColClaimAmount,
	portfolio.ColBonusMalus, "bm_cat", "ratio_SP", "tranche_age",
}

// Generate writes the filtered records and their aggregates as an XLSX workbook.
func (r *XLSXReporter) Generate(data Data) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetData); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetKPIs, SheetRegions, SheetTypes} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1565C0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	sw := &sheetWriter{f: f, header: header}
	sw.table(SheetData, DataColumns, dataRows(data.Records))
	sw.table(SheetKPIs, []string{"Indicateur", "Valeur"}, kpiRows(analyzer.Summarize(data.Records)))
	sw.table(SheetRegions, []string{"region", "assures", "sinistres", "montant_sin", "prime_moy", "bm_moyen"},
		regionRows(analyzer.ByRegion(data.Records)))
	sw.table(SheetTypes, []string{"type_assurance", "assures", "sinistres", "cout_moy", "prime_moy", "ratio_sp_med"},
		typeRows(analyzer.ByType(data.Records)))
	if sw.err != nil {
		return sw.err
	}

	f.SetActiveSheet(0)
	if err := f.Write(r.Writer); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter fills sheets row by row and captures the first error.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (sw *sheetWriter) table(sheet string, columns []string, rows [][]any) {
	if sw.err != nil {
		return
	}
	head := make([]any, len(columns))
	for i, c := range columns {
		head[i] = c
	}
	sw.row(sheet, 1, head)
	for i, row := range rows {
		sw.row(sheet, i+2, row)
	}
	if sw.err != nil {
		return
	}

	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetCellStyle(sheet, "A1", last, sw.header); err != nil {
		sw.err = fmt.Errorf("style %s header: %w", sheet, err)
		return
	}
	lastCol, _, _ := excelize.SplitCellName(last)
	if err := sw.f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		sw.err = fmt.Errorf("size %s columns: %w", sheet, err)
	}
}

func (sw *sheetWriter) row(sheet string, n int, values []any) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		sw.err = fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
}

func dataRows(records []portfolio.Record) [][]any {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			r.ID, r.Age, r.Sex, r.Type, r.Region, r.ContractYears, r.Premium,
			r.ClaimCount, r.ClaimAmount, r.BonusMalus, r.BMCategory, r.SPRatio, r.AgeBracket,
		}
	}
	return rows
}

func kpiRows(s analyzer.Summary) [][]any {
	indicators := sheetIndicators(s)
	rows := make([][]any, len(indicators))
	for i, in := range indicators {
		rows[i] = []any{in.Label, in.Value}
	}
	return rows
}

func regionRows(regions []analyzer.RegionStat) [][]any {
	rows := make([][]any, len(regions))
	for i, r := range regions {
		rows[i] = []any{
			r.Region, r.Insured, r.Claims,
			stats.Round(r.ClaimAmount, 2), stats.Round(r.AvgPremium, 2), stats.Round(r.AvgBonusMalus, 2),
		}
	}
	return rows
}

func typeRows(types []analyzer.TypeStat) [][]any {
	rows := make([][]any, len(types))
	for i, t := range types {
		rows[i] = []any{
			t.Type, t.Insured, t.Claims,
			stats.Round(t.AvgClaimAmount, 2), stats.Round(t.AvgPremium, 2), stats.Round(t.MedianSP, 2),
		}
	}
	return rows
}
