package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/format"
)

const (
	pdfMargin     = 17.8
	pdfRowHeight  = 7.0
	pdfFooterText = "AssurAnalytics — Analyse des Sinistres & Profil des Assurés"
)

type rgb struct{ r, g, b int }

var (
	pdfPrimary = rgb{21, 101, 192}
	pdfMuted   = rgb{113, 128, 150}
	pdfStripe  = rgb{235, 248, 255}
	pdfGrid    = rgb{226, 232, 240}
	pdfText    = rgb{45, 55, 72}
	pdfWhite   = rgb{255, 255, 255}
)

// Generate writes an A4 PDF report: title, KPI table, regional table,
// insights and a closing line, with page numbers in the footer.
func (r *PDFReporter) Generate(data Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(!r.NoCompression)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle("Rapport AssurAnalytics", true)
	pdf.SetCreator(data.Tool, true)
	if !data.Generated.IsZero() {
		pdf.SetCreationDate(data.Generated)
	}

	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		w.font("", 8, pdfMuted)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	s := analyzer.Summarize(data.Records)

	w.font("B", 20, pdfPrimary)
	w.cell(0, 10, "RAPPORT ASSURANALYTICS", "C")
	w.font("", 10, pdfMuted)
	w.cell(0, 5, "Analyse des Sinistres & Profil des Assurés", "C")
	w.cell(0, 5, generatedLabel(data.Generated), "C")
	pdf.Ln(6)

	w.section("Indicateurs Clés")
	d := display(s)
	w.table([]string{"Indicateur", "Valeur"}, []float64{88.9, 63.5}, "L", [][]string{
		{"Nb assurés analysés", d.Insured},
		{"Total sinistres", d.TotalClaims},
		{"Taux de sinistralité", d.ClaimRate},
		{"Coût moyen sinistre", d.AvgCost},
		{"Prime moyenne", d.AvgPremium},
		{"Ratio S/P médian", d.MedianSP},
		{"% assurés déficitaires", d.DeficitShare},
		{"Bonus/Malus moyen", d.AvgBonusMalus},
	})
	pdf.Ln(5)

	w.section("Analyse par Région")
	regions := analyzer.ByRegion(data.Records)
	rows := make([][]string, len(regions))
	for i, reg := range regions {
		rows[i] = []string{
			reg.Region, format.Int(reg.Insured), format.Int(reg.Claims),
			format.Amount(reg.ClaimAmount), format.Amount(reg.AvgPremium),
		}
	}
	width, _ := pdf.GetPageSize()
	col := (width - 2*pdfMargin) / 5
	w.table([]string{"Région", "Assurés", "Sinistres", "Montant (€)", "Prime moy. (€)"},
		[]float64{col, col, col, col, col}, "C", rows)
	pdf.Ln(5)

	w.section("Insights & Recommandations")
	w.font("", 9, pdfText)
	for _, line := range findings(s) {
		if s.Insured > 0 {
			line = "• " + line
		}
		pdf.MultiCell(0, 5, w.tr(line), "", "L", false)
		pdf.Ln(1)
	}

	pdf.Ln(5)
	w.font("", 8, pdfMuted)
	w.cell(0, 5, pdfFooterText, "C")

	if err := pdf.Output(r.Writer); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfWriter bundles the drawing helpers shared by the report sections.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (w *pdfWriter) font(style string, size float64, c rgb) {
	w.pdf.SetFont("Helvetica", style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) cell(width, height float64, text, align string) {
	w.pdf.CellFormat(width, height, w.tr(text), "", 1, align, false, 0, "")
}

func (w *pdfWriter) section(title string) {
	w.pdf.Ln(3)
	w.font("B", 13, pdfPrimary)
	w.cell(0, 8, title, "L")
	w.pdf.Ln(1)
}

// table draws a header row on the primary color followed by striped rows.
func (w *pdfWriter) table(header []string, widths []float64, align string, rows [][]string) {
	w.pdf.SetDrawColor(pdfGrid.r, pdfGrid.g, pdfGrid.b)
	w.pdf.SetLineWidth(0.2)

	w.font("B", 10, pdfWhite)
	w.pdf.SetFillColor(pdfPrimary.r, pdfPrimary.g, pdfPrimary.b)
	for i, h := range header {
		w.pdf.CellFormat(widths[i], pdfRowHeight, w.tr(h), "1", 0, align, true, 0, "")
	}
	w.pdf.Ln(-1)

	w.font("", 9, pdfText)
	for n, row := range rows {
		fill := pdfWhite
		if n%2 == 1 {
			fill = pdfStripe
		}
		w.pdf.SetFillColor(fill.r, fill.g, fill.b)
		for i, v := range row {
			w.pdf.CellFormat(widths[i], pdfRowHeight, w.tr(v), "1", 0, align, true, 0, "")
		}
		w.pdf.Ln(-1)
	}
}
