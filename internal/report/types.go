package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ppiankov/assuranalytics/internal/portfolio"
)

// Reporter is the interface for output formatters.
type Reporter interface {
	Generate(data Data) error
}

// Format identifies an output format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Exports lists the downloadable report formats.
var Exports = []Format{FormatXLSX, FormatHTML, FormatPDF}

// Data holds all information needed to generate a report.
type Data struct {
	Tool      string             `json:"tool"`
	Version   string             `json:"version"`
	Generated time.Time          `json:"generated"`
	Source    string             `json:"source"`
	Criteria  portfolio.Criteria `json:"criteria"`
	Records   []portfolio.Record `json:"-"`
	Full      []portfolio.Record `json:"-"`
	TableRows int                `json:"-"`
}

// TextReporter generates human-readable terminal output.
type TextReporter struct {
	Writer io.Writer
}

// JSONReporter generates the dashboard payload as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

// XLSXReporter generates a four-sheet workbook.
type XLSXReporter struct {
	Writer io.Writer
}

// HTMLReporter generates a self-contained HTML report.
type HTMLReporter struct {
	Writer io.Writer
}

// PDFReporter generates a paginated A4 report.
type PDFReporter struct {
	Writer io.Writer
	// NoCompression leaves page streams uncompressed.
	NoCompression bool
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatXLSX, FormatHTML, FormatPDF, FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %q (use xlsx, html, pdf, text or json)", s)
	}
}

// New returns the reporter for format writing to w.
func New(format Format, w io.Writer) (Reporter, error) {
	switch format {
	case FormatXLSX:
		return &XLSXReporter{Writer: w}, nil
	case FormatHTML:
		return &HTMLReporter{Writer: w}, nil
	case FormatPDF:
		return &PDFReporter{Writer: w}, nil
	case FormatText:
		return &TextReporter{Writer: w}, nil
	case FormatJSON:
		return &JSONReporter{Writer: w}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// FileName returns the download file name for a report generated at t.
func FileName(format Format, t time.Time) string {
	switch format {
	case FormatXLSX:
		return "assuranalytics_" + t.Format("20060102_1504") + ".xlsx"
	case FormatHTML:
		return "rapport_assuranalytics_" + t.Format("20060102_150405") + ".html"
	case FormatPDF:
		return "rapport_assuranalytics_" + t.Format("20060102_150405") + ".pdf"
	case FormatJSON:
		return "assuranalytics_" + t.Format("20060102_150405") + ".json"
	default:
		return "assuranalytics_" + t.Format("20060102_150405") + ".txt"
	}
}

// ContentType returns the MIME type of format.
func ContentType(format Format) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// generatedLabel renders the generation time the way report headers show it.
func generatedLabel(t time.Time) string {
	return "Généré le " + t.Format("02/01/2006") + " à " + t.Format("15:04")
}
