package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrSchema is returned when the header lacks a required column.
	ErrSchema = errors.New("schema error")
	// ErrMalformedRow is returned when a row cannot be parsed.
	ErrMalformedRow = errors.New("malformed row")
)

// Column names of the semicolon-separated input file.
const (
	ColID          = "id_assure"
	ColAge         = "age"
	ColSex         = "sexe"
	ColRegion      = "region"
	ColType        = "type_assurance"
	ColDuration    = "duree_contrat"
	ColPremium     = "montant_prime"
	ColClaimCount  = "nb_sinistres"
	ColClaimAmount = "montant_sinistres"
	ColLastClaim   = "date_derniere_sinistre"
	ColBonusMalus  = "bonus_malus"
)

// Columns lists the required input columns in their canonical order.
var Columns = []string{
	ColID, ColAge, ColSex, ColRegion, ColType, ColDuration,
	ColPremium, ColClaimCount, ColClaimAmount, ColLastClaim, ColBonusMalus,
}

// Separator is the field delimiter of the input file.
const Separator = ';'

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// Load parses a semicolon-separated portfolio and returns the enriched dataset.
func Load(r io.Reader, source string) (*Dataset, error) {
	records, err := Parse(r)
	if err != nil {
		return nil, err
	}
	slog.Debug("Parsed portfolio", "source", source, "records", len(records))
	return NewDataset(records, source), nil
}

// Parse reads every row of a semicolon-separated portfolio and enriches it.
// Column order is free and extra columns are ignored. Unparseable claim dates
// are treated as absent; any other unparseable field fails the whole load.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrSchema)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		idx[name] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (Record, error) {
	field := func(col string) string {
		return strings.TrimSpace(row[idx[col]])
	}

	var (
		rec Record
		err error
	)
	rec.ID = field(ColID)
	rec.Sex = field(ColSex)
	rec.Region = field(ColRegion)
	rec.Type = field(ColType)

	if rec.Age, err = parseInt(field(ColAge)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColAge, err)
	}
	if rec.ContractYears, err = parseFloat(field(ColDuration)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColDuration, err)
	}
	if rec.Premium, err = parseFloat(field(ColPremium)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColPremium, err)
	}
	if rec.ClaimCount, err = parseInt(field(ColClaimCount)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColClaimCount, err)
	}
	if rec.ClaimAmount, err = parseFloat(field(ColClaimAmount)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColClaimAmount, err)
	}
	if rec.BonusMalus, err = parseFloat(field(ColBonusMalus)); err != nil {
		return Record{}, fmt.Errorf("%s: %w", ColBonusMalus, err)
	}
	rec.LastClaim = parseDate(field(ColLastClaim))

	Enrich(&rec)
	return rec, nil
}

// parseInt accepts plain integers and integral floats such as "34.0".
func parseInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// WriteCSV writes records in the input format, header included.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		date := ""
		if !r.LastClaim.IsZero() {
			date = r.LastClaim.Format(dateLayouts[0])
		}
		row := []string{
			r.ID,
			strconv.Itoa(r.Age),
			r.Sex,
			r.Region,
			r.Type,
			strconv.FormatFloat(r.ContractYears, 'f', -1, 64),
			strconv.FormatFloat(r.Premium, 'f', 2, 64),
			strconv.Itoa(r.ClaimCount),
			strconv.FormatFloat(r.ClaimAmount, 'f', 2, 64),
			date,
			strconv.FormatFloat(r.BonusMalus, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
