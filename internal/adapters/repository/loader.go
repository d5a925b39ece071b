// Package repository loads the drama dataset and serves immutable snapshots
// of it.
package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/okian/kdrama/internal/domain/model"
)

// Dataset column names.
const (
	ColName         = "Name"
	ColRank         = "Rank"
	ColRating       = "Rating"
	ColYear         = "Year of release"
	ColDirector     = "Director"
	ColScreenwriter = "Screenwriter"
	ColCast         = "Cast"
)

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{ColName, ColRank, ColRating, ColYear, ColDirector, ColScreenwriter, ColCast} //nolint:gochecknoglobals // read-only column list

// Quarantine field labels used in LoadReport.
const (
	FieldRank   = "rank"
	FieldRating = "rating"
	FieldYear   = "year"
)

// LoadReport summarises a single load.
type LoadReport struct {
	Source      string         `json:"source"`
	Rows        int            `json:"rows"`
	Accepted    int            `json:"accepted"`
	Quarantined map[string]int `json:"quarantined"`
}

// QuarantinedRows returns the number of rows excluded from the dataset.
func (r LoadReport) QuarantinedRows() int {
	return r.Rows - r.Accepted
}

// Fields returns the quarantine field labels in a stable order.
func (r LoadReport) Fields() []string {
	out := make([]string, 0, len(r.Quarantined))
	for f := range r.Quarantined {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// ReadFile opens path and parses it with ReadDataset.
func ReadFile(ctx context.Context, path string, delimiter rune) (*model.Dataset, LoadReport, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadReport{Source: path}, fmt.Errorf("%w: %w", ErrReadDataset, err)
	}
	defer func() { _ = f.Close() }()
	return ReadDataset(ctx, f, path, delimiter)
}

// ReadDataset parses a delimited dataset with a header row. Every column is
// read as text; Rank, Rating and Year are then parsed per row. Rows with a
// malformed numeric field are left out and counted in the report.
func ReadDataset(ctx context.Context, r io.Reader, source string, delimiter rune) (*model.Dataset, LoadReport, error) {
	report := LoadReport{Source: source, Quarantined: map[string]int{}}
	if delimiter == 0 {
		delimiter = defaultDelimiter
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, report, fmt.Errorf("%w: %w", ErrReadDataset, err)
	}

	df := dataframe.ReadCSV(bytes.NewReader(data), readOptions(true, delimiter)...)
	if df.Err != nil {
		// gota rejects a header without rows; that is an empty dataset.
		names, ok := headerOnly(data, delimiter)
		if !ok {
			return nil, report, fmt.Errorf("%w: %w", ErrReadDataset, df.Err)
		}
		if _, err := resolveColumns(names); err != nil {
			return nil, report, err
		}
		return model.NewDataset(nil, source), report, nil
	}

	cols, err := columns(df)
	if err != nil {
		return nil, report, err
	}
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	report.Rows = df.Nrow()
	records := make([]model.DramaRecord, 0, report.Rows)
	for i := 0; i < report.Rows; i++ {
		rec, bad := parseRow(cols, i)
		if len(bad) > 0 {
			for _, f := range bad {
				report.Quarantined[f]++
			}
			continue
		}
		records = append(records, rec)
	}
	report.Accepted = len(records)

	return model.NewDataset(records, source), report, nil
}

type columnSet map[string][]string

func readOptions(hasHeader bool, delimiter rune) []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(hasHeader),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
		dataframe.WithDelimiter(delimiter),
	}
}

// headerOnly reports the column names of a file holding exactly one line.
func headerOnly(data []byte, delimiter rune) ([]string, bool) {
	df := dataframe.ReadCSV(bytes.NewReader(data), readOptions(false, delimiter)...)
	if df.Err != nil || df.Nrow() != 1 {
		return nil, false
	}
	// Records returns the generated column names first, then the single row.
	return df.Records()[1], true
}

// resolveColumns maps each required column to its header name. Header names
// are matched after trimming surrounding whitespace.
func resolveColumns(names []string) (map[string]string, error) {
	byName := make(map[string]string, len(names))
	for _, n := range names {
		byName[strings.TrimSpace(n)] = n
	}
	out := make(map[string]string, len(RequiredColumns))
	for _, want := range RequiredColumns {
		name, ok := byName[want]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, want)
		}
		out[want] = name
	}
	return out, nil
}

// columns extracts the required columns as text.
func columns(df dataframe.DataFrame) (columnSet, error) {
	names, err := resolveColumns(df.Names())
	if err != nil {
		return nil, err
	}
	cols := make(columnSet, len(names))
	for want, name := range names {
		cols[want] = df.Col(name).Records()
	}
	return cols, nil
}

// missingMarkers are the cell values pandas reads as missing by default. A
// contributor cell holding one of them lists nobody.
var missingMarkers = map[string]struct{}{ //nolint:gochecknoglobals // read-only lookup
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func contributorCell(s string) string {
	if _, missing := missingMarkers[strings.TrimSpace(s)]; missing {
		return ""
	}
	return s
}

func parseRow(cols columnSet, i int) (model.DramaRecord, []string) {
	var bad []string

	rank, err := parseRank(cols[ColRank][i])
	if err != nil {
		bad = append(bad, FieldRank)
	}
	rating, err := parseRating(cols[ColRating][i])
	if err != nil {
		bad = append(bad, FieldRating)
	}
	year, err := strconv.Atoi(strings.TrimSpace(cols[ColYear][i]))
	if err != nil {
		bad = append(bad, FieldYear)
	}

	return model.DramaRecord{
		Name:         cols[ColName][i],
		Rank:         rank,
		Rating:       rating,
		Year:         year,
		Director:     contributorCell(cols[ColDirector][i]),
		Screenwriter: contributorCell(cols[ColScreenwriter][i]),
		Cast:         contributorCell(cols[ColCast][i]),
	}, bad
}

// parseRank accepts an optional leading '#'.
func parseRank(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	return strconv.Atoi(strings.TrimSpace(s))
}

func parseRating(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || v < model.MinRating || v > model.MaxRating {
		return 0, fmt.Errorf("rating %v outside [%v, %v]", v, model.MinRating, model.MaxRating)
	}
	return v, nil
}
