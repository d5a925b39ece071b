package render

import (
	"encoding/json"
	"io"
	"strconv"
)

// Search writes v in format f.
func Search(w io.Writer, f Format, v SearchView) error {
	switch f {
	case FormatTable:
		return searchTable(w, v)
	case FormatJSON:
		return writeJSON(w, v)
	case FormatCSV:
		return writeCSV(w, searchHeader, searchRecords(v))
	case FormatXLSX:
		return searchWorkbook(w, v)
	default:
		return ErrUnknownFormat
	}
}

// Ranking writes v in format f.
func Ranking(w io.Writer, f Format, v RankingView) error {
	switch f {
	case FormatTable:
		return rankingTable(w, v)
	case FormatJSON:
		return writeJSON(w, v)
	case FormatCSV:
		return writeCSV(w, rankingHeader(v), rankingRecords(v))
	case FormatXLSX:
		return rankingWorkbook(w, v)
	default:
		return ErrUnknownFormat
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var searchHeader = []string{"Name", "Rank", "Rating"} //nolint:gochecknoglobals // read-only header

func searchRecords(v SearchView) [][]string {
	out := make([][]string, 0, len(v.Rows))
	for _, r := range v.Rows {
		out = append(out, []string{r.Name, strconv.Itoa(r.Rank), formatRating(r.Rating)})
	}
	return out
}

func rankingHeader(v RankingView) []string {
	role, axis := "Name", "Value"
	if v.Chart != nil {
		role, axis = v.Chart.YLabel, v.Chart.XLabel
	}
	return []string{"#", role, axis, "Avg Rating", "Dramas"}
}

func rankingRecords(v RankingView) [][]string {
	out := make([][]string, 0, len(v.Entries))
	for _, e := range v.Entries {
		value := strconv.FormatFloat(e.Value, 'f', -1, 64)
		if v.Chart != nil {
			value = v.Chart.FormatValue(e.Value)
		}
		out = append(out, []string{
			strconv.Itoa(e.Position),
			e.Name,
			value,
			strconv.FormatFloat(e.AverageRating, 'f', 2, 64),
			strconv.Itoa(e.DramaCount),
		})
	}
	return out
}

// formatRating keeps the precision the dataset was written with.
func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
