package render

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/kdrama/internal/domain/types"
)

// ErrUnsupportedFormat is returned when a view cannot be written in a
// format that is otherwise known.
var ErrUnsupportedFormat = errors.New("format not supported for this view")

var metaHeader = []string{"Field", "Value"} //nolint:gochecknoglobals // read-only header

// Meta writes the dataset description as field/value pairs. XLSX is not
// offered for it.
func Meta(w io.Writer, f Format, m types.Meta) error {
	switch f {
	case FormatTable:
		return table(w, metaHeader, metaRecords(m))
	case FormatJSON:
		return writeJSON(w, m)
	case FormatCSV:
		return writeCSV(w, metaHeader, metaRecords(m))
	case FormatXLSX:
		return ErrUnsupportedFormat
	default:
		return ErrUnknownFormat
	}
}

func metaRecords(m types.Meta) [][]string {
	return [][]string{
		{"Title", m.Title},
		{"Source", m.Source},
		{"Records", strconv.Itoa(m.Records)},
		{"Loaded", m.LoadedAt.Format(time.RFC3339)},
		{"Years", strconv.Itoa(m.YearMin) + "-" + strconv.Itoa(m.YearMax)},
		{"Roles", optionKeys(m.Roles)},
		{"Metrics", optionKeys(m.Metrics)},
		{"Top N", strconv.Itoa(m.TopN)},
		{"Max limit", strconv.Itoa(m.MaxLimit)},
	}
}

func optionKeys(opts []types.Option) string {
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = o.Key
	}
	return strings.Join(keys, ", ")
}
