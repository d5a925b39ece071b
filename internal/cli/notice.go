package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	infoColor  = color.New(color.FgCyan)
	errorColor = color.New(color.FgRed, color.Bold)
)

// warnQuarantined tells the user how many rows were skipped on load.
func warnQuarantined(s *session) {
	q, _ := s.svc.GetStats()["quarantined"].(map[string]int)
	if len(q) == 0 {
		return
	}
	fields := make([]string, 0, len(q))
	for f := range q {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %d", f, q[f])
	}
	warnColor.Fprintf(s.errOut, "Skipped malformed rows (%s)\n", strings.Join(parts, ", ")) //nolint:errcheck // best effort on stderr
}
