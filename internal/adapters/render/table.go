package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

func searchTable(w io.Writer, v SearchView) error {
	if _, err := fmt.Fprintln(w, v.Message); err != nil {
		return err
	}
	if len(v.Rows) == 0 {
		return nil
	}
	return table(w, searchHeader, searchRecords(v))
}

func rankingTable(w io.Writer, v RankingView) error {
	if v.Status == RankingIdle {
		_, err := fmt.Fprintln(w, v.Message)
		return err
	}
	if v.Chart != nil {
		if _, err := fmt.Fprintln(w, v.Chart.Title); err != nil {
			return err
		}
	}
	if len(v.Entries) == 0 {
		_, err := fmt.Fprintln(w, v.Message)
		return err
	}
	if err := table(w, rankingHeader(v), rankingRecords(v)); err != nil {
		return err
	}
	if v.Chart != nil {
		for _, c := range v.Chart.Captions {
			if _, err := fmt.Fprintln(w, c); err != nil {
				return err
			}
		}
	}
	return nil
}

func table(w io.Writer, headers []string, data [][]string) error {
	t := tablewriter.NewWriter(w)
	t.Header(headers)
	t.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := t.Bulk(data); err != nil {
		return err
	}
	return t.Render()
}
