package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	searchSheet  = "Search"
	rankingSheet = "Ranking"
)

func searchWorkbook(w io.Writer, v SearchView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", searchSheet); err != nil {
		return err
	}
	if err := setRow(f, searchSheet, 1, toCells(searchHeader)); err != nil {
		return err
	}
	for i, r := range v.Rows {
		if err := setRow(f, searchSheet, i+2, []any{r.Name, r.Rank, r.Rating}); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func rankingWorkbook(w io.Writer, v RankingView) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", rankingSheet); err != nil {
		return err
	}
	if err := setRow(f, rankingSheet, 1, toCells(rankingHeader(v))); err != nil {
		return err
	}
	for i, e := range v.Entries {
		row := []any{e.Position, e.Name, e.Value, e.AverageRating, e.DramaCount}
		if err := setRow(f, rankingSheet, i+2, row); err != nil {
			return err
		}
	}

	if v.Chart != nil && len(v.Entries) > 0 {
		last := len(v.Entries) + 1
		// Captions go below the data, the chart to the right of it.
		for i, c := range v.Chart.Captions {
			if err := setRow(f, rankingSheet, last+2+i, []any{c}); err != nil {
				return err
			}
		}
		if err := f.AddChart(rankingSheet, "G2", barChart(v, last)); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}
	return f.Write(w)
}

func barChart(v RankingView, last int) *excelize.Chart {
	ref := func(col string) string {
		return "'" + rankingSheet + "'!$" + col + "$2:$" + col + "$" + strconv.Itoa(last)
	}
	return &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       "'" + rankingSheet + "'!$C$1",
			Categories: ref("B"),
			Values:     ref("C"),
		}},
		Title:  []excelize.RichTextRun{{Text: v.Chart.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		// Highest value at the top, as in the dashboard.
		XAxis: excelize.ChartAxis{ReverseOrder: true},
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
