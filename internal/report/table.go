// Package report renders dashboard results as fixed-width text tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
	"github.com/AngelCh415/campaign-dashboard/internal/models"
)

// Table is a header plus rows of cells. Widths are measured in terminal
// columns so accented and wide labels line up.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

func (t Table) Lines() []string {
	cols := len(t.Header)
	for _, r := range t.Rows {
		cols = max(cols, len(r))
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, c := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}
	measure(t.Header)
	for _, r := range t.Rows {
		measure(r)
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	line := func(row []string) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(" ")
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString(" |")
		}
		return sb.String()
	}

	var out []string
	if t.Title != "" {
		out = append(out, t.Title)
	}
	out = append(out, line(t.Header))
	sep := make([]string, cols)
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out = append(out, line(sep))
	for _, r := range t.Rows {
		out = append(out, line(r))
	}
	return out
}

func (t Table) Write(w io.Writer) error {
	for _, l := range t.Lines() {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// KPIs lays out the overview headline numbers as a two-column table.
func KPIs(ov models.Overview, r *metrics.Ranker) Table {
	return Table{
		Title:  "Key indicators",
		Header: []string{"Indicator", "Value"},
		Rows: [][]string{
			{"Mean CTR (%)", r.Format(ov.AvgCTR)},
			{"Mean CPC", r.Format(ov.AvgCPC)},
			{"Mean CPA", r.Format(ov.AvgCPA)},
			{"Conversion rate (%)", r.Format(ov.ConversionRate)},
			{"Spend/day", r.Format(ov.RunRate.SpendPerDay)},
			{"Clicks/day", r.Format(ov.RunRate.ClicksPerDay)},
			{"Impressions/day", r.Format(ov.RunRate.ImpressionsPerDay)},
			{"Leads/day", r.Format(ov.RunRate.LeadsPerDay)},
			{"Purchases/day", r.Format(ov.RunRate.PurchasesPerDay)},
			{"Days", fmt.Sprint(ov.RunRate.Days)},
		},
	}
}

func RankingTable(rk models.Ranking) Table {
	order := "lowest first"
	if rk.HigherIsBetter {
		order = "highest first"
	}
	t := Table{
		Title:  fmt.Sprintf("Campaigns by %s (%s)", rk.Metric, order),
		Header: []string{"#", "Campaign", rk.Metric},
	}
	for i, row := range rk.Rows {
		t.Rows = append(t.Rows, []string{fmt.Sprint(i + 1), row.Campaign, row.Display})
	}
	return t
}

func FunnelTable(rows []models.FunnelRow, r *metrics.Ranker) Table {
	t := Table{Title: "Sales funnel", Header: []string{"Stage", "Leads", "%"}}
	for _, f := range rows {
		t.Rows = append(t.Rows, []string{f.Stage, fmt.Sprint(f.Count), r.Format(f.Percent)})
	}
	return t
}
