package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
	"github.com/AngelCh415/campaign-dashboard/internal/models"
	"github.com/AngelCh415/campaign-dashboard/internal/report"
)

var (
	reportFrom   string
	reportTo     string
	reportMetric string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print KPIs, campaign rankings and the funnel",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd.Context(), nil)
		if err != nil {
			return err
		}
		sel := svc.Defaults()
		if sel.Start, err = dateFlag(reportFrom, sel.Start); err != nil {
			return err
		}
		if sel.End, err = dateFlag(reportTo, sel.End); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		ov := svc.Overview(sel)
		tables := []report.Table{report.KPIs(ov, svc.Ranker())}
		for _, rk := range ov.Rankings {
			tables = append(tables, report.RankingTable(rk))
		}
		if reportMetric != "" {
			rk, err := svc.Rankings(sel, reportMetric, nil)
			if err != nil {
				return err
			}
			tables = append(tables, report.RankingTable(rk))
		}
		fv := svc.Funnel(sel, svc.Filters().OriginCampaigns)
		tables = append(tables, report.FunnelTable(fv.Stages, svc.Ranker()))

		for _, t := range tables {
			if err := t.Write(out); err != nil {
				return eris.Wrap(err, "report: write")
			}
		}
		return nil
	},
}

func dateFlag(v string, def time.Time) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	t, ok := metrics.ParseDate(v)
	if !ok {
		return time.Time{}, eris.Errorf("report: bad date %q, want %s", v, models.DateLayout)
	}
	return t, nil
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first day (YYYY-MM-DD), default earliest date")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last day (YYYY-MM-DD), default latest date")
	reportCmd.Flags().StringVar(&reportMetric, "metric", "", "extra ranking metric ("+metricNames()+")")
}

func metricNames() string {
	s := ""
	for i, m := range metrics.Metrics() {
		if i > 0 {
			s += ", "
		}
		s += string(m)
	}
	return s
}
