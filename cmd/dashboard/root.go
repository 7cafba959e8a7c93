package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/campaign-dashboard/internal/config"
	"github.com/AngelCh415/campaign-dashboard/internal/ingest"
	"github.com/AngelCh415/campaign-dashboard/internal/metrics"
	"github.com/AngelCh415/campaign-dashboard/internal/telemetry"
)

var (
	cfg    config.Config
	logger *slog.Logger

	adsFlag string
	crmFlag string
)

var rootCmd = &cobra.Command{
	Use:           "dashboard",
	Short:         "Ad-platform and CRM campaign analytics",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.FromEnv()
		if err != nil {
			return err
		}
		if adsFlag != "" {
			c.AdsPath = adsFlag
		}
		if crmFlag != "" {
			c.CrmPath = crmFlag
		}
		cfg = c
		logger = cfg.Logger(os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&adsFlag, "ads", "", "ad-platform table (CSV, XLSX or http(s) URL)")
	rootCmd.PersistentFlags().StringVar(&crmFlag, "crm", "", "CRM table (CSV, XLSX or http(s) URL)")
	rootCmd.AddCommand(serveCmd, reportCmd)
}

// newService loads both tables and builds the view service. A table that
// fails to load is replaced by an empty one so the dashboard still starts.
func newService(ctx context.Context, prom *telemetry.Prom) (*metrics.Service, error) {
	tag, err := cfg.Tag()
	if err != nil {
		return nil, err
	}
	loader := ingest.NewLoader(ingest.NewHTTPClient(cfg.HTTPTimeout), logger)
	if prom != nil {
		loader.WithObserver(prom)
	}
	ads, adsErr := loader.LoadAds(ctx, cfg.AdsPath)
	crm, crmErr := loader.LoadCRM(ctx, cfg.CrmPath)
	if adsErr != nil && crmErr != nil {
		logger.Warn("both tables failed to load; serving an empty dashboard")
	}

	set := metrics.Settings{
		Ranker:    metrics.NewRanker(tag),
		Funnel:    metrics.NewFunnel(cfg.Stages()),
		WonStatus: cfg.WonStatus,
		Thresholds: metrics.Thresholds{
			ConversionAlertPct: cfg.ConversionPct,
			SlowPurchaseDays:   cfg.SlowDays,
		},
	}
	if prom != nil {
		set.Observer = prom
	}
	return metrics.NewService(ads, crm, set, logger), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("dashboard failed", slog.String("err", eris.ToString(err, false)))
		os.Exit(1)
	}
}
