package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/discovery"
	"github.com/sells-group/leadscout/internal/enrich"
	"github.com/sells-group/leadscout/internal/ledger"
	"github.com/sells-group/leadscout/internal/maps"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/render"
)

var (
	runQuery      string
	runLocation   string
	runMaxResults int
	runIndustry   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full discovery and enrichment pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runQuery != "" {
			cfg.Search.Query = runQuery
		}
		if runLocation != "" {
			cfg.Search.Location = runLocation
		}
		if runMaxResults > 0 {
			cfg.Search.MaxResults = runMaxResults
		}
		if runIndustry != "" {
			cfg.Search.TargetIndustry = runIndustry
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		led := ledger.New(st, cfg.Dedup.HistoryKey, cfg.Dedup.Enabled)

		source := maps.NewSource(render.NewHTTPRenderer(cfg.Enrich.MaxBodyBytes))
		disc := discovery.New(source, led, cfg.Discovery)

		industries, err := loadIndustries()
		if err != nil {
			return err
		}
		fetcher := enrich.NewHTTPFetcher(
			time.Duration(cfg.Enrich.PageTimeoutSecs)*time.Second,
			cfg.Enrich.MaxBodyBytes,
			cfg.Enrich.RequestsPerSecond,
		)
		enricher := enrich.New(fetcher, industries, enrich.Provenance{
			Source:   "google-maps",
			Query:    cfg.Search.Query,
			Location: cfg.Search.Location,
		})

		p := pipeline.New(st, led, disc, enricher, cfg.Search, cfg.Enrich.Enabled)

		run, err := p.Execute(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		final, err := st.GetRun(ctx, run.ID)
		if err != nil {
			return eris.Wrap(err, "load run result")
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(final)
	},
}

// loadIndustries reads the configured industry table, falling back to the
// built-in one.
func loadIndustries() ([]enrich.IndustryRule, error) {
	if cfg.Enrich.IndustriesFile == "" {
		return enrich.DefaultIndustryTable(), nil
	}
	rules, err := enrich.LoadIndustryTable(cfg.Enrich.IndustriesFile)
	if err != nil {
		return nil, eris.Wrap(err, "load industry table")
	}
	zap.L().Info("loaded industry table",
		zap.String("file", cfg.Enrich.IndustriesFile),
		zap.Int("rules", len(rules)),
	)
	return rules, nil
}

func init() {
	runCmd.Flags().StringVar(&runQuery, "query", "", "search query (default from config)")
	runCmd.Flags().StringVar(&runLocation, "location", "", "search location (default from config)")
	runCmd.Flags().IntVar(&runMaxResults, "max-results", 0, "max leads to collect (default from config)")
	runCmd.Flags().StringVar(&runIndustry, "industry", "", "only keep leads classified into this industry")
	rootCmd.AddCommand(runCmd)
}
