package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ntxcensus/pkg/auth"
	"ntxcensus/pkg/census"
	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/config"
	"ntxcensus/pkg/logger"
	"ntxcensus/pkg/places"
	"ntxcensus/pkg/ratelimit"
	"ntxcensus/pkg/retry"
	"ntxcensus/pkg/store"
	"ntxcensus/pkg/ui"
)

var (
	// Collect command flags
	outputFile    string
	startYear     int
	endYear       int
	rateLimit     int
	maxRetries    int
	discover      bool
	minPopulation int
	radiusMiles   float64
	showProgress  bool
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch demographic data for every configured city and year",
	Long: `Fetch ACS 5-year demographic estimates for every configured city and
year, writing each result to the output CSV as soon as it arrives.

City/year pairs already present in the output file are skipped, so an
interrupted run picks up exactly where it left off. Rerun the command
until it reports 100% completeness.

Cities come from the TIGER place gazetteer filtered to the configured
North Texas counties. With --discover, cities are instead found through
the Census API itself, filtered by population and optionally by distance
from Dallas.

An API key is optional but strongly recommended; store one with
'ntxcensus auth set' or export CENSUS_API_KEY.`,
	Example: `  # Collect all configured counties and years
  ntxcensus collect

  # Collect a narrower year range to a separate file
  ntxcensus collect --start-year 2018 --end-year 2022 --output recent.csv

  # Discover cities statewide with at least 5000 residents within 100 miles
  ntxcensus collect --discover --min-population 5000 --radius 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCollect(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output CSV file (default from config)")
	collectCmd.Flags().IntVar(&startYear, "start-year", 0, "first ACS year to collect (default from config)")
	collectCmd.Flags().IntVar(&endYear, "end-year", 0, "last ACS year to collect (default from config)")
	collectCmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "requests per minute (default from config)")
	collectCmd.Flags().IntVar(&maxRetries, "max-retries", -1, "maximum retry attempts per request")
	collectCmd.Flags().BoolVar(&discover, "discover", false, "discover cities via the Census API instead of the gazetteer")
	collectCmd.Flags().IntVar(&minPopulation, "min-population", 0, "minimum population for discovered cities")
	collectCmd.Flags().Float64Var(&radiusMiles, "radius", 0, "only keep discovered cities within this many miles of Dallas")
	collectCmd.Flags().BoolVar(&showProgress, "progress", true, "show a progress line during collection")
}

func runCollect(cmd *cobra.Command, args []string) error {
	flags := make(map[string]interface{})
	if outputFile != "" {
		flags["output"] = outputFile
	}
	if startYear > 0 {
		flags["start-year"] = startYear
	}
	if endYear > 0 {
		flags["end-year"] = endYear
	}
	if rateLimit > 0 {
		flags["rate-limit"] = rateLimit
	}
	if maxRetries >= 0 {
		flags["max-retries"] = maxRetries
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if minPopulation > 0 {
		cfg.Collection.MinPopulation = minPopulation
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("ntxcensus starting")

	// An API key from config or environment wins; the keychain is the
	// fallback for interactive setups.
	if cfg.Census.APIKey == "" {
		if key, err := auth.NewManager().Retrieve(); err == nil {
			cfg.Census.APIKey = key
		}
	}

	client := census.NewClient(&cfg.Census, log)
	if client.HasAPIKey() {
		ui.PrintInfo("API key", "configured")
	} else {
		ui.PrintWarning("No API key configured; running at the anonymous rate")
		fmt.Println(auth.Instructions())
		fmt.Println()
	}

	coords, err := places.LoadCoordinates(cfg.Collection.CoordinatesFile)
	if err != nil {
		ui.PrintError("Failed to load coordinates", err.Error())
		os.Exit(1)
	}

	counties, source, err := buildSource(cfg, client, coords, log)
	if err != nil {
		ui.PrintError("Failed to prepare city list", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	entities, err := source.Entities(ctx)
	if err != nil {
		ui.PrintError("Failed to resolve cities", err.Error())
		os.Exit(1)
	}
	years := cfg.Collection.Years()
	ui.PrintInfo("Cities", fmt.Sprintf("%d", len(entities)))
	ui.PrintInfo("Years", fmt.Sprintf("%d-%d", cfg.Collection.StartYear, cfg.Collection.EndYear))
	ui.PrintInfo("Output", cfg.Collection.OutputFile)

	provider := places.NewEnrichingProvider(client, coords, counties)

	attributes := append(census.FieldNames(),
		"city", "county", "county_fips",
		"latitude", "longitude", "distance_from_dallas")
	csvStore := store.NewCSVStore(cfg.Collection.OutputFile, attributes, log)
	if err := csvStore.EnsureDir(); err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		os.Exit(1)
	}

	rpm := cfg.RateLimit.RequestsPerMinute
	if !client.HasAPIKey() {
		rpm = cfg.RateLimit.AnonymousRequestsPerMinute
	}

	backoff := retry.DefaultExponentialBackoff()
	backoff.BaseDelay = cfg.RateLimit.RetryDelay

	opts := collector.Options{
		MaxRetries: cfg.RateLimit.MaxRetries,
		Backoff:    backoff,
		Limiter:    ratelimit.PerMinute(rpm),
		Logger:     log,
	}
	if showProgress {
		opts.OnProgress = ui.ProgressLine
	} else {
		opts.OnProgress = func(done, total int) {
			if done == total || done%25 == 0 {
				logger.LogCollectionProgress(done, total)
			}
		}
	}

	engine := collector.New(provider, csvStore, opts)

	fmt.Println()
	report, runErr := engine.Run(ctx, entities, years)
	if report != nil {
		ui.PrintReport(report)
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			log.Warn("Collection interrupted")
			os.Exit(130)
		}
		log.WithError(runErr).Error("Collection failed")
		ui.PrintError("Collection failed", runErr.Error())
		os.Exit(1)
	}

	if report.Failed > 0 {
		ui.PrintWarning("Some items failed; rerun to retry them")
		os.Exit(1)
	}

	log.InfoWithFields("Collection completed", map[string]interface{}{
		"succeeded": report.Succeeded,
		"skipped":   report.Skipped,
		"no_data":   report.NoData,
	})
	ui.PrintSuccess("Collection complete")
	return nil
}

// buildSource picks between the gazetteer-backed county source and API
// discovery. The county config is returned as well since record
// enrichment needs it for county FIPS lookups.
func buildSource(cfg *config.Config, client *census.Client, coords *places.Coordinates, log logger.Logger) (*places.CountyConfig, collector.Source, error) {
	counties, err := places.LoadCountyConfig(cfg.Collection.CountiesFile)
	if discover {
		if err != nil {
			// Discovery works without the county config; enrichment just
			// omits county columns.
			counties = nil
		}
		src := places.NewDiscoverySource(client, cfg.Collection.EndYear, cfg.Collection.MinPopulation, log)
		if radiusMiles > 0 {
			src = src.WithRadius(radiusMiles, coords)
		}
		return counties, src, nil
	}

	if err != nil {
		return nil, nil, err
	}
	return counties, places.NewCountySource(counties, cfg.Collection.GazetteerFile, log), nil
}
