package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"ntxcensus/pkg/census"
	"ntxcensus/pkg/collector"
	"ntxcensus/pkg/config"
	"ntxcensus/pkg/logger"
	"ntxcensus/pkg/places"
	"ntxcensus/pkg/store"
	"ntxcensus/pkg/ui"
)

var statusVerbose bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report how complete the collected dataset is",
	Long: `Report dataset completeness without making any API requests.

Reads the output CSV and compares it against the configured city list
and year range, showing overall completeness and which cities still
have missing years. Use this between collection runs to see how much
work remains.`,
	Example: `  # Summary view
  ntxcensus status

  # Include every city with missing years
  ntxcensus status --verbose`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVarP(&statusVerbose, "verbose", "v", false, "list every city with missing years")
}

func runStatus(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	log := logger.GetLogger()

	csvStore := store.NewCSVStore(cfg.Collection.OutputFile, nil, log)
	records, err := csvStore.Load()
	if err != nil {
		ui.PrintError("Failed to read dataset", err.Error())
		os.Exit(1)
	}

	years := cfg.Collection.Years()
	entities := expectedEntities(cfg, log)

	ui.PrintHighlight("=== Dataset Status ===")
	ui.PrintInfo("Dataset", cfg.Collection.OutputFile)
	ui.PrintInfo("Records", fmt.Sprintf("%d", len(records)))
	ui.PrintInfo("Year range", fmt.Sprintf("%d-%d (%d years)", cfg.Collection.StartYear, cfg.Collection.EndYear, len(years)))

	if len(records) == 0 {
		ui.PrintWarning("Dataset is empty; run 'ntxcensus collect' to start")
		return nil
	}

	byEntity := make(map[string]map[int]bool)
	names := make(map[string]string)
	for _, r := range records {
		id := census.PadFIPS(r.EntityID)
		if byEntity[id] == nil {
			byEntity[id] = make(map[int]bool)
		}
		byEntity[id][r.Period] = true
		if name := r.Fields["city"]; name != "" {
			names[id] = name
		} else if name := r.Fields["name"]; name != "" {
			names[id] = places.CleanCityName(name)
		}
	}

	// With the city list available, completeness covers cities not yet
	// collected at all; otherwise it is relative to cities seen so far.
	totalCities := len(byEntity)
	if len(entities) > 0 {
		totalCities = len(entities)
		for _, e := range entities {
			if names[e.ID] == "" {
				names[e.ID] = places.CleanCityName(e.Name)
			}
		}
	}
	expected := totalCities * len(years)
	completeness := 0.0
	if expected > 0 {
		completeness = float64(len(records)) / float64(expected)
	}

	ui.PrintInfo("Cities", fmt.Sprintf("%d of %d collected", len(byEntity), totalCities))
	fmt.Printf("%s: %s %.1f%% (%d of %d city/year pairs)\n",
		ui.Cyan("Completeness"), ui.CompletenessBar(completeness, 30), completeness*100, len(records), expected)

	incomplete := incompleteCities(byEntity, entities, years)
	if len(incomplete) == 0 {
		ui.PrintSuccess("Dataset is complete")
		return nil
	}

	fmt.Println()
	ui.PrintWarning(fmt.Sprintf("%d city(ies) with missing years", len(incomplete)))
	limit := len(incomplete)
	if !statusVerbose && limit > 15 {
		limit = 15
	}
	for _, id := range incomplete[:limit] {
		have := len(byEntity[id])
		name := names[id]
		if name == "" {
			name = id
		}
		fmt.Printf("  %-24s %s %d/%d years\n", name, ui.Dim(id), have, len(years))
	}
	if len(incomplete) > limit {
		fmt.Printf("  %s\n", ui.Dim(fmt.Sprintf("... and %d more (use --verbose to list all)", len(incomplete)-limit)))
	}
	fmt.Println()
	ui.PrintInfo("Next step", "run 'ntxcensus collect' to fill the gaps")
	return nil
}

// expectedEntities resolves the configured city list for completeness
// accounting. Reference files may be absent on a machine that only holds
// the dataset, so failures degrade to a store-only view.
func expectedEntities(cfg *config.Config, log logger.Logger) []collector.Entity {
	counties, err := places.LoadCountyConfig(cfg.Collection.CountiesFile)
	if err != nil {
		log.WithError(err).Debug("county config unavailable, using store-only view")
		return nil
	}
	source := places.NewCountySource(counties, cfg.Collection.GazetteerFile, log)
	entities, err := source.Entities(context.Background())
	if err != nil {
		log.WithError(err).Debug("gazetteer unavailable, using store-only view")
		return nil
	}
	return entities
}

// incompleteCities returns entity IDs missing at least one year, sorted.
func incompleteCities(byEntity map[string]map[int]bool, entities []collector.Entity, years []int) []string {
	ids := make(map[string]bool, len(byEntity))
	for id := range byEntity {
		ids[id] = true
	}
	for _, e := range entities {
		ids[e.ID] = true
	}

	var incomplete []string
	for id := range ids {
		if len(byEntity[id]) < len(years) {
			incomplete = append(incomplete, id)
		}
	}
	sort.Strings(incomplete)
	return incomplete
}
