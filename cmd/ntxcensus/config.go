package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ntxcensus/pkg/config"
	"ntxcensus/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage ntxcensus configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (CENSUS_API_KEY, NTXCENSUS_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.ntxcensus.yaml'
unless a different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources.

The API key is masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and reference files",
	Long: `Validate the configuration and check that the reference data files
the collector depends on are present and readable.`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".ntxcensus.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# ntxcensus configuration file
#
# Every option here can also be set through environment variables:
# CENSUS_API_KEY plus NTXCENSUS_BASE_URL, NTXCENSUS_OUTPUT_FILE,
# NTXCENSUS_REQUESTS_PER_MINUTE, NTXCENSUS_MAX_RETRIES,
# NTXCENSUS_LOG_LEVEL.

# Census API settings
census:
  # API key (optional but recommended, see
  # https://api.census.gov/data/key_signup.html).
  # Prefer 'ntxcensus auth set' or the CENSUS_API_KEY environment
  # variable over writing the key into this file.
  api_key: ""

  # Census data API root
  base_url: "https://api.census.gov/data"

  # Per-request timeout
  timeout: 30s

# Request pacing and retries
rate_limit:
  # Requests per minute with an API key configured
  requests_per_minute: 600

  # Requests per minute without a key
  anonymous_requests_per_minute: 120

  # Maximum retry attempts per request
  max_retries: 3

  # Delay before the first retry; doubles on each subsequent attempt
  retry_delay: 1s

# Collection targets and reference data
collection:
  # ACS 5-year estimates start in 2009
  start_year: 2009
  end_year: 2022

  # The durable dataset; collection resumes from whatever it contains
  output_file: "north_texas_county_demographics.csv"

  # County name -> FIPS mapping defining the target area
  counties_file: "counties.json"

  # TIGER place gazetteer for the state (pipe-delimited)
  gazetteer_file: "st48_tx_place2020.txt"

  # Optional place coordinates for distance columns
  coordinates_file: "texas_place_coordinates.csv"

  # Minimum population for --discover mode
  min_population: 1000

# Logging
logging:
  # debug, info, warn, error
  level: "info"

  # Optional log file; console output always goes to stderr
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store an API key with 'ntxcensus auth set' (optional)")
	fmt.Println("2. Run 'ntxcensus config validate' to check reference files")
	fmt.Println("3. Start collecting with 'ntxcensus collect'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	if displayCfg.Census.APIKey != "" {
		displayCfg.Census.APIKey = maskKey(displayCfg.Census.APIKey)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (CENSUS_API_KEY, NTXCENSUS_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (auto-detected)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	var warnings []string
	var problems []string

	if cfg.Census.APIKey == "" {
		warnings = append(warnings, "no API key configured; collection will run at the anonymous rate")
	}

	if _, err := os.Stat(cfg.Collection.CountiesFile); err != nil {
		problems = append(problems, fmt.Sprintf("counties file not readable: %s", cfg.Collection.CountiesFile))
	}
	if _, err := os.Stat(cfg.Collection.GazetteerFile); err != nil {
		problems = append(problems, fmt.Sprintf("gazetteer file not readable: %s", cfg.Collection.GazetteerFile))
	}
	if _, err := os.Stat(cfg.Collection.CoordinatesFile); err != nil {
		warnings = append(warnings, fmt.Sprintf("coordinates file not readable: %s (distance columns will default)", cfg.Collection.CoordinatesFile))
	}

	if dir := filepath.Dir(cfg.Collection.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
		}
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has problems:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Output file: %s\n", cfg.Collection.OutputFile)
	fmt.Printf("  Years: %d-%d\n", cfg.Collection.StartYear, cfg.Collection.EndYear)
	fmt.Printf("  Rate limit: %d requests/minute (%d anonymous)\n", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.AnonymousRequestsPerMinute)
	fmt.Printf("  Max retries: %d\n", cfg.RateLimit.MaxRetries)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
