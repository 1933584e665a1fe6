package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the census collector
type Config struct {
	// Census API settings
	Census CensusConfig `yaml:"census" json:"census"`

	// Rate limiting and retry configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Collection targets and reference data paths
	Collection CollectionConfig `yaml:"collection" json:"collection"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CensusConfig holds Census API settings
type CensusConfig struct {
	// APIKey is optional; requests work without one but at a lower rate
	APIKey  string        `yaml:"api_key" json:"api_key"`
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// RateLimitConfig holds request pacing and retry configuration
type RateLimitConfig struct {
	// RequestsPerMinute applies when an API key is configured
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	// AnonymousRequestsPerMinute applies without a key
	AnonymousRequestsPerMinute int           `yaml:"anonymous_requests_per_minute" json:"anonymous_requests_per_minute"`
	MaxRetries                 int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay                 time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// CollectionConfig holds the work-set definition and reference data locations
type CollectionConfig struct {
	// ACS 5-year estimates begin in 2009
	StartYear int `yaml:"start_year" json:"start_year"`
	EndYear   int `yaml:"end_year" json:"end_year"`

	// OutputFile is the durable CSV store and sole resumability checkpoint
	OutputFile string `yaml:"output_file" json:"output_file"`

	// Reference data consumed by the entity sources
	CountiesFile    string `yaml:"counties_file" json:"counties_file"`
	GazetteerFile   string `yaml:"gazetteer_file" json:"gazetteer_file"`
	CoordinatesFile string `yaml:"coordinates_file" json:"coordinates_file"`

	// MinPopulation filters discovered places (discovery source only)
	MinPopulation int `yaml:"min_population" json:"min_population"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Census: CensusConfig{
			BaseURL: "https://api.census.gov/data",
			Timeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute:          600,
			AnonymousRequestsPerMinute: 120,
			MaxRetries:                 3,
			RetryDelay:                 time.Second,
		},
		Collection: CollectionConfig{
			StartYear:       2009,
			EndYear:         2022,
			OutputFile:      "north_texas_county_demographics.csv",
			CountiesFile:    "counties.json",
			GazetteerFile:   "st48_tx_place2020.txt",
			CoordinatesFile: "texas_place_coordinates.csv",
			MinPopulation:   1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	// CENSUS_API_KEY is the conventional name; NTXCENSUS_API_KEY also works
	if key := os.Getenv("CENSUS_API_KEY"); key != "" {
		c.Census.APIKey = key
	}
	if key := os.Getenv("NTXCENSUS_API_KEY"); key != "" {
		c.Census.APIKey = key
	}
	if baseURL := os.Getenv("NTXCENSUS_BASE_URL"); baseURL != "" {
		c.Census.BaseURL = baseURL
	}

	if rpm := os.Getenv("NTXCENSUS_REQUESTS_PER_MINUTE"); rpm != "" {
		if val, err := strconv.Atoi(rpm); err == nil && val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if retries := os.Getenv("NTXCENSUS_MAX_RETRIES"); retries != "" {
		if val, err := strconv.Atoi(retries); err == nil && val >= 0 {
			c.RateLimit.MaxRetries = val
		}
	}

	if output := os.Getenv("NTXCENSUS_OUTPUT_FILE"); output != "" {
		c.Collection.OutputFile = output
	}
	if level := os.Getenv("NTXCENSUS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".ntxcensus.yaml",
		".ntxcensus.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "ntxcensus", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".ntxcensus.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Census.BaseURL == "" {
		errs = append(errs, errors.New("census base URL is required"))
	}
	if c.Census.Timeout <= 0 {
		errs = append(errs, errors.New("census timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.AnonymousRequestsPerMinute <= 0 {
		errs = append(errs, errors.New("anonymous requests per minute must be positive"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Collection.StartYear < 2009 {
		errs = append(errs, errors.New("start year cannot be before 2009 (first ACS 5-year release)"))
	}
	if c.Collection.EndYear < c.Collection.StartYear {
		errs = append(errs, errors.New("end year cannot be before start year"))
	}
	if c.Collection.OutputFile == "" {
		errs = append(errs, errors.New("output file is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Years expands the configured range into an ordered period list
func (c *CollectionConfig) Years() []int {
	years := make([]int, 0, c.EndYear-c.StartYear+1)
	for year := c.StartYear; year <= c.EndYear; year++ {
		years = append(years, year)
	}
	return years
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiKey, ok := flags["api-key"].(string); ok && apiKey != "" {
		c.Census.APIKey = apiKey
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Collection.OutputFile = output
	}
	if startYear, ok := flags["start-year"].(int); ok && startYear > 0 {
		c.Collection.StartYear = startYear
	}
	if endYear, ok := flags["end-year"].(int); ok && endYear > 0 {
		c.Collection.EndYear = endYear
	}
	if maxRetries, ok := flags["max-retries"].(int); ok && maxRetries >= 0 {
		c.RateLimit.MaxRetries = maxRetries
	}
	if rpm, ok := flags["rate-limit"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment variables > .env file > config file > defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ntxcensus.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
