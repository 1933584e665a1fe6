package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ntxcensus",
	Short: "Resumable demographic data collector for North Texas cities",
	Long: `ntxcensus collects American Community Survey 5-year demographic
estimates for North Texas places from the U.S. Census Bureau API and
maintains them in a single CSV dataset.

Features:
  - Resumable collection: already-collected city/year pairs are skipped
  - Checkpoint after every successful fetch, safe to interrupt any time
  - Smart rate limiting with separate anonymous and keyed budgets
  - Automatic retry with exponential backoff
  - Secure API key storage using the system keychain
  - Optional statewide city discovery by population and distance`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .ntxcensus.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`ntxcensus {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
