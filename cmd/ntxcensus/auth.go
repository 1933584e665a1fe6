package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ntxcensus/pkg/auth"
	"ntxcensus/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Census API key",
	Long: `Manage the stored Census API key.

The key is stored using:
  - System keychain (when available)
  - Environment variables (CENSUS_API_KEY, read-only fallback)

A key is free and optional, but collection runs noticeably faster and
more reliably with one. Request a key at:
  ` + auth.SignupURL,
}

// authSetCmd represents the auth set command
var authSetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store a Census API key securely",
	Long: `Store a Census API key in the system keychain.

If the key is not given as an argument you will be prompted for it;
the prompt does not echo what you type.`,
	Example: `  # Prompted entry (recommended, keeps the key out of shell history)
  ntxcensus auth set

  # Direct entry
  ntxcensus auth set 0123456789abcdef0123456789abcdef01234567`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAuthSet,
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether an API key is configured",
	Run:   runAuthShow,
}

// authRemoveCmd represents the auth remove command
var authRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the stored API key",
	Run:   runAuthRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authShowCmd)
	authCmd.AddCommand(authRemoveCmd)
}

func runAuthSet(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	var key string
	var err error
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	} else {
		fmt.Println(auth.Instructions())
		fmt.Println()
		key, err = auth.PromptAPIKey()
		if err != nil {
			ui.PrintError("Failed to read API key", err.Error())
			os.Exit(1)
		}
	}

	if err := manager.Store(key); err != nil {
		if errors.Is(err, auth.ErrInvalidKey) {
			ui.PrintError("API key cannot be empty")
		} else {
			ui.PrintError("Failed to store API key", err.Error())
			fmt.Println("\nAs a fallback, export it in your shell profile:")
			fmt.Println("  export CENSUS_API_KEY=your_key")
		}
		os.Exit(1)
	}

	ui.PrintSuccess("API key stored")
}

func runAuthShow(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	key, err := manager.Retrieve()
	if err != nil {
		ui.PrintWarning("No API key configured")
		fmt.Println("\nStore one with 'ntxcensus auth set', or get a free key at:")
		fmt.Println("  " + auth.SignupURL)
		os.Exit(1)
	}

	ui.PrintInfo("API key", maskKey(key))
}

func runAuthRemove(cmd *cobra.Command, args []string) {
	manager := auth.NewManager()

	if err := manager.Delete(); err != nil {
		if errors.Is(err, auth.ErrKeyNotFound) {
			ui.PrintWarning("No API key stored")
			return
		}
		ui.PrintError("Failed to remove API key", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("API key removed")
}

// maskKey shows just enough of the key to recognize it.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
