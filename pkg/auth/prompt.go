package auth

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// SignupURL is where a free Census API key can be requested.
const SignupURL = "https://api.census.gov/data/key_signup.html"

// Instructions returns a short operator-facing explanation of why an API
// key is worth configuring.
func Instructions() string {
	return strings.Join([]string{
		"A Census API key significantly improves collection speed and reliability:",
		"  - higher request rate",
		"  - fewer timeouts",
		"  - better success rate on long runs",
		"",
		"Get a free key at: " + SignupURL,
	}, "\n")
}

// PromptAPIKey reads the API key from the terminal without echoing it.
func PromptAPIKey() (string, error) {
	fmt.Fprint(os.Stderr, "Enter your Census API key: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", ErrInvalidKey
	}
	return key, nil
}
