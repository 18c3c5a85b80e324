package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to sanity! Let's configure your client.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Backend address.
	backendPrompt := promptui.Prompt{
		Label:   "Sanity backend URL",
		Default: cfg.BackendURL,
	}
	backendURL, err := backendPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	cfg.BackendURL = backendURL

	// 2. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:   "Request timeout in seconds (LLM verification can be slow)",
		Default: strconv.Itoa(cfg.TimeoutSeconds),
		Validate: func(s string) error {
			n, convErr := strconv.Atoi(s)
			if convErr != nil || n <= 0 {
				return fmt.Errorf("must be a positive number")
			}
			return nil
		},
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.TimeoutSeconds, _ = strconv.Atoi(timeoutStr)

	// 3. Console port.
	portPrompt := promptui.Prompt{
		Label:   "Web console port",
		Default: strconv.Itoa(cfg.Console.Port),
		Validate: func(s string) error {
			n, convErr := strconv.Atoi(s)
			if convErr != nil || n < 0 || n > 65535 {
				return fmt.Errorf("must be a valid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("console port: %w", err)
	}
	cfg.Console.Port, _ = strconv.Atoi(portStr)

	// 4. Local URL extraction fallback.
	extractPrompt := promptui.Select{
		Label: "Extract article text locally before submitting URLs",
		Items: []string{"no (let the backend fetch pages)", "yes (extract locally and submit text)"},
	}
	extractIdx, _, err := extractPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("local extraction: %w", err)
	}
	cfg.LocalExtract = extractIdx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	fmt.Printf("\nConfiguration saved to %s\n", path)

	return cfg, nil
}
