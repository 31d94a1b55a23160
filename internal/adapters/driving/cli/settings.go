package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the defaults used when flags are not given.

Settings are stored in config.toml under the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting",
	Long: `Change a setting and save it.

Keys:
  label      host label recorded with indexed files
  db         default catalog store location
  workers    files hashed concurrently while indexing
  rate       maximum files hashed per second, 0 for unlimited
  exclude    comma-separated glob patterns skipped while indexing
  log_level  debug, info, warn or error`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Printf("  Label:     %s\n", orNotSet(settings.Label))
	cmd.Printf("  Catalog:   %s\n", orNotSet(settings.DB))
	cmd.Printf("  Workers:   %d\n", settings.Workers)
	cmd.Printf("  Rate:      %s\n", describeRate(settings.Rate))
	cmd.Printf("  Exclude:   %s\n", orNotSet(strings.Join(settings.Exclude, ", ")))
	cmd.Printf("  Log level: %s\n", settings.LogLevel)
	cmd.Println()
	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("%w (keys: %s)", err, strings.Join(settingsService.Keys(), ", "))
		}
		return err
	}

	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func describeRate(rate float64) string {
	if rate <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%g files/s", rate)
}
