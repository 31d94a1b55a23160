package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// logEnv names the environment variable holding the default log level.
const logEnv = "LOG"

var (
	version = "dev"

	catalogService  driving.CatalogService
	settingsService driving.SettingsService
	openSettings    func(configDir string) (driving.SettingsService, error)
	log             = logger.New(os.Stderr, logger.LevelInfo)
)

// Services holds what the commands run against.
type Services struct {
	Catalog  driving.CatalogService
	Settings driving.SettingsService

	// OpenSettings loads settings from another directory for --config.
	OpenSettings func(configDir string) (driving.SettingsService, error)

	Logger  *logger.Logger
	Version string
}

// Configure installs the services used by every command.
func Configure(s Services) {
	catalogService = s.Catalog
	settingsService = s.Settings
	openSettings = s.OpenSettings
	if s.Logger != nil {
		log = s.Logger
	}
	if s.Version != "" {
		version = s.Version
	}
}

var rootCmd = &cobra.Command{
	Use:   "mmdedup",
	Short: "Catalogue file content across machines",
	Long: `mmdedup records the content identity of every file on a machine in a
catalog, verifies files against it later, and reports which content one
catalog holds that another lacks.

Run "index" on each machine, then "compare" the catalogs to see what is not
yet backed up elsewhere.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides $LOG)")
	rootCmd.PersistentFlags().String("config", "", "Configuration directory (default ~/.mmdedup)")
}

// Execute runs the root command. Fatal errors are logged before returning.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && ExitCode(err) == exitFatal {
		log.Error("%v", err)
	}
	return err
}

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitFatal    = 2
)

// ExitCode maps a command outcome to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrMismatchesFound), errors.Is(err, domain.ErrCoverageGaps):
		return exitProblems
	default:
		return exitFatal
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	if dir, _ := cmd.Flags().GetString("config"); dir != "" {
		if openSettings == nil {
			return errors.New("settings loader not configured")
		}
		svc, err := openSettings(dir)
		if err != nil {
			return fmt.Errorf("loading config from %s: %w", dir, err)
		}
		settingsService = svc
	}
	return applyLogLevel(cmd)
}

// applyLogLevel picks the first of --verbose, --log-level, $LOG and the
// log_level setting.
func applyLogLevel(cmd *cobra.Command) error {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logger.LevelDebug)
		return nil
	}

	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level, err := logger.ParseLevel(flag)
		if err != nil {
			return fmt.Errorf("%w: --log-level: %v", domain.ErrInvalidInput, err)
		}
		log.SetLevel(level)
		return nil
	}

	if env := os.Getenv(logEnv); env != "" {
		level, err := logger.ParseLevel(env)
		if err != nil {
			log.Warn("Ignoring $%s: %v", logEnv, err)
		} else {
			log.SetLevel(level)
			return nil
		}
	}

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			if level, err := logger.ParseLevel(settings.LogLevel); err == nil {
				log.SetLevel(level)
			}
		}
	}
	return nil
}

// currentSettings returns stored settings, or defaults when no settings
// service is configured.
func currentSettings() (domain.Settings, error) {
	if settingsService == nil {
		return domain.DefaultSettings(), nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return settings, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}
