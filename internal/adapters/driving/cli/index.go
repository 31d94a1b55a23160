package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] ROOT",
	Short: "Catalogue every file under a directory",
	Long: `Walks ROOT recursively and records every regular file in the catalog:
its content identity (CRC-32C checksum and size), its MIME type, and its path
under the given host label.

Content already in the catalog and paths already recorded are reported and
left unchanged. Unreadable files are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringP("label", "l", "", "Host label recorded with each file (default from settings, then hostname)")
	indexCmd.Flags().StringP("db", "d", "", "Catalog store location (default from settings)")
	indexCmd.Flags().Int("workers", 0, "Files hashed concurrently (default from settings)")
	indexCmd.Flags().StringSlice("exclude", nil, "Glob pattern to skip, repeatable")
	indexCmd.Flags().Float64("rate", 0, "Maximum files hashed per second, 0 for unlimited")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if err := overrideSettings(cmd, &settings); err != nil {
		return err
	}

	req := driving.IndexRequest{
		Host:    settings.Label,
		DB:      settings.DB,
		Root:    args[0],
		Workers: settings.Workers,
		Rate:    settings.Rate,
		Exclude: settings.Exclude,
	}
	cmd.Printf("Indexing %s as %q into %s...\n", req.Root, req.Host, req.DB)

	// Conflicts and unreadable files are logged by the service, with its
	// summary line; none of them fails the run.
	_, err = runWithProgress(cmd, func(ctx context.Context) (*domain.IndexReport, error) {
		return catalogService.Index(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	return nil
}

// overrideSettings applies the flags the user set on cmd over settings.
func overrideSettings(cmd *cobra.Command, settings *domain.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("label") {
		settings.Label, _ = flags.GetString("label")
	}
	if flags.Changed("db") {
		settings.DB, _ = flags.GetString("db")
	}
	if flags.Changed("workers") {
		settings.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("rate") {
		settings.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("exclude") {
		settings.Exclude, _ = flags.GetStringSlice("exclude")
	}

	if settings.Label == "" {
		return fmt.Errorf("%w: no host label; pass --label or run 'mmdedup settings set label NAME'", domain.ErrInvalidInput)
	}
	if settings.DB == "" {
		return fmt.Errorf("%w: no catalog; pass --db or run 'mmdedup settings set db PATH'", domain.ErrInvalidInput)
	}
	return settings.Validate()
}
