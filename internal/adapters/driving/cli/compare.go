package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Report content in one catalog that another lacks",
	Long: `Checks that every content identity (checksum and size) in the first
catalog also appears in the second. Paths and host labels are ignored, so a
file renamed or moved on the other machine still counts as covered.

The comparison is directional: swap --db1 and --db2 to check the other way.
Exits with status 1 when any content is missing from the second catalog.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().String("db1", "", "Catalog whose content must be covered")
	compareCmd.Flags().String("db2", "", "Catalog expected to cover it")
	_ = compareCmd.MarkFlagRequired("db1")
	_ = compareCmd.MarkFlagRequired("db2")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	db1, _ := cmd.Flags().GetString("db1")
	db2, _ := cmd.Flags().GetString("db2")
	req := driving.CompareRequest{DB1: db1, DB2: db2}
	cmd.Printf("Comparing %s against %s...\n", req.DB1, req.DB2)

	report, err := runWithProgress(cmd, func(ctx context.Context) (*domain.CompareReport, error) {
		return catalogService.Compare(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	// The service has logged each gap and the summary.
	if report.Covered() {
		return nil
	}
	return fmt.Errorf("%w: %d entries", domain.ErrCoverageGaps, report.Gaps())
}
