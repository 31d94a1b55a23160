package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const progressInterval = 500 * time.Millisecond

// isTerminal reports whether progress lines can be redrawn in place.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// runWithProgress runs fn while redrawing a progress line from the catalog
// service status. Without a terminal fn simply runs.
func runWithProgress[T any](cmd *cobra.Command, fn func(context.Context) (T, error)) (T, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if !isTerminal() {
		return fn(ctx)
	}

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{v, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case r := <-done:
			if lastCount > 0 {
				cmd.Println()
			}
			return r.value, r.err
		case <-ticker.C:
			status := catalogService.Status()
			if status.Running && status.Processed > lastCount {
				cmd.Printf("\r%s: %d files (%d problems)", status.Operation, status.Processed, status.Problems)
				lastCount = status.Processed
			}
		}
	}
}
