// Command mmdedup catalogues file content across machines and reports
// what one machine holds that another lacks.
package main

import (
	"os"

	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driven/config/file"
	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/multi-machine-dedup/internal/adapters/driving/cli"
	"github.com/custodia-labs/multi-machine-dedup/internal/connectors/filesystem"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/services"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.New(os.Stderr, logger.LevelInfo)

	// Settings are optional: flags can supply everything.
	settings, err := openSettings("")
	if err != nil {
		log.Warn("Settings unavailable: %v", err)
	}

	cli.Configure(cli.Services{
		Catalog: services.NewCatalogService(
			sqlite.Opener{},
			filesystem.NewWalker(),
			filesystem.NewMIMEDetector(),
			log,
		),
		Settings:     settings,
		OpenSettings: openSettings,
		Logger:       log,
		Version:      version,
	})

	return cli.ExitCode(cli.Execute())
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}
