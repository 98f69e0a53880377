package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ridgeline-geo/elevation-cli/internal/boundary"
	"github.com/ridgeline-geo/elevation-cli/internal/config"
	"github.com/ridgeline-geo/elevation-cli/internal/elevation"
	"github.com/ridgeline-geo/elevation-cli/internal/fetcher"
	"github.com/ridgeline-geo/elevation-cli/internal/popcenter"
	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "elevation-cli",
	Short: "Elevation statistics for US administrative geographies",
	Long:  "Resolves FIPS-identified states, counties, and census tracts to boundary polygons, acquires terrain tiles over them, and computes zonal and population-center elevation statistics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newService wires the pipeline stages from configuration. All stages share
// one rate-limited HTTP fetcher.
func newService() *elevation.Service {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Fetch.MaxRetries,
	})

	resolver := boundary.NewResolver(f, boundary.ResolverOptions{
		BaseURL: cfg.Boundary.BaseURL,
		TempDir: cfg.Boundary.TempDir,
	})
	acquirer := terrain.NewClient(f, terrain.ClientOptions{
		BaseURL:     cfg.Terrain.TileURL,
		Concurrency: cfg.Terrain.Concurrency,
	})
	popOpts := popcenter.LoaderOptions{
		CountyURL: cfg.PopCenter.CountyURL,
		TractURL:  cfg.PopCenter.TractURL,
	}
	// The census bureau also publishes the center tables on its anonymous
	// FTP mirror; when enabled it backs up the primary host.
	if cfg.PopCenter.UseMirror {
		popOpts.Mirror = fetcher.NewFTPFetcher(fetcher.FTPOptions{
			Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		})
	}
	centers := popcenter.NewLoader(f, popOpts)

	return elevation.NewService(resolver, acquirer, centers)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
