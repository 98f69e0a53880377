package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ridgeline-geo/elevation-cli/internal/elevation"
)

var lookupFlags struct {
	level      string
	geoid      string
	year       int
	resolution string
	zoom       int
	out        string
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Compute the elevation surface for one geography",
	Long:  "Resolves a single geography by GEOID, crops the elevation raster to its polygon, prints the mean elevation, and writes a rendered map.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req := elevation.LookupRequest{
			Level:      lookupFlags.level,
			GEOID:      lookupFlags.geoid,
			Year:       orInt(lookupFlags.year, cfg.Boundary.Year),
			Resolution: orString(lookupFlags.resolution, cfg.Boundary.Resolution),
			Zoom:       orZoom(lookupFlags.zoom, cfg.Terrain.Zoom),
		}

		surface, err := newService().GetElevation(ctx, req)
		if err != nil {
			zap.L().Error("lookup failed",
				zap.String("geoid", req.GEOID),
				zap.String("kind", elevation.Kind(err)),
				zap.Error(err),
			)
			return err
		}

		out := lookupFlags.out
		if out == "" {
			out = filepath.Join(cfg.Output.Dir, fmt.Sprintf("%s_elevation.png", surface.GEOID))
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close() //nolint:errcheck
		if err := elevation.WriteMapPNG(f, surface, elevation.MapOptions{}); err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		p.Printf("%s (%s)\n", surface.Name, surface.GEOID)
		p.Printf("  mean elevation: %.1f m\n", surface.Mean)
		p.Printf("  surface cells:  %d (source resolution %s, zoom %d)\n",
			len(surface.Samples), surface.Resolution, surface.Zoom)
		p.Printf("  map written to %s\n", out)

		return nil
	},
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

// orZoom treats negative as unset so that zoom 0 stays reachable.
func orZoom(v, fallback int) int {
	if v >= 0 {
		return v
	}
	return fallback
}

func orString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func init() {
	lookupCmd.Flags().StringVar(&lookupFlags.level, "level", "county", "geography level: state, county, or tract")
	lookupCmd.Flags().StringVar(&lookupFlags.geoid, "geoid", "", "FIPS GEOID of the geography (required)")
	lookupCmd.Flags().IntVar(&lookupFlags.year, "year", 0, "boundary vintage (default from config)")
	lookupCmd.Flags().StringVar(&lookupFlags.resolution, "resolution", "", "boundary detail: 500k, 5m, or 20m (default from config)")
	lookupCmd.Flags().IntVar(&lookupFlags.zoom, "zoom", -1, "terrain tile zoom 0-16 (default from config)")
	lookupCmd.Flags().StringVar(&lookupFlags.out, "out", "", "output map path (default <geoid>_elevation.png)")
	_ = lookupCmd.MarkFlagRequired("geoid")
	rootCmd.AddCommand(lookupCmd)
}
