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

var batchFlags struct {
	level      string
	state      string
	county     string
	year       int
	resolution string
	zoom       int
	format     string
	out        string
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute per-sub-geography elevation across a state",
	Long:  "For every county or tract population center in a state, computes the elevation at the center and the zonal mean of its polygon, and writes the records as CSV or XLSX.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req := elevation.BatchRequest{
			Level:      batchFlags.level,
			StateFIPS:  batchFlags.state,
			CountyFIPS: batchFlags.county,
			Year:       orInt(batchFlags.year, cfg.Boundary.Year),
			Resolution: orString(batchFlags.resolution, cfg.Boundary.Resolution),
			Zoom:       orZoom(batchFlags.zoom, cfg.Terrain.Zoom),
		}

		result, err := newService().GetElevationBatch(ctx, req)
		if err != nil {
			zap.L().Error("batch failed",
				zap.String("state", req.StateFIPS),
				zap.String("kind", elevation.Kind(err)),
				zap.Error(err),
			)
			return err
		}

		format := orString(batchFlags.format, cfg.Output.Format)
		out := batchFlags.out
		if out == "" {
			out = filepath.Join(cfg.Output.Dir,
				fmt.Sprintf("%s_%s_elevation.%s", result.StateFIPS, result.Level, format))
		}

		if err := writeBatch(out, format, result.Records); err != nil {
			return err
		}

		p := message.NewPrinter(language.English)
		p.Printf("%s: %d %s records (source resolution %s)\n",
			result.StateName, len(result.Records), result.Level, result.Resolution)
		p.Printf("written to %s\n", out)

		return nil
	},
}

func writeBatch(path, format string, records []elevation.Record) error {
	switch format {
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create %s", path)
		}
		defer f.Close() //nolint:errcheck
		return elevation.WriteCSV(f, records)
	case "xlsx":
		return elevation.WriteXLSX(path, "", records)
	default:
		return eris.Errorf("unknown output format %q (want csv or xlsx)", format)
	}
}

func init() {
	batchCmd.Flags().StringVar(&batchFlags.level, "level", "county", "sub-geography level: county or tract")
	batchCmd.Flags().StringVar(&batchFlags.state, "state", "", "2-digit state FIPS code (required)")
	batchCmd.Flags().StringVar(&batchFlags.county, "county", "", "optional 3-digit county code to narrow tract batches")
	batchCmd.Flags().IntVar(&batchFlags.year, "year", 0, "boundary vintage (default from config)")
	batchCmd.Flags().StringVar(&batchFlags.resolution, "resolution", "", "boundary detail: 500k, 5m, or 20m (default from config)")
	batchCmd.Flags().IntVar(&batchFlags.zoom, "zoom", -1, "terrain tile zoom 0-16 (default from config)")
	batchCmd.Flags().StringVar(&batchFlags.format, "format", "", "output format: csv or xlsx (default from config)")
	batchCmd.Flags().StringVar(&batchFlags.out, "out", "", "output path (default <state>_<level>_elevation.<format>)")
	_ = batchCmd.MarkFlagRequired("state")
	rootCmd.AddCommand(batchCmd)
}
