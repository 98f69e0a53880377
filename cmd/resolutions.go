package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ridgeline-geo/elevation-cli/internal/terrain"
)

var resolutionsCmd = &cobra.Command{
	Use:   "resolutions",
	Short: "Print the zoom to nominal-resolution table",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ZOOM\tNOMINAL RESOLUTION")
		for zoom := 0; zoom <= terrain.MaxZoom; zoom++ {
			label, err := terrain.NominalResolution(zoom)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%d\t%s\n", zoom, label)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(resolutionsCmd)
}
