package cmd

import (
	"bytes"
	"os"

	"ccforest/internal/track"
	"ccforest/internal/visualize"

	"github.com/spf13/cobra"
)

var svgCmd = &cobra.Command{
	Use:   "svg FILE",
	Short: "Parse FILE and render its branch-track timeline as SVG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var buf bytes.Buffer
		if err := recordTrack(path, &buf); err != nil {
			return err
		}
		events, err := track.Decode(&buf)
		if err != nil {
			return err
		}
		return visualize.Render(os.Stdout, events)
	},
}
