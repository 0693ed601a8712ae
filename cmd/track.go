package cmd

import (
	"bytes"
	"os"

	"ccforest/internal/diagnostics"
	"ccforest/internal/parser"
	"ccforest/internal/source"
	"ccforest/internal/track"

	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:   "track FILE",
	Short: "Parse FILE and emit its branch-track event stream as NDJSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var buf bytes.Buffer
		if err := recordTrack(path, &buf); err != nil {
			return err
		}
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	},
}

// recordTrack re-parses path with a branch-track recorder attached to
// w, producing the same NDJSON event stream either `track` writes
// verbatim or `svg` decodes and renders.
func recordTrack(path string, w *bytes.Buffer) error {
	f, err := source.Load(path)
	if err != nil {
		return diagnostics.IO(path, "%v", err)
	}
	tu := parser.New(path)
	tu.Track = track.NewRecorder(w)
	if verbose {
		tu.Diags = diagnostics.NewSink(os.Stderr)
	}
	if err := tu.Parse(path, f.Content); err != nil {
		return err
	}
	if d := tu.Diags.FirstFatal(); d != nil {
		return d
	}
	return nil
}
