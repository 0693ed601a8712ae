package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, injected at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	rootDir    string
	configPath string
	verbose    bool
	assumeTrue []string
	assumeDef  []string
)

var rootCmd = &cobra.Command{
	Use:   "ccforest",
	Short: "A conditional-compilation-aware symbol explorer for C source",
	Long: `ccforest parses C source while forking its parse state on every
preprocessor conditional, so every symbol it reports carries the exact
boolean condition on the preprocessor configuration under which that
symbol exists.`,
	Version:       getVersionString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ccforest %s\n", getVersionString())
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		fmt.Printf("  Date:    %s\n", date)
	},
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

// SetVersionInfo wires ldflags-injected build metadata into the root
// command, kept from the teacher's own main.go/cmd/root.go pattern.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = getVersionString()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "base directory for relative file arguments")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "override .ccforest.yaml discovery")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log warning and error diagnostics to stderr")

	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(svgCmd)
	rootCmd.AddCommand(versionCmd)

	lsCmd.Flags().StringArrayVar(&assumeTrue, "assume", nil, "force a raw #if predicate (e.g. a bare macro name) to true before rendering conditions")
	lsCmd.Flags().StringArrayVar(&assumeDef, "assume-def", nil, "force defined(NAME) to true before rendering conditions")
}
