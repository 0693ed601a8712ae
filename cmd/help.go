package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// helpCmd replaces cobra's default help behavior so that `help bogus`
// prints `Unknown command: `bogus'` and exits 0 rather than cobra's
// usual usage-error exit, per spec.md §8 scenario 6.
var helpCmd = &cobra.Command{
	Use:                "help [command]",
	Short:              "List commands, or show help for one command",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			listCommands()
			return nil
		}
		target, _, err := rootCmd.Find(args)
		if err != nil || target == rootCmd {
			fmt.Printf("Unknown command: `%s'\n", args[0])
			return nil
		}
		return target.Help()
	},
}

func listCommands() {
	for _, c := range rootCmd.Commands() {
		if c.Hidden {
			continue
		}
		fmt.Printf("%s\t- %s\n", c.Name(), c.Short)
	}
}
