/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func printHelpText(cmd *cobra.Command) {
	helpText := fmt.Sprintf(`nvr %s

%s

USAGE:
    nvr [OPTIONS] [FILE...]

    A FILE of "-" reads standard input into a new buffer.
    A FILE of "+CMD" runs CMD after the files are opened; "+N" jumps to line N.

OPTIONS:
%s`, cmd.Version, cmd.Long, cmd.Flags().FlagUsages())
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
