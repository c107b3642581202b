package main

import (
	"github.com/aretw0/tracebench/internal/cli"
	"github.com/spf13/cobra"
)

var linesCmd = &cobra.Command{
	Use:   "lines <binary>",
	Short: "Print the DWARF line table of a fixture binary",
	Long: `Reads the line table of an ELF binary and prints source line to address
mappings. Build fixtures with -gcflags=all="-N -l" for a line per statement.
With --break, breakpoints are toggled on the given lines of a single file and
the addresses they would patch are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		breaks, _ := cmd.Flags().GetIntSlice("break")
		return cli.Lines(cmd.OutOrStdout(), cli.LinesOptions{
			Binary: args[0],
			File:   file,
			Breaks: breaks,
		})
	},
}

func init() {
	rootCmd.AddCommand(linesCmd)
	linesCmd.Flags().StringP("file", "f", "", "Only show source files ending with this path")
	linesCmd.Flags().IntSliceP("break", "b", nil, "Toggle breakpoints on these lines")
}
