package main

import (
	"os"

	"github.com/aretw0/tracebench/internal/cli"
	"github.com/aretw0/tracebench/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <fixture> [args...]",
	Short: "Run a fixture and print its output",
	Long: `Runs a fixture and prints exactly what the program wrote to stdout.
Arguments after the fixture name are passed to it (only callchain counts them).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFixture(cmd, args, false)
	},
}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <fixture> [args...]",
	Short: "Run a fixture and check it against its golden transcript",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFixture(cmd, args, true)
	},
}

func runFixture(cmd *cobra.Command, args []string, verify bool) error {
	if v, _ := cmd.Flags().GetBool("verify"); v {
		verify = true
	}
	mode, _ := cmd.Flags().GetString("mode")
	jsonMode, _ := cmd.Flags().GetBool("json")
	styled, _ := cmd.Flags().GetBool("styled")
	if !cmd.Flags().Changed("styled") {
		styled = verify && !jsonMode && tui.IsTerminal(os.Stdout)
	}

	ctx := cli.NewSignalContext(cmd.Context())
	defer ctx.Cancel()

	return cli.Run(ctx, cmd.OutOrStdout(), cli.RunOptions{
		GlobalOptions: globalOptions(cmd),
		Fixture:       args[0],
		Args:          args[1:],
		Mode:          mode,
		Verify:        verify,
		JSON:          jsonMode,
		Styled:        styled,
	})
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(verifyCmd)

	for _, c := range []*cobra.Command{runCmd, verifyCmd} {
		c.Flags().String("mode", "", "Execution mode: inproc or exec (default: exec when configured)")
		c.Flags().Bool("json", false, "Print the transcript as JSON")
		c.Flags().Bool("styled", false, "Render a markdown report (default on a terminal for verify)")
		// Fixture arguments may look like flags.
		c.Flags().SetInterspersed(false)
	}
	runCmd.Flags().Bool("verify", false, "Check the output against the golden transcript")
}
