package main

import (
	"github.com/aretw0/tracebench/internal/cli"
	"github.com/spf13/cobra"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Inspect stored run transcripts",
	Long:  `List and show transcripts persisted by the configured store (memory, file or redis).`,
}

var transcriptsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored transcript IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListTranscripts(cmd.Context(), cmd.OutOrStdout(), globalOptions(cmd))
	},
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one stored transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		styled, _ := cmd.Flags().GetBool("styled")
		return cli.ShowTranscript(cmd.Context(), cmd.OutOrStdout(), globalOptions(cmd), args[0], jsonMode, styled)
	},
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsLsCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)

	transcriptsShowCmd.Flags().Bool("json", false, "Print the transcript as JSON")
	transcriptsShowCmd.Flags().Bool("styled", false, "Render a markdown report")
}
