package main

import (
	"github.com/aretw0/tracebench/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <fixture>",
	Short: "Export the fixture call graph",
	Long: `Outputs a Mermaid diagram (graph TD) of the fixture's call graph.
With --transcript the nodes a stored run reached are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transcriptID, _ := cmd.Flags().GetString("transcript")
		return cli.Graph(cmd.Context(), cmd.OutOrStdout(), globalOptions(cmd), args[0], transcriptID)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("transcript", "t", "", "Transcript ID to overlay")
}
