package main

import (
	"fmt"
	"os"

	"github.com/aretw0/tracebench/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracebench",
	Short: "tracebench runs and verifies debugger test fixtures",
	Long: `tracebench drives small fixture programs (signaltoy, fibtracer, callchain)
built to exercise debuggers and tracers. It runs them in-process or as
executables, checks their output against golden transcripts, and serves
them over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default tracebench.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error or off (overrides config)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

func globalOptions(cmd *cobra.Command) cli.GlobalOptions {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	return cli.GlobalOptions{
		ConfigPath: configPath,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}
}
