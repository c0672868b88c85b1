package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "collectorctl",
	Short: "Kestrel collector operator CLI",
	Long: `collectorctl is the operator command-line interface for the Kestrel
event collector.

Mint and inspect project ingestion tokens for instrumented applications.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
