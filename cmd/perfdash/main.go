// Package main implements the perfdash CLI: the dashboard server and
// one-shot reports against a production export.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML configuration file
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "perfdash",
	Short: "Employee production analytics dashboard",
	Long: `perfdash loads an employee production export and serves dashboard
views over HTTP, or renders a single view as JSON, CSV or XLSX.

Environment:
  PERFDASH_<SECTION>_<FIELD> overrides any configuration value,
  e.g. PERFDASH_DATA_SOURCE or PERFDASH_SERVER_PORT.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the perfdash version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "perfdash %s\n", version)
	},
}
