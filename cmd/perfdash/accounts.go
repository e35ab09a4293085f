package main

import (
	"fmt"
	"strings"

	"github.com/badgerinventory/perfdash/internal/config"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Inspect linked account groups",
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <account>",
	Short: "Print every account linked to the given one",
	Long: `Print the group an account belongs to and every alias the dashboard
treats as the same account.

Examples:
  perfdash accounts resolve "Mariano's"`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	accountsCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	r := cfg.Accounts.Resolver()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "group: %s\n", r.Group(args[0]))
	fmt.Fprintf(out, "aliases: %s\n", strings.Join(r.Resolve(args[0]), ", "))
	return nil
}
