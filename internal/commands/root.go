package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "settle",
		Short:   "Reconcile bank transaction snapshots",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default ./"+configFileName+" if present)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newDiffCommand())
	rootCmd.AddCommand(newChainCommand())
	rootCmd.AddCommand(newParseCommand())

	return rootCmd
}
