package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/report"
)

func newDiffCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff <current.csv> <new.csv>",
		Short: "Reconcile a stored snapshot against a fresh export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}

			current, err := e.load(args[0])
			if err != nil {
				return err
			}
			next, err := e.load(args[1])
			if err != nil {
				return err
			}

			diff, err := e.diff(current, next)
			if err != nil {
				return fmt.Errorf("reconciling %s: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "text":
				return report.WriteText(out, diff)
			case "yaml":
				return report.WriteSummaryYAML(out, diff.Summary())
			case "csv":
				return report.WriteCSV(out, diff)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, yaml or csv")

	return cmd
}
