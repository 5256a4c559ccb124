package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/settle/internal/importer"
)

func newChainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chain [directory]",
		Short: "Reconcile every consecutive pair of snapshots in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := snapshotDir
			if len(args) > 0 {
				dir = args[0]
			}

			e, err := newEnv(cmd)
			if err != nil {
				return err
			}

			files, err := importer.Scan(dir)
			if err != nil {
				return err
			}
			if len(files) < 2 {
				return fmt.Errorf("need at least two snapshots in %s, found %d", dir, len(files))
			}

			current, err := e.load(files[0].Path)
			if err != nil {
				return err
			}
			for _, f := range files[1:] {
				next, err := e.load(f.Path)
				if err != nil {
					return err
				}
				diff, err := e.diff(current, next)
				if err != nil {
					return fmt.Errorf("reconciling %s: %w", f.Name, err)
				}

				s := diff.Summary()
				fmt.Fprintf(cmd.OutOrStdout(), "%s: new_hold=%d new_committed=%d updated=%d deleted=%d mode=%s\n",
					f.Name, s.NewHold, s.NewCommitted, s.Updated, s.Deleted, diff.Mode())
				current = next
			}
			return nil
		},
	}
}
