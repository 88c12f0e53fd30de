package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stockcheck-dev/stockcheck/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous processing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			entries, err := runlog.Read(p.root)
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), entries, limit)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the most recent n runs")

	return cmd
}

func printHistory(out io.Writer, entries []runlog.Entry, limit int) error {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tROWS\tEXPIRED\tNEAR\tVALID\tNO EXPIRY\tINVALID\tDUPES\tCOMMIT")
	for _, e := range entries {
		commit := e.CommitHash
		if commit == "" {
			commit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.Source, e.Processed,
			e.Expired, e.NearExpiry, e.Valid, e.NoExpiry, e.Invalid, e.Duplicates, commit)
	}
	return tw.Flush()
}
