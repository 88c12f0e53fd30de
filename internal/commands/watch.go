package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stockcheck-dev/stockcheck/internal/importer"
	"github.com/stockcheck-dev/stockcheck/internal/watch"
)

func newWatchCommand() *cobra.Command {
	var f processFlags
	var backfill bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process files as they are dropped into import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(f.repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("csv") {
				f.csv = p.cfg.Output.CSV
			}
			if err := os.MkdirAll(importer.ImportDir(p.root), 0o755); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			f.moveArgs = true
			w := watch.New(importer.ImportDir(p.root), 0, p.logger, func(ctx context.Context, path string) error {
				_, err := runProcess(ctx, out, p, []string{path}, f)
				return err
			})

			if backfill {
				if err := w.Backfill(ctx); err != nil {
					return err
				}
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&f.repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&f.csv, "csv", false, "also write CSV exports next to each workbook")
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "do not commit reports even when git.auto_commit is set")
	cmd.Flags().BoolVar(&backfill, "backfill", false, "process files already in import/ before watching")

	return cmd
}
