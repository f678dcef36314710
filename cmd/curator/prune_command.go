package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
	"curator/internal/partition"
)

func newPruneCommand(ctx *commandContext) *cobra.Command {
	var extension string
	var dryRun bool
	var minUnderscores int
	var flags sliceFlags

	cmd := &cobra.Command{
		Use:   "prune <dir>",
		Short: "Delete files whose names have too few underscores",
		Long: `Prune removes leftovers that were never renamed to the time-window form:
any file directly inside the directory whose name has fewer than
--min-underscores underscores. Use --dry-run to list them first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report *jobs.PruneReport
			res, err := runBatch(cmd, ctx, "prune", partition.Whole, args[0], flags.workers,
				func(runCtx context.Context, opts jobs.Options) (*jobs.Report, error) {
					r, err := jobs.Prune(runCtx, jobs.PruneRequest{
						Dir:            args[0],
						Extension:      extension,
						MinUnderscores: minUnderscores,
						DryRun:         dryRun,
					}, opts)
					if err != nil {
						return nil, err
					}
					report = r
					return &r.Report, nil
				})
			if err != nil {
				return err
			}

			if ctx.jsonOutput() {
				return printBatchReport(cmd, ctx, res, map[string]any{"dry_run": dryRun, "candidates": report.Candidates})
			}
			out := cmd.OutOrStdout()
			if dryRun {
				p := newPrinter()
				p.Fprintf(out, "Dry run: %d files would be deleted\n", len(report.Candidates))
				for _, path := range report.Candidates {
					name := filepath.Base(path)
					fmt.Fprintf(out, "  %s (underscores: %d)\n", name, strings.Count(name, "_"))
				}
				return nil
			}
			return printBatchReport(cmd, ctx, res, nil)
		},
	}

	cmd.Flags().StringVar(&extension, "ext", "", "Only consider files with this extension (e.g. .mp4)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List the files without deleting them")
	cmd.Flags().IntVar(&minUnderscores, "min-underscores", jobs.DefaultMinUnderscores, "Keep files with at least this many underscores")
	flags.registerWorkers(cmd)
	return cmd
}
