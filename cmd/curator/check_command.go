package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
	"curator/internal/partition"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var extension string
	var clean []string
	var flags sliceFlags

	cmd := &cobra.Command{
		Use:   "check <manifest.csv> <media-dir>",
		Short: "Find manifest records without media and clean every manifest of them",
		Long: `Check verifies that every name,id row of the manifest has its
{name}_{id:06}.{ext} file in the media directory. Missing records are written
to missing_files.txt and removed from each --clean manifest (CSV rows or
derived lines), which are saved under the output directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if extension == "" {
				extension = cfg.Media.Extension
			}
			targets := clean
			if !cmd.Flags().Changed("clean") {
				targets = jobs.DefaultCleanTargets
			}

			var report *jobs.CheckReport
			res, err := runBatch(cmd, ctx, "check", partition.Whole, outputDir, flags.workers,
				func(runCtx context.Context, opts jobs.Options) (*jobs.Report, error) {
					r, err := jobs.Check(runCtx, jobs.CheckRequest{
						Manifest:  args[0],
						MediaDir:  args[1],
						OutputDir: outputDir,
						Extension: extension,
						Clean:     targets,
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

			cleaned := make([]map[string]any, 0, len(report.Outcomes))
			for _, o := range report.Outcomes {
				cleaned = append(cleaned, map[string]any{
					"name":     o.Name,
					"kind":     o.Kind.String(),
					"original": o.Counts.Original,
					"kept":     o.Counts.Kept,
					"removed":  o.Counts.Removed,
				})
			}
			details := map[string]any{
				"missing_list": report.MissingList,
				"cleaned":      cleaned,
				"skipped":      report.Skipped,
			}
			if err := printBatchReport(cmd, ctx, res, details); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return nil
			}
			out := cmd.OutOrStdout()
			p := newPrinter()
			if len(report.Outcomes) > 0 {
				rows := make([][]string, 0, len(report.Outcomes))
				for _, o := range report.Outcomes {
					rows = append(rows, []string{
						o.Name,
						o.Kind.String(),
						p.Sprintf("%d", o.Counts.Original),
						p.Sprintf("%d", o.Counts.Kept),
						p.Sprintf("%d", o.Counts.Removed),
					})
				}
				fmt.Fprintln(out, renderTable("Cleaned manifests", []string{"Manifest", "Kind", "Original", "Kept", "Removed"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			}
			for _, path := range report.Skipped {
				fmt.Fprintln(out, renderStatusLine("Skipped", statusWarn, path+" not found", shouldColorize(out)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "./cleaned_data", "Directory for cleaned manifests and missing_files.txt")
	cmd.Flags().StringVar(&extension, "ext", "", "Media file extension (default from config)")
	cmd.Flags().StringArrayVar(&clean, "clean", nil, "Manifest to clean (repeatable; .csv files are rows, others lines). Default: ./data/vggsound{.csv,_test.txt,_train.txt,_valid.txt}")
	flags.registerWorkers(cmd)
	return cmd
}
