package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
	"curator/internal/logging"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var threshold float64
	var outputDir string

	cmd := &cobra.Command{
		Use:   "classify <results.json>",
		Short: "Write lists of clips that are too short or unreadable",
		Long: `Classify reads saved probe results and writes four sorted lists of
base identifiers: video shorter than the threshold, audio shorter than the
threshold, files that could not be read, and the union of all three.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = cfg.Quality.Threshold
			}
			logger, logPath, err := ctx.newLogger("classify")
			if err != nil {
				return err
			}
			report, err := jobs.Classify(jobs.ClassifyRequest{
				Results:   args[0],
				Threshold: threshold,
				OutputDir: outputDir,
			}, jobs.Options{Logger: logger})
			if err != nil {
				logging.ErrorWithContext(logger, "classification failed", "classify_failed", logging.Error(err))
				return err
			}

			cats := report.Categories
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"total":       report.Total,
					"threshold":   cats.Threshold,
					"video_short": cats.VideoShort,
					"audio_short": cats.AudioShort,
					"errored":     cats.Errored,
					"all_bad":     cats.AllBad,
					"outputs":     report.Outputs,
					"log_path":    logPath,
				})
			}
			out := cmd.OutOrStdout()
			p := newPrinter()
			p.Fprintf(out, "Classified %d results (threshold %g s)\n", report.Total, cats.Threshold)
			counts := []int{len(cats.VideoShort), len(cats.AudioShort), len(cats.Errored), len(cats.AllBad)}
			rows := make([][]string, 0, len(report.Outputs))
			for i, path := range report.Outputs {
				rows = append(rows, []string{path, p.Sprintf("%d", counts[i])})
			}
			fmt.Fprintln(out, renderTable("", []string{"File", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 9.5, "Duration in seconds below which a stream is too short")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory for the category lists")
	return cmd
}
