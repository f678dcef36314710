package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"curator/internal/batcherr"
	"curator/internal/jobs"
	"curator/internal/manifest"
	"curator/internal/probe"
	"curator/internal/quality"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var extension string
	var output string
	var load string
	var flags sliceFlags

	cmd := &cobra.Command{
		Use:   "probe [media-dir]",
		Short: "Measure video and audio durations of every media file under a directory",
		Long: `Probe walks the directory recursively for *.{ext} files (case-insensitive),
runs ffprobe on the requested slice and saves the measurements as JSON. With
--load an existing results file is summarized instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if load != "" {
				results, err := probe.Load(load)
				if err != nil {
					return batcherr.Wrap(batcherr.ErrMissingFile, "probe", "load results", err)
				}
				return printStats(cmd, ctx, quality.Summarize(results))
			}
			if len(args) == 0 {
				return fmt.Errorf("media directory is required unless --load is given")
			}
			if extension == "" {
				extension = cfg.Media.Extension
			}

			slice := flags.spec()
			var report *jobs.ProbeReport
			res, err := runBatch(cmd, ctx, "probe", slice, filepath.Dir(output), flags.workers,
				func(runCtx context.Context, opts jobs.Options) (*jobs.Report, error) {
					r, err := jobs.Probe(runCtx, jobs.ProbeRequest{
						Dir:       args[0],
						Extension: extension,
						Slice:     slice,
						Prober:    probe.FFprobe{Binary: cfg.Media.FFprobeBinary},
						Output:    output,
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
			stats := quality.Summarize(report.Results)
			if ctx.jsonOutput() {
				return printBatchReport(cmd, ctx, res, map[string]any{"stats": statsJSON(stats)})
			}
			if err := printBatchReport(cmd, ctx, res, nil); err != nil {
				return err
			}
			writeStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&extension, "ext", "", "Media file extension (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "video_info.json", "Where to save the probe results")
	cmd.Flags().StringVar(&load, "load", "", "Summarize an existing results file instead of probing")
	flags.register(cmd)
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <results.json>",
		Short: "Summarize saved probe results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := probe.Load(args[0])
			if err != nil {
				return batcherr.Wrap(batcherr.ErrMissingFile, "stats", "load results", err)
			}
			return printStats(cmd, ctx, quality.Summarize(results))
		},
	}
}

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var media string
	var opName string
	var value float64
	var save string

	cmd := &cobra.Command{
		Use:   "query <results.json>",
		Short: "List probed files whose duration is below, above or equal to a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaKind, err := quality.ParseMedia(media)
			if err != nil {
				return err
			}
			op, err := quality.ParseOp(opName)
			if err != nil {
				return err
			}
			results, err := probe.Load(args[0])
			if err != nil {
				return batcherr.Wrap(batcherr.ErrMissingFile, "query", "load results", err)
			}
			matched := quality.FilterByDuration(results, mediaKind, op, value)

			if save != "" {
				paths := make([]string, 0, len(matched))
				for _, r := range matched {
					paths = append(paths, r.Path)
				}
				if err := manifest.WriteList(save, paths); err != nil {
					return fmt.Errorf("save query results: %w", err)
				}
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, matched)
			}
			out := cmd.OutOrStdout()
			p := newPrinter()
			p.Fprintf(out, "%d files with %s duration %s %g s\n", len(matched), mediaKind, op, value)
			if len(matched) > 0 {
				rows := make([][]string, 0, len(matched))
				for i, r := range matched {
					d, _ := r.Duration(mediaKind)
					rows = append(rows, []string{p.Sprintf("%d", i+1), p.Sprintf("%.2f", d), r.Path})
				}
				fmt.Fprintln(out, renderTable("", []string{"#", "Seconds", "Path"}, rows,
					[]columnAlignment{alignRight, alignRight, alignLeft}))
			}
			if save != "" {
				fmt.Fprintf(out, "Saved to %s\n", save)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&media, "media", "video", "Media kind to compare: video or audio")
	cmd.Flags().StringVar(&opName, "op", "lt", "Comparison: lt, gt or eq (eq matches within 0.01 s)")
	cmd.Flags().Float64Var(&value, "value", quality.DefaultThreshold, "Duration in seconds")
	cmd.Flags().StringVar(&save, "save", "", "Write the matching paths to this file, one per line")
	return cmd
}

func statsJSON(s quality.Stats) map[string]any {
	kind := func(d quality.DurationStats) map[string]any {
		return map[string]any{"count": d.Count, "min": d.Min, "max": d.Max, "mean": d.Mean}
	}
	return map[string]any{
		"total":   s.Total,
		"errored": s.Errored,
		"video":   kind(s.Video),
		"audio":   kind(s.Audio),
	}
}

func printStats(cmd *cobra.Command, ctx *commandContext, s quality.Stats) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, statsJSON(s))
	}
	writeStats(cmd.OutOrStdout(), s)
	return nil
}

func writeStats(out io.Writer, s quality.Stats) {
	p := newPrinter()
	for _, line := range renderSectionHeader("Statistics", shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	p.Fprintf(out, "Files: %d  Read errors: %d  Valid video: %d  Valid audio: %d\n",
		s.Total, s.Errored, s.Video.Count, s.Audio.Count)
	var rows [][]string
	for _, kind := range []struct {
		name string
		d    quality.DurationStats
	}{{"Video", s.Video}, {"Audio", s.Audio}} {
		if kind.d.Count == 0 {
			continue
		}
		rows = append(rows, []string{
			kind.name,
			p.Sprintf("%.2f", kind.d.Min),
			p.Sprintf("%.2f", kind.d.Max),
			p.Sprintf("%.2f", kind.d.Mean),
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable("Duration (s)", []string{"Media", "Min", "Max", "Mean"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
	}
}
