package main

import (
	"context"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
	"curator/internal/transcode"
)

func newReencodeCommand(ctx *commandContext) *cobra.Command {
	var extension string
	var onlyPath string
	var params transcode.Params
	var flags sliceFlags

	cmd := &cobra.Command{
		Use:   "reencode <input-dir> <output-dir>",
		Short: "Transcode one slice of a directory to fixed fps, sample rate and size",
		Long: `Reencode lists *.{ext} in the input directory (sorted, not recursive),
takes the requested slice and writes {stem}.{ext} plus a mono 16-bit {stem}.wav
for each file into the output directory. Workers default to the smaller of the
CPU count and the slice length.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if extension == "" {
				extension = cfg.Media.Extension
			}
			if !cmd.Flags().Changed("fps") {
				params.FPS = cfg.Media.FPS
			}
			if !cmd.Flags().Changed("sample-rate") {
				params.SampleRate = cfg.Media.SampleRate
			}
			if !cmd.Flags().Changed("min-edge") {
				params.MinEdge = cfg.Media.MinEdge
			}
			if err := params.Validate(); err != nil {
				return err
			}
			var only []string
			if onlyPath != "" {
				if only, err = readOnlyList(onlyPath); err != nil {
					return err
				}
			}

			slice := flags.spec()
			res, err := runBatch(cmd, ctx, "reencode", slice, args[1], flags.workers,
				func(runCtx context.Context, opts jobs.Options) (*jobs.Report, error) {
					return jobs.Reencode(runCtx, jobs.ReencodeRequest{
						InputDir:   args[0],
						OutputDir:  args[1],
						Extension:  extension,
						Params:     params,
						Slice:      slice,
						Transcoder: transcode.Transcoder{Binary: cfg.Media.FFmpegBinary},
						Only:       only,
					}, opts)
				})
			if err != nil {
				return err
			}
			details := map[string]any{"fps": params.FPS, "sample_rate": params.SampleRate, "min_edge": params.MinEdge}
			return printBatchReport(cmd, ctx, res, details)
		},
	}

	cmd.Flags().StringVar(&extension, "ext", "", "Media file extension (default from config)")
	cmd.Flags().IntVar(&params.FPS, "fps", transcode.DefaultParams.FPS, "Output video frame rate")
	cmd.Flags().IntVar(&params.SampleRate, "sample-rate", transcode.DefaultParams.SampleRate, "Output audio sample rate")
	cmd.Flags().IntVar(&params.MinEdge, "min-edge", transcode.DefaultParams.MinEdge, "Scale so the shorter edge has this many pixels")
	cmd.Flags().StringVar(&onlyPath, "only", "", "File listing the names to process, one per line (e.g. from 'curator runs failed')")
	flags.register(cmd)
	return cmd
}
