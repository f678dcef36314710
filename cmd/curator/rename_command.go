package main

import (
	"context"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var extension string
	var verify bool
	var flags sliceFlags

	cmd := &cobra.Command{
		Use:   "rename <manifest.csv> <source-dir> <output-dir>",
		Short: "Copy one slice of manifest clips to their time-window names",
		Long: `Rename copies {name}_{id:06}.{ext} from the source directory to
{name}_{id*1000}_{id*1000+10000}.{ext} in the output directory, preserving
modification times. Records without a source file are reported as missing.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if extension == "" {
				extension = cfg.Media.Extension
			}
			slice := flags.spec()
			res, err := runBatch(cmd, ctx, "rename", slice, args[2], flags.workers,
				func(runCtx context.Context, opts jobs.Options) (*jobs.Report, error) {
					return jobs.Rename(runCtx, jobs.RenameRequest{
						Manifest:  args[0],
						SourceDir: args[1],
						OutputDir: args[2],
						Extension: extension,
						Slice:     slice,
						Verify:    verify,
					}, opts)
				})
			if err != nil {
				return err
			}
			return printBatchReport(cmd, ctx, res, nil)
		},
	}

	cmd.Flags().StringVar(&extension, "ext", "", "Media file extension (default from config)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Compare each copy against its source")
	flags.register(cmd)
	return cmd
}
