package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/deps"
	"curator/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [output-dir...]",
		Short: "Check external tools, directories and free space",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			targets := []preflight.Target{{Name: "Log directory", Path: cfg.Paths.LogDir, Write: true}}
			if ledger := strings.TrimSpace(cfg.Paths.LedgerPath); ledger != "" {
				targets = append(targets, preflight.Target{Name: "Ledger directory", Path: filepath.Dir(ledger), Write: true})
			}
			for _, dir := range args {
				targets = append(targets, preflight.Target{Name: dir, Path: dir, Write: true})
			}

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			results := preflight.RunAll(runCtx, cfg, nil, targets)
			failed := preflight.Failed(results)

			if ctx.jsonOutput() {
				items := make([]map[string]any, 0, len(results))
				for _, r := range results {
					items = append(items, map[string]any{"name": r.Name, "passed": r.Passed, "detail": r.Detail})
				}
				if err := writeJSON(cmd, items); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader("Tools", colorize) {
					fmt.Fprintln(out, line)
				}
				tools := map[string]bool{}
				for _, req := range deps.MediaRequirements(cfg.Media.FFmpegBinary, cfg.Media.FFprobeBinary) {
					tools[req.Name] = true
					r := findResult(results, req.Name)
					detail := r.Detail
					if r.Passed {
						versionCtx, cancel := context.WithTimeout(runCtx, 5*time.Second)
						if v := deps.Version(versionCtx, req.Command); v != "" {
							detail = v
						}
						cancel()
					}
					fmt.Fprintln(out, renderStatusLine(req.Name, passFail(r.Passed), detail, colorize))
				}
				for _, line := range renderSectionHeader("Directories", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, r := range results {
					if tools[r.Name] {
						continue
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, passFail(r.Passed), r.Detail, colorize))
				}
			}
			if len(failed) > 0 {
				return errors.New(plural(len(failed), "check") + " failed")
			}
			return nil
		},
	}
}

func findResult(results []preflight.Result, name string) preflight.Result {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	return preflight.Result{Name: name, Detail: "not checked"}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
