package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run ledger",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsFailedCommand(ctx))
	runsCmd.AddCommand(newRunsPruneCommand(ctx))
	return runsCmd
}

func withLedger(ctx *commandContext, fn func(*runlog.Store) error) error {
	store, err := ctx.openLedger()
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("run ledger is disabled (paths.ledger_path is empty)")
	}
	defer store.Close()
	return fn(store)
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var command string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *runlog.Store) error {
				runs, err := store.List(cmd.Context(), command, limit)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, runsJSON(runs))
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				p := newPrinter()
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						shortID(r.ID),
						r.Command,
						r.Slice.String(),
						string(r.Status),
						p.Sprintf("%d", r.Summary.Total),
						p.Sprintf("%d", r.Summary.OK),
						p.Sprintf("%d", r.Summary.Missing),
						p.Sprintf("%d", r.Summary.Failed),
						r.StartedAt.Local().Format("2006-01-02 15:04:05"),
						runDuration(r),
					})
				}
				fmt.Fprintln(out, renderTable("", []string{"ID", "Command", "Slice", "Status", "Total", "OK", "Missing", "Failed", "Started", "Took"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Only show runs of this command")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 = all)")
	return cmd
}

func newRunsFailedCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "failed <run-id>",
		Short: "Print the failing keys of a run, one per line",
		Long: `Failed prints the keys of every task that did not succeed in the run,
one per line, in task order. The output can be passed to 'reencode --only' or
kept as a missing-key list. An unambiguous id prefix is accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(store *runlog.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				failures, err := store.Failures(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					out := make([]failureJSON, 0, len(failures))
					for _, f := range failures {
						out = append(out, failureJSON{Position: f.Position, Key: f.Key, Status: string(f.Status), Message: f.Message})
					}
					return writeJSON(cmd, out)
				}
				out := cmd.OutOrStdout()
				for _, f := range failures {
					if verbose {
						fmt.Fprintf(out, "%s\t%s\t%s\n", f.Key, f.Status, f.Message)
						continue
					}
					fmt.Fprintln(out, f.Key)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include status and message columns")
	return cmd
}

func newRunsPruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ledger entries older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			return withLedger(ctx, func(store *runlog.Store) error {
				removed, err := store.Prune(cmd.Context(), time.Now().Add(-olderThan))
				if err != nil {
					return err
				}
				p := newPrinter()
				p.Fprintf(cmd.OutOrStdout(), "Removed %d runs\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Remove runs started before now minus this duration")
	return cmd
}

func runDuration(r runlog.Run) string {
	if r.FinishedAt.IsZero() {
		return "-"
	}
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
}

type runJSON struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	Slice      string `json:"slice"`
	Status     string `json:"status"`
	Args       string `json:"args,omitempty"`
	Host       string `json:"host,omitempty"`
	Total      int    `json:"total"`
	OK         int    `json:"ok"`
	Missing    int    `json:"missing"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
}

func runsJSON(runs []runlog.Run) []runJSON {
	out := make([]runJSON, 0, len(runs))
	for _, r := range runs {
		item := runJSON{
			ID:        r.ID,
			Command:   r.Command,
			Slice:     r.Slice.String(),
			Status:    string(r.Status),
			Args:      r.Args,
			Host:      r.Host,
			Total:     r.Summary.Total,
			OK:        r.Summary.OK,
			Missing:   r.Summary.Missing,
			Failed:    r.Summary.Failed,
			Error:     r.Error,
			StartedAt: r.StartedAt.UTC().Format(time.RFC3339),
		}
		if !r.FinishedAt.IsZero() {
			item.FinishedAt = r.FinishedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}
	return out
}
