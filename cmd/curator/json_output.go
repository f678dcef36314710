package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"curator/internal/jobs"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type failureJSON struct {
	Position int    `json:"position"`
	Key      string `json:"key"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

type reportJSON struct {
	RunID    string         `json:"run_id,omitempty"`
	Command  string         `json:"command"`
	Slice    string         `json:"slice"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Listed   int            `json:"listed"`
	Total    int            `json:"total"`
	OK       int            `json:"ok"`
	Missing  int            `json:"missing"`
	Failed   int            `json:"failed"`
	Failures []failureJSON  `json:"failures"`
	Outputs  []string       `json:"outputs,omitempty"`
	LogPath  string         `json:"log_path,omitempty"`
	Details  map[string]any `json:"details,omitempty"`
}

func newReportJSON(res *batchResult, details map[string]any) reportJSON {
	r := res.Report
	out := reportJSON{
		RunID:    res.RunID,
		Command:  r.Command,
		Slice:    r.Slice.String(),
		Start:    r.Start,
		End:      r.End,
		Listed:   r.Listed,
		Total:    r.Summary.Total,
		OK:       r.Summary.OK,
		Missing:  r.Summary.Missing,
		Failed:   r.Summary.Failed,
		Failures: failuresJSON(r),
		Outputs:  r.Outputs,
		LogPath:  res.LogPath,
		Details:  details,
	}
	return out
}

func failuresJSON(r *jobs.Report) []failureJSON {
	out := make([]failureJSON, 0, len(r.Failures))
	for _, f := range r.Failures {
		out = append(out, failureJSON{Position: f.Position, Key: f.Key, Status: string(f.Status), Message: f.Message})
	}
	return out
}
