package executor

import (
	"encoding/json"
	"strings"
	"time"
)

// Result is the immutable outcome of one process execution.
type Result struct {
	// ID identifies this execution for history and logging.
	ID string `json:"id"`

	// Command is the joined, quoted command string that was run.
	Command string `json:"command"`

	// Status is the normalized exit status: the exit code for a normal
	// exit, 128+N for termination or stop by signal N, 1 for anything
	// the OS reports that fits neither.
	Status int `json:"status"`

	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Success reports a zero normalized status.
func (r *Result) Success() bool { return r.Status == 0 }

// Failed reports a non-zero normalized status.
func (r *Result) Failed() bool { return r.Status != 0 }

// StdoutTrimmed returns stdout with surrounding whitespace removed.
func (r *Result) StdoutTrimmed() string { return strings.TrimSpace(r.Stdout) }

// StderrTrimmed returns stderr with surrounding whitespace removed.
func (r *Result) StderrTrimmed() string { return strings.TrimSpace(r.Stderr) }

// StdoutLines splits trimmed stdout into lines. Empty output yields an
// empty slice rather than one empty line.
func (r *Result) StdoutLines() []string {
	trimmed := r.StdoutTrimmed()
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

// Duration is the wall-clock execution time.
func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// DurationHuman renders the duration rounded for display.
func (r *Result) DurationHuman() string {
	d := r.Duration()
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Millisecond).String()
	default:
		return d.String()
	}
}

// Meaning maps the normalized status through a definition's exit-code
// table.
func (r *Result) Meaning(table map[int]string) (string, bool) {
	meaning, ok := table[r.Status]
	return meaning, ok
}

// JSON serializes the result for the response-formatting layer,
// including the derived fields.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		*Result
		Success  bool   `json:"success"`
		Duration string `json:"duration"`
	}{
		Result:   r,
		Success:  r.Success(),
		Duration: r.Duration().String(),
	}, "", "  ")
}
