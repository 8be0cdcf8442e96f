package executor

import (
	"fmt"
	"time"
)

// ExecError reports a process that finished with a disallowed non-zero
// status. It carries the command and captured output for diagnostics;
// it represents a failed external command, not an internal fault.
type ExecError struct {
	Command string
	Status  int
	Stdout  string
	Stderr  string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("command failed with status %d: %s", e.Status, e.Command)
	if e.Stderr != "" {
		msg += "\nstderr: " + e.Stderr
	}
	return msg
}

// TimeoutError reports that the wall-clock timeout elapsed before the
// process finished. The process group is killed before this is
// returned.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.Command)
}
