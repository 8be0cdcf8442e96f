// Package executor runs external commands built from compiled argument
// tokens.
//
// Execution is synchronous from the caller's viewpoint. Internally the
// executor feeds stdin and drains stdout/stderr concurrently so a full
// OS pipe buffer can never deadlock the child. The command string is
// built with the declared dialect's quoting rules and handed to that
// dialect's own interpreter; the executor never relies on an implicit
// system shell.
//
// A wall-clock timeout is the sole cancellation mechanism. On expiry
// the whole process group is killed (not abandoned) and a TimeoutError
// is returned.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ToolForge/toolforge/internal/logging"
	"github.com/ToolForge/toolforge/pkg/platform"
	"github.com/ToolForge/toolforge/pkg/shell"
)

// Options configures one execution.
type Options struct {
	// Env holds caller-supplied environment overrides, including any
	// env vars the command definition declares.
	Env map[string]string

	// Dir is the working directory; empty inherits the caller's.
	Dir string

	// Timeout is the hard wall-clock limit. Zero means no limit.
	Timeout time.Duration

	// Dialect names the shell dialect; empty uses the platform
	// default.
	Dialect string

	// Stdin streams data to the child. The writer treats a broken
	// pipe as benign: a child that stops reading early is not an
	// error.
	Stdin io.Reader

	// AllowFailure suppresses the ExecError normally returned for a
	// non-zero status.
	AllowFailure bool
}

// Executor spawns processes for compiled invocations.
type Executor struct {
	platform *platform.Platform
	log      logging.Logger
}

// New creates an executor bound to a platform context.
func New(p *platform.Platform) *Executor {
	return &Executor{
		platform: p,
		log:      logging.Component("executor"),
	}
}

// Execute runs executable with the given argument tokens. Every token
// is quoted by the dialect and joined into one command string, which
// the dialect's interpreter parses. A non-zero normalized status
// returns the Result together with an ExecError unless AllowFailure is
// set.
func (e *Executor) Execute(ctx context.Context, executable string, args []string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	dialectName := opts.Dialect
	if dialectName == "" {
		dialectName = e.platform.Shell
	}
	dialect, err := shell.Lookup(dialectName)
	if err != nil {
		return nil, err
	}

	commandString := dialect.Join(executable, args...)
	argv := dialect.Command(commandString)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = mergeEnviron(os.Environ(), dialect.HeadlessEnvironment(), opts.Env)
	setProcessGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stdinDone sync.WaitGroup
	if opts.Stdin != nil {
		pipe, pipeErr := cmd.StdinPipe()
		if pipeErr != nil {
			return nil, fmt.Errorf("failed to open stdin pipe: %w", pipeErr)
		}
		stdinDone.Add(1)
		go func() {
			defer stdinDone.Done()
			defer pipe.Close()
			if _, copyErr := io.Copy(pipe, opts.Stdin); copyErr != nil && !benignPipeError(copyErr) {
				e.log.Warn("stdin write failed", "error", copyErr)
			}
		}()
	}

	e.log.Debug("executing", "dialect", dialectName, "command", commandString)

	startedAt := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var timeoutCh <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-timeoutCh:
		killProcessGroup(cmd)
		<-waitCh
		stdinDone.Wait()
		return nil, &TimeoutError{Command: commandString, Timeout: opts.Timeout}
	case <-ctx.Done():
		killProcessGroup(cmd)
		<-waitCh
		stdinDone.Wait()
		return nil, fmt.Errorf("execution cancelled: %w", ctx.Err())
	}
	finishedAt := time.Now()
	stdinDone.Wait()

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, fmt.Errorf("execution failed: %w", waitErr)
		}
	}

	result := &Result{
		ID:         uuid.NewString(),
		Command:    commandString,
		Status:     exitStatus(cmd.ProcessState),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}

	e.log.Debug("finished", "status", result.Status, "duration", result.DurationHuman())

	if result.Failed() && !opts.AllowFailure {
		return result, &ExecError{
			Command: commandString,
			Status:  result.Status,
			Stdout:  result.Stdout,
			Stderr:  result.Stderr,
		}
	}
	return result, nil
}

// mergeEnviron composes the child environment. Later layers win:
// ambient process environment, then dialect headless defaults, then
// caller overrides, so headless values beat ambient inheritance but an
// explicit caller value always stands.
func mergeEnviron(ambient []string, headless, overrides map[string]string) []string {
	merged := make(map[string]string, len(ambient)+len(headless)+len(overrides))
	for _, kv := range ambient {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			merged[kv[:idx]] = kv[idx+1:]
		}
	}
	for k, v := range headless {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+merged[k])
	}
	return env
}

// benignPipeError reports write failures that mean the child closed
// stdin before the writer finished, e.g. it only needed the first N
// lines.
func benignPipeError(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe)
}
