package authflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NerdyHomeReOpen/Details/pkg/metrics"
)

const (
	separator     = "--------------------------------------------------"
	readChunkSize = 4096
)

// Options configures an Automator.
type Options struct {
	Command string
	Args    []string
	// CredentialPath short-circuits the run when it exists: the user is
	// already logged in.
	CredentialPath string
	Store          CodeStore
	Prompts        []Prompt
	// ResponseDelay is waited before each scripted reply.
	ResponseDelay time.Duration
	Stdout        io.Writer
	Stderr        io.Writer
	Log           *zap.SugaredLogger
}

// Result describes a finished run.
type Result struct {
	Skipped bool   `json:"skipped"`
	Code    string `json:"code,omitempty"`
	// ExitCode is -1 when the child was terminated by a signal.
	ExitCode        int `json:"exitCode"`
	PromptsAnswered int `json:"promptsAnswered"`
}

// Automator runs one auth command to completion. It is not reusable.
type Automator struct {
	opts    Options
	log     *zap.SugaredLogger
	console *console
	latch   codeLatch

	cmd *exec.Cmd

	stdinMu     sync.Mutex
	stdin       io.WriteCloser
	stdinClosed bool
	answered    int

	timersMu sync.Mutex
	timers   []*time.Timer
	pending  sync.WaitGroup

	fatalMu sync.Mutex
	fatal   error
}

func New(opts Options) *Automator {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Prompts == nil {
		opts.Prompts = DefaultPrompts
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Automator{
		opts:    opts,
		log:     log.With("runID", uuid.NewString()),
		console: &console{stdout: opts.Stdout, stderr: opts.Stderr},
	}
}

// Run launches the auth command unless the credential file already exists,
// reacts to its output until both streams close and reports the exit code.
// A non-zero exit of the child is part of the Result, not an error. Errors
// are returned when the child cannot be started or a stream handler panics.
func (a *Automator) Run(ctx context.Context) (*Result, error) {
	if a.opts.Command == "" {
		return nil, errors.New("command is required")
	}
	if a.opts.Store == nil {
		return nil, errors.New("code store is required")
	}

	a.console.Out("Starting %s process...\n", a.describeCommand())
	a.console.Out("%s\n", separator)

	if a.opts.CredentialPath != "" {
		if _, err := os.Stat(a.opts.CredentialPath); err == nil {
			a.log.Infow("Credential file present, skipping login", "path", a.opts.CredentialPath)
			return &Result{Skipped: true}, nil
		}
	}

	a.cmd = exec.CommandContext(ctx, a.opts.Command, a.opts.Args...)
	stdin, err := a.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := a.cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	stderr, err := a.cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stderr pipe: %w", err)
	}
	a.stdin = stdin

	a.log.Infow("Starting auth command", "command", a.opts.Command, "args", a.opts.Args)
	if err := a.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", a.opts.Command, err)
	}

	var readers sync.WaitGroup
	readers.Add(2)
	go a.drain(&readers, "stdout", stdout, a.handleStdout)
	go a.drain(&readers, "stderr", stderr, a.handleStderr)
	readers.Wait()

	a.shutdownReplies()
	waitErr := a.cmd.Wait()

	result := &Result{ExitCode: a.cmd.ProcessState.ExitCode()}
	result.Code, _ = a.latch.Value()
	a.stdinMu.Lock()
	result.PromptsAnswered = a.answered
	a.stdinMu.Unlock()

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		a.log.Warnw("Waiting for auth command failed", "error", waitErr)
	}
	metrics.ChildExitCode.Set(float64(result.ExitCode))

	a.console.Out("\n%s\n", separator)
	a.console.Out("%s process exited with code %d.\n", filepath.Base(a.opts.Command), result.ExitCode)
	a.log.Infow("Auth command exited", "exitCode", result.ExitCode, "codeSaved", result.Code != "")
	if result.Code == "" {
		a.console.Out("Warning: Process finished, but no one-time code was detected or saved.\n")
		a.log.Warn("No one-time code was detected or saved")
	}

	a.fatalMu.Lock()
	defer a.fatalMu.Unlock()
	return result, a.fatal
}

func (a *Automator) describeCommand() string {
	parts := append([]string{filepath.Base(a.opts.Command)}, a.opts.Args...)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " ")
}

// drain feeds every chunk read from r to handle until EOF. A panicking
// handler kills the child and the rest of the stream is discarded.
func (a *Automator) drain(wg *sync.WaitGroup, stream string, r io.Reader, handle func(string)) {
	defer wg.Done()
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%s handler panic: %v", stream, rec)
			a.log.Errorw("Uncaught error while handling auth command output", "stream", stream, "error", err)
			a.fatalMu.Lock()
			if a.fatal == nil {
				a.fatal = err
			}
			a.fatalMu.Unlock()
			if a.cmd.Process != nil {
				_ = a.cmd.Process.Kill()
			}
			_, _ = io.Copy(io.Discard, r)
		}
	}()

	buf := make([]byte, readChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			handle(string(buf[:n]))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				a.log.Debugw("Stream read ended", "stream", stream, "error", err)
			}
			return
		}
	}
}

func (a *Automator) handleStdout(chunk string) {
	a.console.Echo(chunk)
	for _, p := range a.opts.Prompts {
		if strings.Contains(chunk, p.Trigger) {
			a.log.Debugw("Prompt detected", "prompt", p.Name)
			a.scheduleReply(p)
		}
	}
}

func (a *Automator) handleStderr(chunk string) {
	a.console.Err("[STDERR] %s\n", chunk)

	if _, saved := a.latch.Value(); saved {
		return
	}
	code, ok := ExtractCode(chunk)
	if !ok {
		return
	}
	a.console.Out("\n\n[SCRIPT] One-time code found: %s\n", code)

	filled, err := a.latch.Fill(code, a.opts.Store.Save)
	if err != nil {
		metrics.CodeWriteFailures.Inc()
		a.log.Errorw("Failed to save one-time code", "location", a.opts.Store.Location(), "error", err)
		a.console.Err("\n[SCRIPT] Error writing to file %s: %v\n", a.opts.Store.Location(), err)
		return
	}
	if filled {
		metrics.CodesCaptured.Inc()
		a.log.Infow("One-time code saved", "location", a.opts.Store.Location())
		a.console.Out("[SCRIPT] Code successfully saved to %s\n\n", a.opts.Store.Location())
	}
}

func (a *Automator) scheduleReply(p Prompt) {
	a.timersMu.Lock()
	defer a.timersMu.Unlock()
	a.pending.Add(1)
	t := time.AfterFunc(a.opts.ResponseDelay, func() {
		defer a.pending.Done()
		a.reply(p)
	})
	a.timers = append(a.timers, t)
}

func (a *Automator) reply(p Prompt) {
	a.stdinMu.Lock()
	defer a.stdinMu.Unlock()
	if a.stdinClosed {
		a.log.Debugw("Dropping reply, auth command already finished", "prompt", p.Name)
		return
	}
	a.console.Out("\n[SCRIPT] %s\n", p.Notice)
	if _, err := io.WriteString(a.stdin, p.Reply); err != nil {
		a.log.Warnw("Failed to write reply", "prompt", p.Name, "error", err)
		return
	}
	a.answered++
	metrics.PromptsAnswered.WithLabelValues(p.Name).Inc()
}

// shutdownReplies cancels replies that have not fired yet and waits for the
// ones already running, so nothing touches stdin after Wait closes it.
func (a *Automator) shutdownReplies() {
	a.stdinMu.Lock()
	a.stdinClosed = true
	a.stdinMu.Unlock()

	a.timersMu.Lock()
	for _, t := range a.timers {
		if t.Stop() {
			a.pending.Done()
		}
	}
	a.timers = nil
	a.timersMu.Unlock()
	a.pending.Wait()
}
