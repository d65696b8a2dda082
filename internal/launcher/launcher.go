// Package launcher starts context server processes from resolved launch
// specs and manages their lifecycle on behalf of the host.
package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/calibremcp/ctxhost/internal/logger"
	"github.com/calibremcp/ctxhost/internal/resolver"
)

// StopTimeout is how long Stop waits after SIGTERM before killing the
// process outright.
const StopTimeout = 5 * time.Second

// Launcher owns one context server subprocess spawned from a LaunchSpec.
type Launcher struct {
	serverID  string
	sessionID string
	spec      resolver.LaunchSpec
	log       *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	dir    string

	cmd     *exec.Cmd
	done    chan struct{}
	waitErr error
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithStdio wires the subprocess's standard streams. Context servers speak
// their protocol over stdin/stdout, so hosts typically pass pipes or the
// host's own streams here.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin = stdin
		l.stdout = stdout
		l.stderr = stderr
	}
}

// WithDir sets the working directory for the subprocess, typically the
// project root so the server sees workspace-relative paths.
func WithDir(dir string) Option {
	return func(l *Launcher) {
		l.dir = dir
	}
}

// New creates a launcher for the given server and spec. Each launcher gets a
// fresh session ID used to correlate log records across the launch.
func New(serverID string, spec resolver.LaunchSpec, opts ...Option) *Launcher {
	sessionID := uuid.New().String()
	l := &Launcher{
		serverID:  serverID,
		sessionID: sessionID,
		spec:      spec,
		log:       logger.WithServer(serverID).With("launch", sessionID[:8]),
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SessionID returns the unique ID assigned to this launch.
func (l *Launcher) SessionID() string {
	return l.sessionID
}

// Start spawns the subprocess. The context cancels the process if it is
// still running when the context ends.
func (l *Launcher) Start(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, l.spec.Command, l.spec.Args...)
	cmd.Env = MergedEnv(os.Environ(), l.spec.Env)
	cmd.Dir = l.dir
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	l.log.Info("starting context server",
		"command", l.spec.Command,
		"args", strings.Join(l.spec.Args, " "))

	if err := cmd.Start(); err != nil {
		l.log.Error("start failed", "error", err)
		return fmt.Errorf("start %s: %w", l.spec.Command, err)
	}
	l.cmd = cmd
	l.log.Info("started", "pid", cmd.Process.Pid)

	// waitErr is written before done closes, so readers that block on done
	// observe it safely.
	l.done = make(chan struct{})
	go func() {
		l.waitErr = cmd.Wait()
		close(l.done)
	}()
	return nil
}

// Wait blocks until the subprocess exits and returns its exit error, if any.
// Safe to call alongside Stop.
func (l *Launcher) Wait() error {
	if l.cmd == nil {
		return fmt.Errorf("launcher: not started")
	}
	<-l.done
	if err := l.waitErr; err != nil {
		l.log.Warn("context server exited", "error", err)
		return fmt.Errorf("%s exited: %w", l.spec.Command, err)
	}
	l.log.Info("context server exited cleanly")
	return nil
}

// Run starts the subprocess and waits for it to exit.
func (l *Launcher) Run(ctx context.Context) error {
	if err := l.Start(ctx); err != nil {
		return err
	}
	return l.Wait()
}

// Stop asks the subprocess to exit with SIGTERM, escalating to SIGKILL after
// StopTimeout. Safe to call after the process has already exited.
func (l *Launcher) Stop() error {
	if l.cmd == nil || l.cmd.Process == nil {
		return nil
	}
	l.log.Info("stopping context server", "pid", l.cmd.Process.Pid)

	if err := l.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone; wait for the exit status to be collected.
		<-l.done
		return nil
	}

	select {
	case <-l.done:
		return nil
	case <-time.After(StopTimeout):
		l.log.Warn("did not exit after SIGTERM, killing")
		l.cmd.Process.Kill()
		<-l.done
		return nil
	}
}

// MergedEnv overlays overrides onto a base environment of KEY=VALUE entries.
// An override replaces any base entry with the same key; new keys are
// appended in sorted order so the result is deterministic.
func MergedEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}

	env := make([]string, 0, len(base)+len(overrides))
	seen := make(map[string]bool, len(overrides))
	for _, entry := range base {
		key, _, ok := strings.Cut(entry, "=")
		if ok {
			if v, replaced := overrides[key]; replaced {
				env = append(env, key+"="+v)
				seen[key] = true
				continue
			}
		}
		env = append(env, entry)
	}

	extra := make([]string, 0, len(overrides))
	for key := range overrides {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		env = append(env, key+"="+overrides[key])
	}
	return env
}
