package xsession

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Daemon is the fork-and-track launch strategy: Start spawns the program
// directly with an overlay computed at call time and keeps the child
// handle; Stop sends the child a termination signal. The spawned process
// runs concurrently, but Start returns as soon as the child is up (and,
// when a ready path is configured, visible on the filesystem).
type Daemon struct {
	// Env supplies the environment overlay
	Env *SessionEnv
	// Argv is the program and its fixed arguments
	Argv []string
	// Display selects the session context; nil leaves DISPLAY alone.
	// Resolved once per Start call, never at definition time.
	Display DisplayValue
	// ArgvFunc, when set, computes the argument vector from the resolved
	// display at start time (e.g. the display server needs ":0 vt7")
	ArgvFunc func(Display) []string
	// ReadyFunc, when set, names a path that must exist before the start
	// is considered complete (e.g. the display server's socket)
	ReadyFunc func(Display) string
	// ReadyTimeout bounds the wait for the ready path
	ReadyTimeout time.Duration

	mu   sync.Mutex
	proc *os.Process
}

// NewDaemon creates a fork-and-track strategy for argv.
func NewDaemon(env *SessionEnv, argv ...string) *Daemon {
	return &Daemon{
		Env:          env,
		Argv:         argv,
		ReadyTimeout: DefaultReadyTimeout,
	}
}

// Start spawns the tracked child. Extra args are appended to the argument
// vector. Any failure, spawn error or ready timeout alike, surfaces as an
// error return; nothing is thrown past the operation boundary.
func (d *Daemon) Start(ctx context.Context, args ...string) error {
	var disp Display
	var dv DisplayValue
	if d.Display != nil {
		resolved, err := d.Display.Resolve()
		if err != nil {
			return err
		}
		// Pin the resolved value so the overlay and the argv agree even
		// when the original value is a probe.
		disp = resolved
		dv = FixedDisplay(resolved)
	}

	env, err := d.Env.Overlay(dv)
	if err != nil {
		return err
	}

	argv := d.Argv
	if d.ArgvFunc != nil {
		argv = d.ArgvFunc(disp)
	}
	argv = append(append([]string(nil), argv...), args...)
	if len(argv) == 0 {
		return errors.New("xsession: empty argument vector")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	if err := cmd.Start(); err != nil {
		return err
	}

	d.mu.Lock()
	d.proc = cmd.Process
	d.mu.Unlock()

	d.Env.log.Debug().Str("prog", argv[0]).Int("pid", cmd.Process.Pid).Msg("daemon spawned")

	// Reap the child when it exits so it never lingers as a zombie.
	go func() {
		_ = cmd.Wait()
		d.mu.Lock()
		if d.proc == cmd.Process {
			d.proc = nil
		}
		d.mu.Unlock()
	}()

	if d.ReadyFunc != nil {
		if path := d.ReadyFunc(disp); path != "" {
			if err := WaitForPath(ctx, path, d.ReadyTimeout); err != nil {
				_ = cmd.Process.Signal(syscall.SIGTERM)
				return err
			}
		}
	}

	return nil
}

// Stop signals the tracked child with SIGTERM. Stopping a daemon that is
// not running fails.
func (d *Daemon) Stop(_ context.Context, _ ...string) error {
	d.mu.Lock()
	proc := d.proc
	d.proc = nil
	d.mu.Unlock()

	if proc == nil {
		return ErrNotRunning
	}

	if err := proc.Signal(syscall.SIGTERM); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}
	return nil
}

// Pid returns the tracked child's pid, or 0 when no child is running.
func (d *Daemon) Pid() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.proc == nil {
		return 0
	}
	return d.proc.Pid
}

// Command is the synchronous launch strategy: Run executes the program to
// completion under the overlay and succeeds iff it exits zero. It serves
// both programs that self-daemonize (a display-manager launcher) and
// one-shot control commands ("reload"); used as a Stop operation it is the
// teardown companion, where a nonzero exit means the stop failed.
//
// The overlay is passed through the child's environment directly, so the
// ambient process environment is never swapped and concurrent Run calls
// cannot observe each other's forced values.
type Command struct {
	// Env supplies the environment overlay
	Env *SessionEnv
	// Argv is the program and its fixed arguments
	Argv []string
	// Display selects the session context; nil leaves DISPLAY alone
	Display DisplayValue
}

// NewCommand creates a synchronous strategy for argv.
func NewCommand(env *SessionEnv, argv ...string) *Command {
	return &Command{Env: env, Argv: argv}
}

// Run executes the command to completion. Extra args are appended to the
// argument vector. A missing program and a nonzero exit are deliberately
// indistinguishable: both mean the goal state does not hold.
func (c *Command) Run(ctx context.Context, args ...string) error {
	env, err := c.Env.Overlay(c.Display)
	if err != nil {
		return err
	}

	argv := append(append([]string(nil), c.Argv...), args...)
	if len(argv) == 0 {
		return errors.New("xsession: empty argument vector")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = env
	if err := cmd.Run(); err != nil {
		return err
	}
	return nil
}
