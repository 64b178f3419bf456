package xsession

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCommandRunExitCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := NewCommand(env, "true").Run(ctx); err != nil {
		t.Errorf("true: %v", err)
	}

	// Nonzero exit and a missing program surface identically: as an error
	if err := NewCommand(env, "false").Run(ctx); err == nil {
		t.Error("false: expected error")
	}
	if err := NewCommand(env, "/nonexistent/prog").Run(ctx); err == nil {
		t.Error("missing program: expected error")
	}
}

func TestCommandRunAppendsArgs(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "out")

	cmd := NewCommand(env, "sh", "-c")
	if err := cmd.Run(context.Background(), "echo extra > "+out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "extra" {
		t.Errorf("output = %q", data)
	}
}

func TestCommandRunInheritsOverlay(t *testing.T) {
	env := newTestEnv(t)
	env.SetAgentSocket("/tmp/test-agent")
	out := filepath.Join(t.TempDir(), "env")

	cmd := NewCommand(env, "sh", "-c", "echo $DISPLAY $"+EnvBusAddress+" $"+EnvAgentSocket+" > "+out)
	cmd.Display = FixedDisplay(":2")

	if err := cmd.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	got := strings.TrimSpace(string(data))
	want := ":2 unix:path=/tmp/bus-test /tmp/test-agent"
	if got != want {
		t.Errorf("child env = %q, want %q", got, want)
	}
}

func TestDaemonStartStop(t *testing.T) {
	env := newTestEnv(t)
	d := NewDaemon(env, "sleep", "60")

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if d.Pid() == 0 {
		t.Fatal("no tracked child after start")
	}

	if err := d.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	// A second stop has no tracked child to signal
	if err := d.Stop(context.Background()); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second stop = %v, want ErrNotRunning", err)
	}
}

func TestDaemonStartSpawnFailure(t *testing.T) {
	env := newTestEnv(t)
	d := NewDaemon(env, "/nonexistent/daemon")

	if err := d.Start(context.Background()); err == nil {
		t.Error("expected spawn error")
	}
	if d.Pid() != 0 {
		t.Error("tracked child recorded after failed spawn")
	}
}

func TestDaemonReadyPath(t *testing.T) {
	env := newTestEnv(t)
	ready := filepath.Join(t.TempDir(), "sock")

	d := NewDaemon(env, "sh", "-c", "sleep 0.1; touch "+ready+"; sleep 60")
	d.ReadyFunc = func(Display) string { return ready }

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ready); err != nil {
		t.Errorf("ready path missing after start: %v", err)
	}
	_ = d.Stop(context.Background())
}

func TestDaemonReadyTimeout(t *testing.T) {
	env := newTestEnv(t)
	ready := filepath.Join(t.TempDir(), "never")

	d := NewDaemon(env, "sleep", "60")
	d.ReadyFunc = func(Display) string { return ready }
	d.ReadyTimeout = 100 * time.Millisecond

	err := d.Start(context.Background())
	if !errors.Is(err, ErrReadyTimeout) {
		t.Errorf("err = %v, want ErrReadyTimeout", err)
	}
}

func TestDaemonArgvFuncUsesResolvedDisplay(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "args")

	d := NewDaemon(env, "unused")
	d.Display = FixedDisplay(":1")
	d.ArgvFunc = func(disp Display) []string {
		return []string{"sh", "-c", "echo " + string(disp) + " " + disp.VT() + " > " + out}
	}
	d.ReadyFunc = func(Display) string { return out }

	if err := d.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != ":1 vt8" {
		t.Errorf("argv saw %q, want \":1 vt8\"", data)
	}
}
