package xsession

import (
	"context"
	"testing"
)

func TestAgentLauncherCapturesSocket(t *testing.T) {
	env := newTestEnv(t)

	launch := env.AgentLauncher("sh", "-c",
		`echo 'SSH_AUTH_SOCK=/tmp/ssh-abc/agent.42; export SSH_AUTH_SOCK;'`)

	if err := launch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := env.AgentSocket(); got != "/tmp/ssh-abc/agent.42" {
		t.Errorf("agent socket = %q", got)
	}
}

func TestAgentLauncherNoMatchLeavesSlot(t *testing.T) {
	env := newTestEnv(t)
	env.SetAgentSocket("/tmp/previous")

	launch := env.AgentLauncher("sh", "-c", "echo nothing useful here")

	// Missing announcement is non-fatal and the slot keeps its value
	if err := launch(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := env.AgentSocket(); got != "/tmp/previous" {
		t.Errorf("agent socket = %q, want previous value", got)
	}
}

func TestAgentLauncherBenignReapFailure(t *testing.T) {
	env := newTestEnv(t)

	// The agent daemonizes and the launcher's child exits nonzero; the
	// announcement was still printed, so the launch counts as a success.
	launch := env.AgentLauncher("sh", "-c",
		`echo 'SSH_AUTH_SOCK=/tmp/ssh-racy/agent.7; export SSH_AUTH_SOCK;'; exit 3`)

	if err := launch(context.Background()); err != nil {
		t.Fatalf("reap failure not treated as benign: %v", err)
	}
	if got := env.AgentSocket(); got != "/tmp/ssh-racy/agent.7" {
		t.Errorf("agent socket = %q", got)
	}
}

func TestAgentLauncherSpawnFailure(t *testing.T) {
	env := newTestEnv(t)

	launch := env.AgentLauncher("/nonexistent/agent")

	if err := launch(context.Background()); err == nil {
		t.Error("expected spawn error")
	}
	if got := env.AgentSocket(); got != "" {
		t.Errorf("agent socket = %q, want empty", got)
	}
}
