package xsession

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
)

// agentSockPattern matches the agent's socket announcement on stdout,
// e.g. "SSH_AUTH_SOCK=/tmp/ssh-XXXX/agent.123; export SSH_AUTH_SOCK;".
var agentSockPattern = regexp.MustCompile(`SSH_AUTH_SOCK=([^;]+);`)

// AgentLauncher returns the start operation for the credential agent. The
// agent chooses its own listening socket path at run time, so the launcher
// runs it synchronously, scans its output for the socket announcement, and
// on a match records the path in the SessionEnv slot that every later
// overlay reads. This is the one writer of that slot.
//
// A missing announcement is non-fatal: the slot keeps its previous value.
// The agent daemonizes, so the spawned child may be gone before it can be
// reaped; that reap error is expected and treated as success.
func (s *SessionEnv) AgentLauncher(argv ...string) Operation {
	return func(ctx context.Context, args ...string) error {
		env, err := s.Overlay(nil)
		if err != nil {
			return err
		}

		full := append(append([]string(nil), argv...), args...)
		if len(full) == 0 {
			return errors.New("xsession: empty argument vector")
		}

		cmd := exec.CommandContext(ctx, full[0], full[1:]...)
		cmd.Env = env

		out, err := cmd.Output()
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				// The program itself could not be spawned
				return err
			}
		}

		scanner := bufio.NewScanner(bytes.NewReader(out))
		for scanner.Scan() {
			if m := agentSockPattern.FindStringSubmatch(scanner.Text()); m != nil {
				s.SetAgentSocket(m[1])
				s.log.Debug().Str("socket", m[1]).Msg("agent socket captured")
				break
			}
		}

		return nil
	}
}
