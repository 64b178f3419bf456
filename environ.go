package xsession

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// Environ is an ordered list of KEY=value entries with exec.Cmd semantics:
// when a key appears more than once the later entry wins. Keys are case
// sensitive.
type Environ []string

// Set appends an entry for key. Appending rather than rewriting in place
// keeps the receiver's backing array intact for any other holder.
func (e Environ) Set(key, value string) Environ {
	return append(e, key+"="+value)
}

// Lookup returns the effective value for key, honoring last-write-wins.
func (e Environ) Lookup(key string) (string, bool) {
	prefix := key + "="
	for i := len(e) - 1; i >= 0; i-- {
		if strings.HasPrefix(e[i], prefix) {
			return e[i][len(prefix):], true
		}
	}
	return "", false
}

// SessionEnv derives child-process environments for session services. It
// holds the two pieces of session-wide state every overlay needs: the bus
// address, computed once per process from the invoking user so concurrent
// users never collide, and the captured agent socket, written once by the
// agent launcher and read by every subsequent overlay.
type SessionEnv struct {
	busAddress string
	log        zerolog.Logger

	// mu guards agentSock: the agent launcher writes it, overlays and
	// WriteSessionFile read it, possibly from other goroutines.
	mu        sync.Mutex
	agentSock string
}

// SessionEnvOption configures a SessionEnv
type SessionEnvOption func(*SessionEnv)

// WithBusAddress overrides the derived session bus address
func WithBusAddress(addr string) SessionEnvOption {
	return func(s *SessionEnv) { s.busAddress = addr }
}

// WithLogger sets the logger used for overlay and launch diagnostics
func WithLogger(log zerolog.Logger) SessionEnvOption {
	return func(s *SessionEnv) { s.log = log }
}

// NewSessionEnv creates a SessionEnv. The bus address defaults to a
// per-user socket path, stable for the lifetime of this process.
func NewSessionEnv(opts ...SessionEnvOption) (*SessionEnv, error) {
	s := &SessionEnv{
		log: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.busAddress == "" {
		u, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("resolving invoking user: %w", err)
		}
		s.busAddress = fmt.Sprintf("unix:path=/tmp/dbus-%s", u.Username)
	}

	return s, nil
}

// BusAddress returns the session bus address forced into every overlay.
func (s *SessionEnv) BusAddress() string {
	return s.busAddress
}

// SetAgentSocket records the credential agent's listening socket. The
// agent launcher is the only intended writer; an empty value means "omit
// from overlays".
func (s *SessionEnv) SetAgentSocket(path string) {
	s.mu.Lock()
	s.agentSock = path
	s.mu.Unlock()
}

// AgentSocket returns the captured agent socket path, or "" when no agent
// has been launched yet.
func (s *SessionEnv) AgentSocket() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentSock
}

// Overlay returns a derived copy of the ambient process environment with
// the session keys forced: the bus address always, the agent socket when
// one has been captured, and the display when dv is non-nil. The ambient
// environment itself is never mutated, so overlapping overlays never
// observe each other's forced values. dv is resolved here, at call time.
func (s *SessionEnv) Overlay(dv DisplayValue) (Environ, error) {
	ambient := os.Environ()
	env := make(Environ, len(ambient), len(ambient)+3)
	copy(env, ambient)

	env = env.Set(EnvBusAddress, s.busAddress)

	if sock := s.AgentSocket(); sock != "" {
		env = env.Set(EnvAgentSocket, sock)
	}

	if dv != nil {
		d, err := dv.Resolve()
		if err != nil {
			return nil, err
		}
		env = env.Set(EnvDisplay, string(d))
	}

	return env, nil
}

// WriteSessionFile atomically publishes the session's forced variables to
// path in shell-sourceable form, so processes outside the supervisor (a
// cron job, a remote shell) can join the session bus and agent.
func (s *SessionEnv) WriteSessionFile(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "export %s=%s\n", EnvBusAddress, s.busAddress)
	if sock := s.AgentSocket(); sock != "" {
		fmt.Fprintf(&b, "export %s=%s\n", EnvAgentSocket, sock)
	}

	if err := renameio.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	s.log.Debug().Str("path", path).Msg("session file written")
	return nil
}
