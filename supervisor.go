package xsession

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Supervisor is the external process supervisor this layer feeds. It owns
// runtime lifecycle, restart policy, and status bookkeeping; this package
// only hands it descriptors and asks for starts and stops by identity.
type Supervisor interface {
	// Register hands the supervisor an ordered list of descriptors
	Register(svcs ...*Service) error

	// Start brings the named service up, passing args to its start
	// operation
	Start(ctx context.Context, name Identity, args ...string) error

	// Stop brings the named service down
	Stop(ctx context.Context, name Identity) error

	// Eval runs a supervisor-level control command received as plain
	// string arguments, e.g. from a remote control channel
	Eval(ctx context.Context, args ...string) error
}

// Local is an in-memory Supervisor for driving a session in-process and
// for tests. It keeps a running set keyed by identity and resolves lookups
// through each service's Provides list, but implements no restart policy
// and persists nothing.
type Local struct {
	log zerolog.Logger

	mu      sync.Mutex
	order   []*Service
	byName  map[Identity]*Service
	running map[Identity]bool
}

// LocalOption configures a Local supervisor
type LocalOption func(*Local)

// WithLocalLogger sets the logger for lifecycle events
func WithLocalLogger(log zerolog.Logger) LocalOption {
	return func(l *Local) { l.log = log }
}

// NewLocal creates an empty Local supervisor.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		log:     zerolog.Nop(),
		byName:  make(map[Identity]*Service),
		running: make(map[Identity]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds descriptors in order. Registering a name twice fails.
func (l *Local) Register(svcs ...*Service) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, svc := range svcs {
		names := svc.Provides
		if len(names) == 0 {
			names = []Identity{svc.Name}
		}
		for _, n := range names {
			if _, ok := l.byName[n]; ok {
				return fmt.Errorf("%w: %s", ErrAlreadyRegistered, n)
			}
		}
		for _, n := range names {
			l.byName[n] = svc
		}
		l.order = append(l.order, svc)
		l.log.Debug().Str("service", string(svc.Name)).Msg("registered")
	}
	return nil
}

func (l *Local) lookup(name Identity) (*Service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	svc, ok := l.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return svc, nil
}

// Start runs the named service's start operation unless it is already
// running. The boolean outcome of the operation is the whole status
// vocabulary: an error means "not running", nil means "running".
func (l *Local) Start(ctx context.Context, name Identity, args ...string) error {
	svc, err := l.lookup(name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.running[svc.Name] {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	if svc.Start != nil {
		if err := svc.Start(ctx, args...); err != nil {
			l.log.Debug().Str("service", string(svc.Name)).Err(err).Msg("start failed")
			return &OpError{Op: "start", Service: svc.Name, Err: err}
		}
	}

	l.mu.Lock()
	l.running[svc.Name] = true
	l.mu.Unlock()

	l.log.Debug().Str("service", string(svc.Name)).Msg("started")
	return nil
}

// Stop runs the named service's stop operation and clears its running
// mark regardless of the operation's outcome.
func (l *Local) Stop(ctx context.Context, name Identity) error {
	svc, err := l.lookup(name)
	if err != nil {
		return err
	}

	l.mu.Lock()
	wasRunning := l.running[svc.Name]
	delete(l.running, svc.Name)
	l.mu.Unlock()

	if !wasRunning {
		return fmt.Errorf("%w: %s", ErrNotRunning, name)
	}

	if svc.Stop != nil {
		if err := svc.Stop(ctx); err != nil {
			l.log.Debug().Str("service", string(svc.Name)).Err(err).Msg("stop reported failure")
			return &OpError{Op: "stop", Service: svc.Name, Err: err}
		}
	}

	l.log.Debug().Str("service", string(svc.Name)).Msg("stopped")
	return nil
}

// Action runs a named auxiliary operation of the given service.
func (l *Local) Action(ctx context.Context, name Identity, action string, args ...string) error {
	svc, err := l.lookup(name)
	if err != nil {
		return err
	}
	op, ok := svc.Actions[action]
	if !ok {
		return &OpError{Op: action, Service: name, Err: fmt.Errorf("no such action")}
	}
	if err := op(ctx, args...); err != nil {
		return &OpError{Op: action, Service: name, Err: err}
	}
	return nil
}

// Eval interprets args as a control command: "start NAME [ARGS...]",
// "stop NAME", or "action NAME ACTION [ARGS...]".
func (l *Local) Eval(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("xsession: empty eval command")
	}
	switch args[0] {
	case "start":
		if len(args) < 2 {
			return fmt.Errorf("xsession: eval start needs a service name")
		}
		return l.Start(ctx, Identity(args[1]), args[2:]...)
	case "stop":
		if len(args) < 2 {
			return fmt.Errorf("xsession: eval stop needs a service name")
		}
		return l.Stop(ctx, Identity(args[1]))
	case "action":
		if len(args) < 3 {
			return fmt.Errorf("xsession: eval action needs a service and action name")
		}
		return l.Action(ctx, Identity(args[1]), args[2], args[3:]...)
	default:
		return fmt.Errorf("xsession: unknown eval command %q", args[0])
	}
}

// Running reports whether the named service is currently marked running.
func (l *Local) Running(name Identity) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	svc, ok := l.byName[name]
	if !ok {
		return false
	}
	return l.running[svc.Name]
}

// Services returns the registered descriptors in registration order.
func (l *Local) Services() []*Service {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Service(nil), l.order...)
}
