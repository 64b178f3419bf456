package xsession

import (
	"context"

	"github.com/rs/zerolog"
)

// Registry assembles the canonical ordered service list and hands it to
// the supervisor. It performs no control logic of its own: the list is a
// pure concatenation of the baseline daemons, the miscellaneous
// composites, and one full per-display family per supported display, in
// display order.
type Registry struct {
	env *SessionEnv
	sup Supervisor
	cfg *Config
	log zerolog.Logger

	displays []Display
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithConfig supplies the deployment configuration
func WithConfig(cfg *Config) RegistryOption {
	return func(r *Registry) { r.cfg = cfg }
}

// WithDisplays overrides the supported display set
func WithDisplays(displays ...Display) RegistryOption {
	return func(r *Registry) { r.displays = displays }
}

// WithRegistryLogger sets the logger for assembly events
func WithRegistryLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

// NewRegistry creates a Registry over the given session environment and
// supervisor.
func NewRegistry(env *SessionEnv, sup Supervisor, opts ...RegistryOption) *Registry {
	r := &Registry{
		env:      env,
		sup:      sup,
		log:      zerolog.Nop(),
		displays: Displays(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cfg == nil {
		r.cfg = DefaultConfig()
	}
	return r
}

// Services returns the full ordered descriptor list. The order is
// deterministic: within a display family the windowing server always
// precedes the composites that require it.
func (r *Registry) Services() []*Service {
	svcs := []*Service{
		r.busService(),
		r.agentService(),
		r.evalService(),
		r.daemonsTarget(),
	}
	for _, d := range r.displays {
		svcs = append(svcs, r.displayFamily(d)...)
	}
	return svcs
}

// Register hands the assembled list to the supervisor and, unless
// autostart is suppressed through the environment, starts the baseline
// daemons target. With autostart suppressed no operation runs at all.
func (r *Registry) Register(ctx context.Context) error {
	svcs := r.Services()
	if err := r.sup.Register(svcs...); err != nil {
		return err
	}
	r.log.Info().Int("services", len(svcs)).Msg("registry assembled")

	if !AutostartEnabled() {
		r.log.Info().Msg("autostart suppressed")
		return nil
	}

	if err := r.sup.Start(ctx, TargetDaemons); err != nil {
		return err
	}

	if r.cfg.SessionFile != "" {
		if err := r.env.WriteSessionFile(r.cfg.SessionFile); err != nil {
			return err
		}
	}

	return nil
}
