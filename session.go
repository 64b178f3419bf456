package xsession

import "context"

// Base identities. Per-display services use these as templates and are
// registered under qualified names ("server:0", "wm:1", ...).
const (
	// SvcBus is the session message bus daemon
	SvcBus Identity = "bus"
	// SvcAgent is the credential agent
	SvcAgent Identity = "agent"
	// SvcEval is the composite exposing supervisor-level evaluation
	SvcEval Identity = "eval"
	// SvcServer is the per-display windowing server
	SvcServer Identity = "server"
	// SvcSettings is the per-display settings daemon
	SvcSettings Identity = "settings"
	// SvcWM is the per-display window manager
	SvcWM Identity = "wm"
	// SvcTerm is the per-display terminal emulator
	SvcTerm Identity = "term"
	// TargetDaemons is the always-running baseline composite
	TargetDaemons Identity = "daemons"
	// TargetSession is the per-display session composite
	TargetSession Identity = "session"
)

// sessionMembers is the per-display session target's member list, in
// start order. Stop order is the exact reverse.
var sessionMembers = []Identity{SvcServer, SvcSettings, SvcWM, SvcTerm}

// busService declares the session message bus. The bus listens on the
// address every overlay forces, so services started later find it without
// any address handshake.
func (r *Registry) busService() *Service {
	daemon := NewDaemon(r.env, r.cfg.BusPath, "--session", "--nofork", "--address="+r.env.BusAddress())
	reload := NewCommand(r.env,
		"dbus-send", "--session", "--type=method_call",
		"--dest=org.freedesktop.DBus", "/org/freedesktop/DBus",
		"org.freedesktop.DBus.ReloadConfig")

	return &Service{
		Name:        SvcBus,
		Description: "session message bus",
		Provides:    []Identity{SvcBus},
		Start:       daemon.Start,
		Stop:        daemon.Stop,
		Actions: map[string]Operation{
			"reload": reload.Run,
		},
	}
}

// agentService declares the credential agent. Start runs the agent as a
// one-shot command and captures its socket announcement into the overlay
// slot; stop asks the agent to shut down.
func (r *Registry) agentService() *Service {
	kill := NewCommand(r.env, r.cfg.AgentPath, "-k")

	return &Service{
		Name:        SvcAgent,
		Description: "credential agent",
		Provides:    []Identity{SvcAgent},
		Start:       r.env.AgentLauncher(r.cfg.AgentPath),
		Stop:        kill.Run,
	}
}

// evalService declares the composite whose start hands its arguments to
// the supervisor's evaluation hook verbatim.
func (r *Registry) evalService() *Service {
	return &Service{
		Name:        SvcEval,
		Description: "supervisor evaluation hook",
		Provides:    []Identity{SvcEval},
		Start: func(ctx context.Context, args ...string) error {
			return r.sup.Eval(ctx, args...)
		},
		Stop: func(context.Context, ...string) error { return nil },
	}
}

// daemonsTarget declares the baseline composite started automatically at
// registration unless suppressed.
func (r *Registry) daemonsTarget() *Service {
	return NewTarget(r.sup, TargetDaemons, "baseline session daemons",
		[]Identity{SvcBus, SvcAgent})
}

// displayFamily instantiates the full per-display service family, in
// declaration order: the windowing server first, then the services that
// require it, then the session target over all of them.
func (r *Registry) displayFamily(d Display) []*Service {
	server := NewDaemon(r.env, r.cfg.ServerPath)
	server.Display = FixedDisplay(d)
	server.ArgvFunc = func(d Display) []string {
		return []string{r.cfg.ServerPath, string(d), d.VT()}
	}
	server.ReadyFunc = Display.SocketPath

	settings := NewDaemon(r.env, r.cfg.SettingsPath)
	settings.Display = FixedDisplay(d)

	wm := NewDaemon(r.env, r.cfg.WMPath)
	wm.Display = FixedDisplay(d)

	term := NewDaemon(r.env, r.cfg.TermPath)
	term.Display = FixedDisplay(d)

	svcs := []*Service{
		d.Instantiate(&Service{
			Name:        SvcServer,
			Description: "windowing server",
			Provides:    []Identity{SvcServer},
			Start:       server.Start,
			Stop:        server.Stop,
		}),
		d.Instantiate(&Service{
			Name:        SvcSettings,
			Description: "settings daemon",
			Provides:    []Identity{SvcSettings},
			Requires:    []Identity{SvcServer},
			Start:       settings.Start,
			Stop:        settings.Stop,
		}),
		d.Instantiate(&Service{
			Name:        SvcWM,
			Description: "window manager",
			Provides:    []Identity{SvcWM},
			Requires:    []Identity{SvcServer},
			Start:       wm.Start,
			Stop:        wm.Stop,
		}),
		d.Instantiate(&Service{
			Name:        SvcTerm,
			Description: "terminal emulator",
			Provides:    []Identity{SvcTerm},
			Requires:    []Identity{SvcServer},
			Start:       term.Start,
			Stop:        term.Stop,
		}),
		NewTarget(r.sup, d.Qualify(TargetSession), d.QualifyDescription("user session"),
			sessionMembers, WithPostTransform(d.Qualify)),
	}

	return svcs
}
