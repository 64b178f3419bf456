// Package xsession composes declarative service definitions for a graphical
// user session and hands them to an external process supervisor that owns the
// actual runtime lifecycle.
//
// The package does not supervise anything itself. It builds Service
// descriptors (identity, description, start and stop operations), groups them
// into Targets with all-or-nothing start and guaranteed reverse-order
// teardown, and stamps out per-display instances of a service family so that
// several independent sessions can run side by side:
//
//	env, err := xsession.NewSessionEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sup := xsession.NewLocal()
//	reg := xsession.NewRegistry(env, sup)
//
//	if err := reg.Register(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Environment Overlays
//
// Child processes receive a derived copy of the ambient environment with the
// session bus address, the forwarded agent socket (when one has been
// captured), and the display forced to session-specific values. Overlays are
// computed at start time, never at definition time, so probes such as "the
// first free display" reflect conditions when the service actually starts.
//
// # Targets
//
// A Target is a composite Service whose start delegates to a Starter over a
// fixed member list and whose stop tears the same members down in strict
// reverse order. Stop is best effort: every member receives exactly one stop
// attempt even when an earlier one fails. A stopped session is not a
// resumable state, so Target stop always reports failure; re-issuing start
// is the supported recovery path.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - Declarations over control flow (the Registry only assembles lists)
//   - Late-bound context values resolved at start time, never memoized
//   - Non-destructive environment handling (the ambient environment is
//     never mutated)
//   - Explicit error returns at every Operation boundary
package xsession
