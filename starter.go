package xsession

import "context"

// StartFunc is an ordered, all-or-nothing startup procedure. On success it
// returns the full list of identities it started, which may be empty but
// is never nil; on failure it returns a *StartError naming the member that
// failed and the members already running.
type StartFunc func(ctx context.Context, args ...string) ([]Identity, error)

// Operation adapts a StartFunc to the Operation signature used by Service
// descriptors.
func (f StartFunc) Operation() Operation {
	return func(ctx context.Context, args ...string) error {
		_, err := f(ctx, args...)
		return err
	}
}

// Transform rewrites one identity, e.g. display qualification.
type Transform func(Identity) Identity

type starterConfig struct {
	pre  Transform
	post Transform
}

// StarterOption configures a Starter
type StarterOption func(*starterConfig)

// WithPreTransform maps caller-supplied arguments into identities before
// they are appended to the base list. Without it, caller arguments have no
// interpretation and the selection falls back to empty.
func WithPreTransform(fn Transform) StarterOption {
	return func(c *starterConfig) { c.pre = fn }
}

// WithPostTransform maps every member of the combined list just before it
// is started. Display qualification of a shared base list goes here.
func WithPostTransform(fn Transform) StarterOption {
	return func(c *starterConfig) { c.post = fn }
}

// NewStarter builds the startup procedure shared by the baseline daemons
// and the per-display composites. The procedure starts, in order, the
// fixed base list followed by a variable suffix: the caller's arguments
// when any are given, the fallback list otherwise.
//
// Members start strictly sequentially and the sequence short-circuits on
// the first failure. Members already started are left running; no
// compensating stop is issued, so a partial start is an observable state.
func NewStarter(sup Supervisor, base, fallback []Identity, opts ...StarterOption) StartFunc {
	cfg := starterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(ctx context.Context, args ...string) ([]Identity, error) {
		var selected []Identity
		switch {
		case len(args) > 0 && cfg.pre != nil:
			selected = make([]Identity, len(args))
			for i, a := range args {
				selected[i] = cfg.pre(Identity(a))
			}
		case len(args) > 0:
			// Arguments given but no way to interpret them: empty suffix
		default:
			selected = fallback
		}

		combined := make([]Identity, 0, len(base)+len(selected))
		combined = append(combined, base...)
		combined = append(combined, selected...)

		if cfg.post != nil {
			for i := range combined {
				combined[i] = cfg.post(combined[i])
			}
		}

		started := make([]Identity, 0, len(combined))
		for _, id := range combined {
			if err := sup.Start(ctx, id); err != nil {
				return nil, &StartError{Failed: id, Started: started, Err: err}
			}
			started = append(started, id)
		}
		return started, nil
	}
}
