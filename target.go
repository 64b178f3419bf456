package xsession

import "context"

// NewTarget builds a composite service whose whole lifecycle is defined by
// an ordered member list. Start delegates to a Starter closed over the
// members with no user override; stop tears the members down in strict
// reverse order.
//
// Stop is best effort: every member receives exactly one stop attempt even
// when an earlier one fails. It then always reports failure, because a
// target represents a session and "stopped" is not a resumable steady
// state; the supervisor's only recovery path is to start the target again.
func NewTarget(sup Supervisor, name Identity, desc string, members []Identity, opts ...StarterOption) *Service {
	cfg := starterConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := NewStarter(sup, members, nil, opts...)

	stop := func(ctx context.Context, _ ...string) error {
		resolved := members
		if cfg.post != nil {
			resolved = make([]Identity, len(members))
			for i, m := range members {
				resolved[i] = cfg.post(m)
			}
		}
		for i := len(resolved) - 1; i >= 0; i-- {
			// Failures are deliberately ignored: teardown continues
			_ = sup.Stop(ctx, resolved[i])
		}
		return ErrTargetStopped
	}

	return &Service{
		Name:        name,
		Description: desc,
		Provides:    []Identity{name},
		Start:       start.Operation(),
		Stop:        stop,
	}
}
