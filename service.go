package xsession

import "context"

// Identity is the opaque symbolic name of a service. Two identities are
// equal iff their textual forms are equal.
type Identity string

// Operation is a start, stop, or named action procedure. Side effects are
// arbitrary (spawning or signaling child processes); the only contract is
// the error return: nil means the goal state holds, non-nil means it does
// not. Spawn failures and nonzero exits surface identically, since callers
// only need to know whether the goal state was reached.
type Operation func(ctx context.Context, args ...string) error

// Service is the atomic declarative unit describing how to start and stop
// one logical session component. Services are constructed once at
// definition time, registered with the external supervisor, and referenced
// by identity from then on.
type Service struct {
	// Name is the unique identity of the service
	Name Identity
	// Description is a human-readable summary
	Description string
	// Provides lists the capability names this service satisfies.
	// Empty means the service provides exactly its own name.
	Provides []Identity
	// Requires lists capability names that must be running first
	Requires []Identity
	// Start brings the service up
	Start Operation
	// Stop brings the service down
	Stop Operation
	// Actions holds optional named auxiliary operations ("reload", ...)
	Actions map[string]Operation
}

// clone returns a shallow copy with fresh slice and map headers, so a
// derived service never aliases its template's fields.
func (s *Service) clone() *Service {
	c := *s
	if s.Provides != nil {
		c.Provides = append([]Identity(nil), s.Provides...)
	}
	if s.Requires != nil {
		c.Requires = append([]Identity(nil), s.Requires...)
	}
	if s.Actions != nil {
		c.Actions = make(map[string]Operation, len(s.Actions))
		for k, v := range s.Actions {
			c.Actions[k] = v
		}
	}
	return &c
}

// ServiceOption overrides a single field when deriving a service from a
// base record.
type ServiceOption func(*Service)

// WithName overrides the service identity
func WithName(name Identity) ServiceOption {
	return func(s *Service) { s.Name = name }
}

// WithDescription overrides the description
func WithDescription(text string) ServiceOption {
	return func(s *Service) { s.Description = text }
}

// WithProvides overrides the provided capability list
func WithProvides(ids ...Identity) ServiceOption {
	return func(s *Service) { s.Provides = ids }
}

// WithRequires overrides the required capability list
func WithRequires(ids ...Identity) ServiceOption {
	return func(s *Service) { s.Requires = ids }
}

// WithStart overrides the start operation
func WithStart(op Operation) ServiceOption {
	return func(s *Service) { s.Start = op }
}

// WithStop overrides the stop operation
func WithStop(op Operation) ServiceOption {
	return func(s *Service) { s.Stop = op }
}

// WithAction adds or replaces a named auxiliary operation
func WithAction(name string, op Operation) ServiceOption {
	return func(s *Service) {
		if s.Actions == nil {
			s.Actions = make(map[string]Operation)
		}
		s.Actions[name] = op
	}
}

// Derive returns a copy of base with the given overrides applied field by
// field. The base record is never modified.
func Derive(base *Service, opts ...ServiceOption) *Service {
	svc := base.clone()
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}
