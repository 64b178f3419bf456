package xsession

import (
	"fmt"
	"os"
	"strconv"
)

// Display identifies one of the concurrently supported session contexts,
// e.g. ":0". The identifier always ends in a non-negative integer; a value
// that does not is a configuration-time programmer error and VT panics on
// it rather than defending at run time.
type Display string

// Index returns the numeric suffix of the display identifier.
func (d Display) Index() int {
	s := string(d)
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		panic(fmt.Sprintf("xsession: display %q has no trailing integer", s))
	}
	return n
}

// VT returns the virtual console argument for the display server, e.g.
// "vt7" for display ":0".
func (d Display) VT() string {
	return fmt.Sprintf("vt%d", vtBase+d.Index())
}

// SocketPath returns the conventional listening socket path for the
// display server on this display.
func (d Display) SocketPath() string {
	return fmt.Sprintf("/tmp/.X11-unix/X%d", d.Index())
}

// Qualify namespaces a base identity under this display. Supported display
// identifiers are mutually non-prefixing, so two distinct (base, display)
// pairs never collide.
func (d Display) Qualify(base Identity) Identity {
	return Identity(string(base) + string(d))
}

// QualifyAll applies Qualify element-wise, preserving order.
func (d Display) QualifyAll(bases []Identity) []Identity {
	out := make([]Identity, len(bases))
	for i, b := range bases {
		out[i] = d.Qualify(b)
	}
	return out
}

// QualifyDescription appends a display marker for human display.
func (d Display) QualifyDescription(text string) string {
	return fmt.Sprintf("%s (display %s)", text, string(d))
}

// Instantiate produces a fully qualified copy of a service template for
// this display: Name, Provides, Requires, and Description are rewritten
// through Qualify; all other fields pass through unchanged. Start and stop
// operations are expected to be closed over the raw display already, since
// launch strategies need the display value itself, not the qualified name.
func (d Display) Instantiate(tmpl *Service) *Service {
	svc := tmpl.clone()
	svc.Name = d.Qualify(tmpl.Name)
	svc.Description = d.QualifyDescription(tmpl.Description)
	svc.Provides = d.QualifyAll(tmpl.Provides)
	svc.Requires = d.QualifyAll(tmpl.Requires)
	return svc
}

// DisplayValue is a display that may be late bound: either a fixed literal
// or a zero-argument probe evaluated each time the value is needed, at
// start time rather than definition time. Results are never memoized.
type DisplayValue interface {
	// Resolve yields the display to use right now
	Resolve() (Display, error)
}

// FixedDisplay is a literal DisplayValue.
type FixedDisplay Display

// Resolve returns the literal display.
func (f FixedDisplay) Resolve() (Display, error) {
	return Display(f), nil
}

// DisplayProbe is a DisplayValue computed by probing external state.
type DisplayProbe func() (Display, error)

// Resolve invokes the probe.
func (p DisplayProbe) Resolve() (Display, error) {
	return p()
}

// FirstFreeDisplay probes the supported displays in order and returns the
// first one whose server socket does not exist yet. Conditions are checked
// at call time, so the result reflects the state of the system when a
// service actually starts.
func FirstFreeDisplay() (Display, error) {
	for _, d := range Displays() {
		if _, err := os.Stat(d.SocketPath()); os.IsNotExist(err) {
			return d, nil
		}
	}
	return "", ErrNoDisplay
}
