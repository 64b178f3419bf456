package xsession

import (
	"context"
	"errors"
	"testing"
)

func TestDisplayVT(t *testing.T) {
	tests := []struct {
		display Display
		index   int
		vt      string
	}{
		{":0", 0, "vt7"},
		{":1", 1, "vt8"},
		{":2", 2, "vt9"},
		{":10", 10, "vt17"},
	}

	for _, tt := range tests {
		t.Run(string(tt.display), func(t *testing.T) {
			if got := tt.display.Index(); got != tt.index {
				t.Errorf("Index() = %d, want %d", got, tt.index)
			}
			if got := tt.display.VT(); got != tt.vt {
				t.Errorf("VT() = %q, want %q", got, tt.vt)
			}
		})
	}
}

func TestDisplayVTMalformed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for display without trailing integer")
		}
	}()
	_ = Display(":none").VT()
}

func TestDisplayQualify(t *testing.T) {
	d := Display(":1")

	if got := d.Qualify("wm"); got != Identity("wm:1") {
		t.Errorf("Qualify = %q, want wm:1", got)
	}

	got := d.QualifyAll([]Identity{"server", "wm", "term"})
	want := []Identity{"server:1", "wm:1", "term:1"}
	if len(got) != len(want) {
		t.Fatalf("QualifyAll returned %d identities, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("QualifyAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := d.QualifyDescription("window manager"); got != "window manager (display :1)" {
		t.Errorf("QualifyDescription = %q", got)
	}
}

func TestDisplayInstantiate(t *testing.T) {
	started := false
	tmpl := &Service{
		Name:        "wm",
		Description: "window manager",
		Provides:    []Identity{"wm"},
		Requires:    []Identity{"server"},
		Start: func(context.Context, ...string) error {
			started = true
			return nil
		},
	}

	svc := Display(":2").Instantiate(tmpl)

	if svc.Name != "wm:2" {
		t.Errorf("Name = %q, want wm:2", svc.Name)
	}
	if svc.Description != "window manager (display :2)" {
		t.Errorf("Description = %q", svc.Description)
	}
	if len(svc.Provides) != 1 || svc.Provides[0] != "wm:2" {
		t.Errorf("Provides = %v, want [wm:2]", svc.Provides)
	}
	if len(svc.Requires) != 1 || svc.Requires[0] != "server:2" {
		t.Errorf("Requires = %v, want [server:2]", svc.Requires)
	}

	// Operations pass through unchanged
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !started {
		t.Error("instantiated start did not invoke the template operation")
	}

	// The template itself is untouched
	if tmpl.Name != "wm" || tmpl.Provides[0] != "wm" {
		t.Error("Instantiate modified the template")
	}
}

func TestDisplayValueResolution(t *testing.T) {
	d, err := FixedDisplay(":1").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if d != ":1" {
		t.Errorf("FixedDisplay resolved to %q", d)
	}

	calls := 0
	probe := DisplayProbe(func() (Display, error) {
		calls++
		return ":0", nil
	})

	// Probes are evaluated on every resolution, never memoized
	for i := 0; i < 3; i++ {
		if _, err := probe.Resolve(); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Errorf("probe called %d times, want 3", calls)
	}

	failing := DisplayProbe(func() (Display, error) {
		return "", ErrNoDisplay
	})
	if _, err := failing.Resolve(); !errors.Is(err, ErrNoDisplay) {
		t.Errorf("err = %v, want ErrNoDisplay", err)
	}
}

func TestFirstFreeDisplay(t *testing.T) {
	// The result depends on the host's live display sockets; assert only
	// that a success names a supported display.
	d, err := FirstFreeDisplay()
	if err != nil {
		if !errors.Is(err, ErrNoDisplay) {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}

	supported := false
	for _, s := range Displays() {
		if d == s {
			supported = true
		}
	}
	if !supported {
		t.Errorf("FirstFreeDisplay = %q, not in supported set", d)
	}
}
