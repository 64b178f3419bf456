package xsession

import (
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"
)

// Config carries the deployment-specific knobs for the session
// declarations: which binaries implement each role and where the session
// file, if any, is published. Everything has a working default, so the
// zero configuration describes a plain Xorg session.
type Config struct {
	// BusPath is the session message bus binary
	BusPath string `env:"XSESSION_BUS,default=dbus-daemon"`

	// AgentPath is the credential agent binary
	AgentPath string `env:"XSESSION_AGENT,default=ssh-agent"`

	// ServerPath is the display server binary
	ServerPath string `env:"XSESSION_SERVER,default=Xorg"`

	// WMPath is the window manager binary
	WMPath string `env:"XSESSION_WM,default=ratpoison"`

	// SettingsPath is the settings daemon binary
	SettingsPath string `env:"XSESSION_SETTINGS,default=xsettingsd"`

	// TermPath is the terminal emulator binary
	TermPath string `env:"XSESSION_TERM,default=xterm"`

	// SessionFile, when non-empty, is where the derived session
	// variables are published after registration
	SessionFile string `env:"XSESSION_FILE"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// DefaultConfig returns the built-in configuration without consulting the
// environment.
func DefaultConfig() *Config {
	return &Config{
		BusPath:      DefaultBusPath,
		AgentPath:    DefaultAgentPath,
		ServerPath:   DefaultServerPath,
		WMPath:       DefaultWMPath,
		SettingsPath: DefaultSettingsPath,
		TermPath:     DefaultTermPath,
	}
}

// AutostartEnabled reports whether the baseline services should be started
// automatically at registration time. The variable is tri-state on
// purpose: unset means yes, set to "" or "0" means no, anything else
// means yes.
func AutostartEnabled() bool {
	v, ok := os.LookupEnv(EnvAutostart)
	if !ok {
		return true
	}
	return v != "" && v != "0"
}
