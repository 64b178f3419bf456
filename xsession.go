package xsession

import "time"

// Environment variable names forced by overlays
const (
	// EnvBusAddress is the session bus address variable
	EnvBusAddress = "DBUS_SESSION_BUS_ADDRESS"

	// EnvAgentSocket is the forwarded credential-agent socket variable
	EnvAgentSocket = "SSH_AUTH_SOCK"

	// EnvDisplay is the display selection variable
	EnvDisplay = "DISPLAY"

	// EnvAutostart controls automatic startup of the baseline services at
	// registration time. Set to "" or "0" it suppresses autostart; any
	// other value, including unset, triggers it.
	EnvAutostart = "XSESSION_AUTOSTART"
)

// Binary paths with defaults that can be overridden
const (
	// DefaultBusPath is the default path to the session message bus binary
	DefaultBusPath = "dbus-daemon"

	// DefaultServerPath is the default path to the display server binary
	DefaultServerPath = "Xorg"

	// DefaultAgentPath is the default path to the credential agent binary
	DefaultAgentPath = "ssh-agent"

	// DefaultWMPath is the default path to the window manager binary
	DefaultWMPath = "ratpoison"

	// DefaultSettingsPath is the default path to the settings daemon binary
	DefaultSettingsPath = "xsettingsd"

	// DefaultTermPath is the default path to the terminal emulator binary
	DefaultTermPath = "xterm"
)

// DefaultReadyTimeout is the default time to wait for a daemon's ready
// path to appear before the start is reported failed.
const DefaultReadyTimeout = 10 * time.Second

// vtBase is the virtual console the first display is bound to: display
// :0 runs on vt7, :1 on vt8, and so on. Consoles 1-6 are left to getty.
const vtBase = 7

// Displays returns the fixed set of supported concurrent displays, in
// registration order. The identifiers are mutually non-prefixing, which is
// what keeps qualified service names collision-free.
func Displays() []Display {
	return []Display{":0", ":1", ":2"}
}
