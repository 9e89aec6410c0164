package host

import "fmt"

// Mode is the host's lifecycle state.
type Mode int

const (
	Browsing Mode = iota
	RunningApp
	Paused
	PassiveAutoSelected
)

func (m Mode) String() string {
	switch m {
	case Browsing:
		return "browsing"
	case RunningApp:
		return "running"
	case Paused:
		return "paused"
	case PassiveAutoSelected:
		return "passive"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for _, c := range []Mode{Browsing, RunningApp, Paused, PassiveAutoSelected} {
		if c.String() == string(b) {
			*m = c
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", b)
}

// Running reports whether an app is loaded in this mode.
func (m Mode) Running() bool { return m != Browsing }
