// Package core holds the capture domain types shared by the daemon, the
// CLI, and the wire protocol.
package core

import (
	"fmt"
	"strings"
)

// Mode selects what a capture job targets.
type Mode string

const (
	ModeRegion Mode = "region"
	ModeScreen Mode = "screen"
	ModeWindow Mode = "window"
	ModeRecord Mode = "record"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeRegion, ModeScreen, ModeWindow, ModeRecord:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

// ParseMode maps user-facing mode names onto Mode values.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown mode %q (expected region|screen|window|record)", s)
	}
	return m, nil
}
