package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColour reads a "#RRGGBB" hex string into packed ARGB with full
// opacity.
func ParseColour(s string) (uint32, error) {
	hex, found := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !found || len(hex) != 6 {
		return 0, fmt.Errorf("colour %q: want #RRGGBB", s)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q: want #RRGGBB", s)
	}
	return 0xFF000000 | uint32(rgb), nil
}
