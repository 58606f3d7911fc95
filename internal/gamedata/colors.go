package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts a hex color string (e.g., "#DC143C" or "DC143C")
// to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewRGBColor(
		int32(rgb>>16&0xFF),
		int32(rgb>>8&0xFF),
		int32(rgb&0xFF),
	), nil
}

// TCellColor returns the variant's color, falling back to white if the
// hex string is malformed.
func (v *VariantDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(v.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}
