package geom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a packed 0xRRGGBB value.
type Color uint32

// RGB unpacks the three 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// NRGBA returns the opaque image color.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// String renders lowercase hex without a prefix, e.g. "ff0000".
func (c Color) String() string {
	return strconv.FormatUint(uint64(c&0xFFFFFF), 16)
}

// ParseColor accepts "0xRRGGBB", "#RRGGBB", bare hex with at least one
// letter, or a decimal integer.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.ContainsAny(s, "abcdefABCDEF"):
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("geom: parse color %q: %w", s, err)
	}
	if v > 0xFFFFFF {
		return 0, fmt.Errorf("geom: color %q out of range", s)
	}
	return Color(v), nil
}

// MarshalText emits the "0xRRGGBB" form used in scene files.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%06X", uint32(c&0xFFFFFF))), nil
}

// UnmarshalText lets yaml, toml and json decode colors from strings.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalJSON accepts a JSON number as well as the string forms, so
// "color": 16711680 decodes like "color": "0xFF0000". null leaves c as is.
func (c *Color) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("geom: decode color: %w", err)
		}
		return c.UnmarshalText([]byte(s))
	}
	v, err := strconv.ParseUint(string(b), 10, 32)
	if err != nil {
		return fmt.Errorf("geom: decode color %s: %w", b, err)
	}
	if v > 0xFFFFFF {
		return fmt.Errorf("geom: color %s out of range", b)
	}
	*c = Color(v)
	return nil
}
