// Package color derives label colors from a marker's base color.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrMalformedHex is returned for anything that is not a #rrggbb color.
	ErrMalformedHex = errors.New("malformed hex color")
	// ErrPercentRange is returned when a shade percent falls outside [-1, 1].
	ErrPercentRange = errors.New("shade percent out of range")
)

// RGB is a color split into 8-bit channels.
type RGB struct {
	R, G, B int
}

// Hex encodes the color as a lower-case, zero-padded #rrggbb string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Parse decodes a #rrggbb string. The leading '#' is required.
func Parse(hex string) (RGB, error) {
	if len(hex) != 7 || hex[0] != '#' {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedHex, hex)
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrMalformedHex, hex)
	}
	return RGB{R: int(v >> 16), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// Valid reports whether hex parses as a #rrggbb color.
func Valid(hex string) bool {
	_, err := Parse(hex)
	return err == nil
}

// Shade lightens (percent > 0) or darkens (percent < 0) a color by blending every
// channel toward white or black. Channels round half up.
func Shade(hex string, percent float64) (string, error) {
	if percent < -1 || percent > 1 || math.IsNaN(percent) {
		return "", fmt.Errorf("%w: %v", ErrPercentRange, percent)
	}
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}

	target := 255.0
	p := percent
	if percent < 0 {
		target = 0
		p = -percent
	}
	blend := func(ch int) int {
		return roundHalfUp((target-float64(ch))*p) + ch
	}
	return RGB{R: blend(c.R), G: blend(c.G), B: blend(c.B)}.Hex(), nil
}

// roundHalfUp rounds ties toward +Inf without the precision loss of
// math.Floor(x+0.5) just below one half.
func roundHalfUp(x float64) int {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return int(r)
}

// MustShade is Shade for literal colors known to be valid. It panics otherwise.
func MustShade(hex string, percent float64) string {
	s, err := Shade(hex, percent)
	if err != nil {
		panic(err)
	}
	return s
}

// Gradient returns n colors stepping linearly in RGB from "from" to "to",
// both ends included.
func Gradient(from, to string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	a, err := colorful.Hex(strings.ToLower(from))
	if err != nil || !Valid(from) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHex, from)
	}
	b, err := colorful.Hex(strings.ToLower(to))
	if err != nil || !Valid(to) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHex, to)
	}
	if n == 1 {
		return []string{a.Hex()}, nil
	}

	out := make([]string, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = a.BlendRgb(b, t).Clamped().Hex()
	}
	return out, nil
}
