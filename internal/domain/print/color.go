package print

import (
	"fmt"
	"math"
	"strings"

	"github.com/bookpress/backend/internal/domain/shared"
)

// gamutChannelTolerance is the per-channel drift (0-255 scale) accepted by
// the CMYK round-trip gamut proxy.
const gamutChannelTolerance = 5

// maxInkCoverage is the total ink limit (C+M+Y+K in percent) above which
// presses risk drying and set-off problems.
const maxInkCoverage = 300

// maxPressInkDensity caps the C, M and Y inks when judging gamut membership.
// A press cannot lay a perfectly solid colored ink film, so fully saturated
// RGB primaries shift when printed. Black ink is exempt.
const maxPressInkDensity = 95

// RGBColor is an 8-bit-per-channel RGB color
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// CMYKColor holds ink percentages, each 0-100
type CMYKColor struct {
	C int `json:"c"`
	M int `json:"m"`
	Y int `json:"y"`
	K int `json:"k"`
}

// PrintColorProfile selects simulation behavior for previews. It carries an
// optional ICC identifier for display purposes only; no ICC transform is
// performed.
type PrintColorProfile struct {
	Name       string          `json:"name"`
	Space      ColorSpace      `json:"space"`
	Intent     RenderingIntent `json:"intent"`
	ICCProfile string          `json:"icc_profile,omitempty"`
}

// RGBToCMYK converts an RGB color using the naive formula
// k = 1 - max(r,g,b). Pure black short-circuits to k=100 to avoid division
// by zero. Channel outputs are rounded to integer percent.
func RGBToCMYK(rgb RGBColor) CMYKColor {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	k := 1.0 - math.Max(r, math.Max(g, b))
	if k >= 1.0 {
		return CMYKColor{C: 0, M: 0, Y: 0, K: 100}
	}

	c := (1.0 - r - k) / (1.0 - k)
	m := (1.0 - g - k) / (1.0 - k)
	y := (1.0 - b - k) / (1.0 - k)

	return CMYKColor{
		C: int(math.Round(c * 100)),
		M: int(math.Round(m * 100)),
		Y: int(math.Round(y * 100)),
		K: int(math.Round(k * 100)),
	}
}

// CMYKToRGB inverts RGBToCMYK: channel = 255*(1-x)*(1-k)
func CMYKToRGB(cmyk CMYKColor) RGBColor {
	c := float64(cmyk.C) / 100.0
	m := float64(cmyk.M) / 100.0
	y := float64(cmyk.Y) / 100.0
	k := float64(cmyk.K) / 100.0

	return RGBColor{
		R: clampChannel(255 * (1 - c) * (1 - k)),
		G: clampChannel(255 * (1 - m) * (1 - k)),
		B: clampChannel(255 * (1 - y) * (1 - k)),
	}
}

// HexToRGB parses "#rgb" or "#rrggbb" hex notation, with or without the
// leading hash.
func HexToRGB(hex string) (RGBColor, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGBColor{}, shared.NewDomainError("INVALID_COLOR",
			fmt.Sprintf("invalid hex color: %q", hex))
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(s), "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGBColor{}, shared.NewDomainError("INVALID_COLOR",
			fmt.Sprintf("invalid hex color: %q", hex))
	}
	return RGBColor{R: r, G: g, B: b}, nil
}

// Hex returns the "#rrggbb" representation of the color
func (c RGBColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RoundTrip converts the color to CMYK and back without any press
// constraints. The preview simulator uses it for fill recoloring.
func (c RGBColor) RoundTrip() RGBColor {
	return CMYKToRGB(RGBToCMYK(c))
}

// PressApprox returns the color as a press would approximately reproduce it:
// converted to CMYK with the colored inks capped at the press density limit,
// then converted back.
func (c RGBColor) PressApprox() RGBColor {
	cmyk := RGBToCMYK(c)
	cmyk.C = minInk(cmyk.C)
	cmyk.M = minInk(cmyk.M)
	cmyk.Y = minInk(cmyk.Y)
	return CMYKToRGB(cmyk)
}

// IsInCMYKGamut compares the color against its press approximation and
// accepts it when every channel drifts by at most 5 units. This is a proxy
// for "will not visibly shift when printed", not a true gamut test. The
// plain RoundTrip is near lossless for every color, so comparing against
// it would accept everything; see the gamut note in DESIGN.md before
// changing the comparison basis.
func IsInCMYKGamut(rgb RGBColor) bool {
	back := rgb.PressApprox()
	return channelDiff(rgb.R, back.R) <= gamutChannelTolerance &&
		channelDiff(rgb.G, back.G) <= gamutChannelTolerance &&
		channelDiff(rgb.B, back.B) <= gamutChannelTolerance
}

// TotalInk returns the summed coverage of all four inks in percent
func (c CMYKColor) TotalInk() int {
	return c.C + c.M + c.Y + c.K
}

// ExceedsInkLimit reports whether the total coverage is above the press
// limit of 300%.
func (c CMYKColor) ExceedsInkLimit() bool {
	return c.TotalInk() > maxInkCoverage
}

// DetectPrintProblems returns advisory messages for a color: total ink
// coverage above the press limit, and gamut round-trip failures. The quality
// checker turns these into warnings.
func DetectPrintProblems(rgb RGBColor) []string {
	var problems []string

	cmyk := RGBToCMYK(rgb)
	if cmyk.ExceedsInkLimit() {
		problems = append(problems, fmt.Sprintf(
			"high ink coverage: %d%% exceeds the %d%% press limit", cmyk.TotalInk(), maxInkCoverage))
	}
	if !IsInCMYKGamut(rgb) {
		problems = append(problems, fmt.Sprintf(
			"color %s is outside the CMYK gamut and will shift when printed", rgb.Hex()))
	}
	return problems
}

func clampChannel(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func minInk(v int) int {
	if v > maxPressInkDensity {
		return maxPressInkDensity
	}
	return v
}

func channelDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
