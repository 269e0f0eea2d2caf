package print

import (
	"fmt"
	"math"

	"github.com/bookpress/backend/internal/domain/shared"
)

const (
	// MmPerInch is the exact millimeter length of one inch
	MmPerInch = 25.4
	// PointsPerMm converts millimeters to PostScript points (72pt per inch)
	PointsPerMm = 72.0 / MmPerInch
	// DefaultArtMarginMm is the safe-zone inset applied to the trim box
	DefaultArtMarginMm = 10.0
	// MinPrintableDPI is the lowest DPI accepted for a printable page
	MinPrintableDPI = 150
	// canvasPixelTolerance is the accepted mismatch when validating an
	// externally rendered canvas against the expected bleed-inclusive size
	canvasPixelTolerance = 10
)

// PrintDimensions describes a product page size: trim width/height and bleed
// in millimeters, plus the target raster DPI.
type PrintDimensions struct {
	WidthMm  float64 `json:"width_mm"`
	HeightMm float64 `json:"height_mm"`
	BleedMm  float64 `json:"bleed_mm"`
	DPI      int     `json:"dpi"`
}

// Validate checks the dimension invariants: all measures positive and the
// DPI at or above the minimum printable resolution.
func (d PrintDimensions) Validate() error {
	if d.WidthMm <= 0 || d.HeightMm <= 0 {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Page width and height must be positive")
	}
	if d.BleedMm <= 0 {
		return shared.NewDomainError("INVALID_DIMENSIONS", "Bleed must be positive")
	}
	if d.DPI < MinPrintableDPI {
		return shared.NewDomainError("INVALID_DIMENSIONS",
			fmt.Sprintf("DPI must be at least %d for printable pages", MinPrintableDPI))
	}
	return nil
}

// PrintMargins describes safe-zone margins in millimeters. They drive the
// safe-zone quality check only and play no part in box geometry.
type PrintMargins struct {
	TopMm    float64 `json:"top_mm"`
	BottomMm float64 `json:"bottom_mm"`
	LeftMm   float64 `json:"left_mm"`
	RightMm  float64 `json:"right_mm"`
	SpineMm  float64 `json:"spine_mm"`
}

// Box is an axis-aligned rectangle in millimeters. The coordinate origin is
// the top-left corner of the trim box, so a bleed box has negative X/Y.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero returns true if the box is entirely unset
func (b Box) IsZero() bool {
	return b.X == 0 && b.Y == 0 && b.Width == 0 && b.Height == 0
}

// Contains reports whether other lies fully within b
func (b Box) Contains(other Box) bool {
	return other.X >= b.X && other.Y >= b.Y &&
		other.X+other.Width <= b.X+b.Width &&
		other.Y+other.Height <= b.Y+b.Height
}

// MmToPixels converts a millimeter length to pixels at the given DPI
func MmToPixels(mm float64, dpi int) float64 {
	return mm / MmPerInch * float64(dpi)
}

// PixelsToMm converts a pixel length to millimeters at the given DPI
func PixelsToMm(px float64, dpi int) float64 {
	return px / float64(dpi) * MmPerInch
}

// MmToPoints converts a millimeter length to PostScript points
func MmToPoints(mm float64) float64 {
	return mm * PointsPerMm
}

// CalculateTrimBox returns the as-cut page box: the product dimensions at the
// coordinate origin.
func CalculateTrimBox(d PrintDimensions) Box {
	return Box{X: 0, Y: 0, Width: d.WidthMm, Height: d.HeightMm}
}

// CalculateBleedBox returns the trim box expanded by the bleed on all sides.
// With includeBleed false it degenerates to the trim box, for products whose
// artwork is supplied pre-trimmed.
func CalculateBleedBox(d PrintDimensions, includeBleed bool) Box {
	if !includeBleed {
		return CalculateTrimBox(d)
	}
	return Box{
		X:      -d.BleedMm,
		Y:      -d.BleedMm,
		Width:  d.WidthMm + 2*d.BleedMm,
		Height: d.HeightMm + 2*d.BleedMm,
	}
}

// CalculateArtBox returns the trim box inset by the safe margin. Critical
// content (text, faces) should stay inside it.
func CalculateArtBox(d PrintDimensions, marginMm float64) Box {
	if marginMm <= 0 {
		marginMm = DefaultArtMarginMm
	}
	return Box{
		X:      marginMm,
		Y:      marginMm,
		Width:  math.Max(d.WidthMm-2*marginMm, 0),
		Height: math.Max(d.HeightMm-2*marginMm, 0),
	}
}

// ValidateCanvasDimensions compares an externally rendered canvas against the
// expected bleed-inclusive pixel size at the product DPI. It returns one
// human-readable mismatch per failing axis; an empty slice means valid.
func ValidateCanvasDimensions(actualWidthPx, actualHeightPx int, d PrintDimensions) []string {
	expectedW := int(math.Round(MmToPixels(d.WidthMm+2*d.BleedMm, d.DPI)))
	expectedH := int(math.Round(MmToPixels(d.HeightMm+2*d.BleedMm, d.DPI)))

	var mismatches []string
	if abs(actualWidthPx-expectedW) > canvasPixelTolerance {
		mismatches = append(mismatches, fmt.Sprintf(
			"canvas width %dpx does not match expected %dpx (%.1fmm at %d DPI including bleed)",
			actualWidthPx, expectedW, d.WidthMm+2*d.BleedMm, d.DPI))
	}
	if abs(actualHeightPx-expectedH) > canvasPixelTolerance {
		mismatches = append(mismatches, fmt.Sprintf(
			"canvas height %dpx does not match expected %dpx (%.1fmm at %d DPI including bleed)",
			actualHeightPx, expectedH, d.HeightMm+2*d.BleedMm, d.DPI))
	}
	return mismatches
}

// EstimatePDFSize gives a rough byte estimate of the final print file for
// progress display. It is a UI heuristic, not a contract.
func EstimatePDFSize(pageCount int, avgImageBytes int64) int64 {
	const baseOverhead = 50 * 1024
	const perPageOverhead = 2 * 1024
	if pageCount <= 0 {
		return baseOverhead
	}
	return baseOverhead + int64(pageCount)*(avgImageBytes+perPageOverhead)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
