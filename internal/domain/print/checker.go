package print

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	// targetPrintDPI is the resolution below which images get flagged
	targetPrintDPI = 300
	// severeDPIThreshold splits low-resolution warnings into high severity
	severeDPIThreshold = 200
	// safeZoneMm is the fixed distance from the trim edge inside which text
	// risks being cut or bound
	safeZoneMm = 5.0
	// screenDPI is the nominal on-screen resolution the canvas designs at
	screenDPI = 72.0
)

// QualityChecker accumulates findings across the pages of one print job.
// Checks on distinct pages are independent and run concurrently; the checker
// is not reusable across jobs.
type QualityChecker struct {
	product PrintProduct

	mu       sync.Mutex
	warnings []QualityWarning
	errors   []QualityError
}

// NewQualityChecker creates a checker for one job
func NewQualityChecker(product PrintProduct) *QualityChecker {
	return &QualityChecker{product: product}
}

// CheckAll runs the page checks across all pages, bounded by CPU count
func (c *QualityChecker) CheckAll(ctx context.Context, pages []PrintPage) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range pages {
		page := pages[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return c.CheckPage(&page)
		})
	}
	return g.Wait()
}

// CheckPage runs the four page-level checks and records their findings
func (c *QualityChecker) CheckPage(page *PrintPage) error {
	scene, err := DecodeScene(page.Scene)
	if err != nil {
		return err
	}

	var warnings []QualityWarning
	var errs []QualityError

	warnings = append(warnings, c.checkResolution(page, scene)...)
	bw, be := c.checkBleed(page)
	warnings = append(warnings, bw...)
	errs = append(errs, be...)
	warnings = append(warnings, c.checkSafeZone(page, scene)...)
	warnings = append(warnings, c.checkColors(page, scene)...)
	errs = append(errs, c.checkImages(page, scene)...)

	c.mu.Lock()
	c.warnings = append(c.warnings, warnings...)
	c.errors = append(c.errors, errs...)
	c.mu.Unlock()
	return nil
}

// Result returns the accumulated report with deterministic ordering
func (c *QualityChecker) Result() PrintQualityCheck {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make([]QualityError, len(c.errors))
	copy(errs, c.errors)
	warns := make([]QualityWarning, len(c.warnings))
	copy(warns, c.warnings)
	return newQualityCheck(errs, warns)
}

// checkResolution flags images whose effective print resolution falls below
// the 300 DPI target. Not auto-fixable: it needs a higher-resolution asset.
func (c *QualityChecker) checkResolution(page *PrintPage, scene *Scene) []QualityWarning {
	var warnings []QualityWarning
	for _, obj := range scene.Objects {
		if obj.Type != ObjectImage || obj.SourceWidthPx <= 0 {
			continue
		}
		scale := obj.ScaleX
		if scale <= 0 {
			scale = 1
		}
		effectiveDPI := (float64(obj.SourceWidthPx) / (float64(obj.SourceWidthPx) * scale)) * screenDPI
		if effectiveDPI >= targetPrintDPI {
			continue
		}
		severity := SeverityMedium
		if effectiveDPI < severeDPIThreshold {
			severity = SeverityHigh
		}
		warnings = append(warnings, QualityWarning{
			Code:     WarnLowResolution,
			Severity: severity,
			Page:     page.PageNumber,
			Message: fmt.Sprintf("image prints at %.0f DPI, below the %d DPI target",
				effectiveDPI, targetPrintDPI),
			AutoFixable: false,
		})
	}
	return warnings
}

// checkBleed verifies the page carries the bleed the product requires. An
// absent bleed box blocks production; an insufficient one is auto-fixable.
func (c *QualityChecker) checkBleed(page *PrintPage) ([]QualityWarning, []QualityError) {
	required := c.product.RequiredBleedMm()
	if page.BleedBox.IsZero() {
		return nil, []QualityError{{
			Code:    ErrMissingBleed,
			Page:    page.PageNumber,
			Message: fmt.Sprintf("page %d has no bleed box", page.PageNumber),
		}}
	}
	if margin := page.BleedMarginMm(); margin < required {
		return []QualityWarning{{
			Code:     WarnBleedMissing,
			Severity: SeverityMedium,
			Page:     page.PageNumber,
			Message: fmt.Sprintf("bleed is %.1fmm, product requires %.1fmm",
				margin, required),
			AutoFixable: true,
		}}, nil
	}
	return nil, nil
}

// checkSafeZone flags text placed within 5mm of the trim edge
func (c *QualityChecker) checkSafeZone(page *PrintPage, scene *Scene) []QualityWarning {
	var warnings []QualityWarning
	trim := page.TrimBox
	for _, obj := range scene.Objects {
		if obj.Type != ObjectText {
			continue
		}
		inSafeZone := obj.X < trim.X+safeZoneMm ||
			obj.Y < trim.Y+safeZoneMm ||
			obj.X+obj.Width > trim.X+trim.Width-safeZoneMm ||
			obj.Y+obj.Height > trim.Y+trim.Height-safeZoneMm
		if !inSafeZone {
			continue
		}
		warnings = append(warnings, QualityWarning{
			Code:     WarnMarginViolation,
			Severity: SeverityMedium,
			Page:     page.PageNumber,
			Message: fmt.Sprintf("text %q sits within %.0fmm of the trim edge",
				truncateText(obj.Text), safeZoneMm),
			AutoFixable: false,
		})
	}
	return warnings
}

// checkColors tests every solid fill against the CMYK gamut proxy and the
// ink-coverage limit. Gamut failures are auto-fixable by substitution.
func (c *QualityChecker) checkColors(page *PrintPage, scene *Scene) []QualityWarning {
	var warnings []QualityWarning
	for _, fill := range scene.Fills() {
		rgb, err := HexToRGB(fill)
		if err != nil {
			continue
		}
		for _, problem := range DetectPrintProblems(rgb) {
			w := QualityWarning{
				Code:        WarnColorGamut,
				Severity:    SeverityLow,
				Page:        page.PageNumber,
				Message:     problem,
				AutoFixable: false,
			}
			// Gamut failures can be fixed by substituting the round-trip
			// color; the ink-coverage advisory cannot.
			if strings.Contains(problem, "gamut") {
				w.Severity = SeverityMedium
				w.AutoFixable = true
			}
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// checkImages flags structurally broken image objects: a placed image with
// no source pixel data cannot be rasterized.
func (c *QualityChecker) checkImages(page *PrintPage, scene *Scene) []QualityError {
	var errs []QualityError
	for _, obj := range scene.Objects {
		if obj.Type != ObjectImage {
			continue
		}
		if obj.SourceWidthPx < 0 || obj.SourceHeightPx < 0 ||
			(obj.SourceURL != "" && (obj.SourceWidthPx == 0 || obj.SourceHeightPx == 0)) {
			errs = append(errs, QualityError{
				Code:    ErrCorruptImage,
				Page:    page.PageNumber,
				Message: fmt.Sprintf("image %s reports no source pixel dimensions", obj.SourceURL),
			})
		}
	}
	return errs
}

func truncateText(s string) string {
	const max = 24
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
