package print

import "sort"

// Severity grades a quality warning
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// scorePenalty is the score deduction for a warning of this severity
func (s Severity) scorePenalty() int {
	switch s {
	case SeverityHigh:
		return 10
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	default:
		return 0
	}
}

// WarningCode identifies a non-blocking quality finding
type WarningCode string

const (
	WarnLowResolution   WarningCode = "LOW_RESOLUTION"
	WarnColorGamut      WarningCode = "COLOR_GAMUT"
	WarnBleedMissing    WarningCode = "BLEED_MISSING"
	WarnMarginViolation WarningCode = "MARGIN_VIOLATION"
	WarnTransparency    WarningCode = "TRANSPARENCY"
)

// ErrorCode identifies a blocking quality finding
type ErrorCode string

const (
	ErrMissingBleed      ErrorCode = "MISSING_BLEED"
	ErrInvalidDimensions ErrorCode = "INVALID_DIMENSIONS"
	ErrColorMode         ErrorCode = "COLOR_MODE"
	ErrFontMissing       ErrorCode = "FONT_MISSING"
	ErrCorruptImage      ErrorCode = "CORRUPT_IMAGE"
)

// scorePenaltyPerError is the score deduction for each blocking error
const scorePenaltyPerError = 20

// QualityWarning is a non-blocking finding. Auto-fixable warnings are
// resolved silently when the job runs with autoFix; Fixed records that.
type QualityWarning struct {
	Code        WarningCode `json:"code"`
	Severity    Severity    `json:"severity"`
	Page        int         `json:"page"`
	Message     string      `json:"message"`
	AutoFixable bool        `json:"auto_fixable"`
	Fixed       bool        `json:"fixed,omitempty"`
}

// QualityError is a blocking finding with the page number attached. It is
// always fatal to PDF generation.
type QualityError struct {
	Code    ErrorCode `json:"code"`
	Page    int       `json:"page"`
	Message string    `json:"message"`
}

func (e QualityError) Error() string { return e.Message }

// PrintQualityCheck is the accumulated report of one job run
type PrintQualityCheck struct {
	Passed   bool             `json:"passed"`
	Warnings []QualityWarning `json:"warnings"`
	Errors   []QualityError   `json:"errors"`
	Score    int              `json:"score"`
}

// ComputeScore starts at 100 and subtracts 20 per blocking error, 10 per
// high warning, 5 per medium and 2 per low, clamped to [0,100].
func ComputeScore(errors []QualityError, warnings []QualityWarning) int {
	score := 100
	score -= len(errors) * scorePenaltyPerError
	for _, w := range warnings {
		score -= w.Severity.scorePenalty()
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// newQualityCheck builds a report with deterministic ordering: findings are
// sorted by page, then code.
func newQualityCheck(errors []QualityError, warnings []QualityWarning) PrintQualityCheck {
	sort.SliceStable(errors, func(i, j int) bool {
		if errors[i].Page != errors[j].Page {
			return errors[i].Page < errors[j].Page
		}
		return errors[i].Code < errors[j].Code
	})
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Page != warnings[j].Page {
			return warnings[i].Page < warnings[j].Page
		}
		return warnings[i].Code < warnings[j].Code
	})
	return PrintQualityCheck{
		Passed:   len(errors) == 0,
		Warnings: warnings,
		Errors:   errors,
		Score:    ComputeScore(errors, warnings),
	}
}
