package print

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	blocking := QualityError{Code: ErrMissingBleed, Page: 1}
	high := QualityWarning{Code: WarnLowResolution, Severity: SeverityHigh, Page: 1}
	medium := QualityWarning{Code: WarnBleedMissing, Severity: SeverityMedium, Page: 2}
	low := QualityWarning{Code: WarnColorGamut, Severity: SeverityLow, Page: 3}

	tests := []struct {
		name     string
		errors   []QualityError
		warnings []QualityWarning
		want     int
	}{
		{"clean", nil, nil, 100},
		{"one blocking error", []QualityError{blocking}, nil, 80},
		{"error plus high warning", []QualityError{blocking}, []QualityWarning{high}, 70},
		{"one of each severity", nil, []QualityWarning{high, medium, low}, 83},
		{"clamped at zero", make([]QualityError, 6), nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeScore(tt.errors, tt.warnings))
		})
	}
}

func TestNewQualityCheck_Ordering(t *testing.T) {
	report := newQualityCheck(
		[]QualityError{
			{Code: ErrCorruptImage, Page: 3},
			{Code: ErrMissingBleed, Page: 1},
		},
		[]QualityWarning{
			{Code: WarnMarginViolation, Page: 2},
			{Code: WarnBleedMissing, Page: 2},
			{Code: WarnLowResolution, Page: 1},
		},
	)

	assert.False(t, report.Passed)
	assert.Equal(t, 1, report.Errors[0].Page)
	assert.Equal(t, 3, report.Errors[1].Page)
	assert.Equal(t, WarnLowResolution, report.Warnings[0].Code)
	assert.Equal(t, WarnBleedMissing, report.Warnings[1].Code, "same page sorts by code")
	assert.Equal(t, WarnMarginViolation, report.Warnings[2].Code)
}

func TestNewQualityCheck_PassedIgnoresWarnings(t *testing.T) {
	report := newQualityCheck(nil, []QualityWarning{
		{Code: WarnLowResolution, Severity: SeverityHigh, Page: 1},
		{Code: WarnMarginViolation, Severity: SeverityMedium, Page: 1},
	})
	assert.True(t, report.Passed, "warnings alone never fail a check")
	assert.Equal(t, 85, report.Score)
}
