package print

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct() PrintProduct {
	return PrintProduct{
		Provider:    ProviderLumaprints,
		ProductType: "photobook",
		Variant:     "8x8-hardcover",
		Dimensions:  DimensionsSquare8x8,
		PageCount:   24,
		Paper:       PaperMatte170,
		Cover:       CoverHardcover,
		Binding:     BindingPerfect,
	}
}

func sceneJSON(t *testing.T, s Scene) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	return raw
}

func pageWithScene(t *testing.T, number int, s Scene) PrintPage {
	t.Helper()
	p, err := NewPrintPage(number, PageKindSingle, sceneJSON(t, s), DimensionsSquare8x8)
	require.NoError(t, err)
	return *p
}

func findWarnings(report PrintQualityCheck, code WarningCode) []QualityWarning {
	var out []QualityWarning
	for _, w := range report.Warnings {
		if w.Code == code {
			out = append(out, w)
		}
	}
	return out
}

func TestQualityChecker_CleanPage(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	page := pageWithScene(t, 1, Scene{
		BackgroundFill: "#336699",
		Objects: []Drawable{
			{Type: ObjectImage, X: 10, Y: 10, Width: 100, Height: 100,
				SourceWidthPx: 3000, SourceHeightPx: 3000, ScaleX: 0.2, ScaleY: 0.2, SourceURL: "photo.jpg"},
			{Type: ObjectText, X: 50, Y: 90, Width: 100, Height: 20, Text: "Summer 2025"},
		},
	})

	require.NoError(t, checker.CheckPage(&page))
	report := checker.Result()
	assert.True(t, report.Passed)
	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Warnings)
	assert.Empty(t, report.Errors)
}

func TestQualityChecker_Resolution(t *testing.T) {
	tests := []struct {
		name         string
		scale        float64
		wantSeverity Severity
		wantWarning  bool
	}{
		{"sharp at 360dpi", 0.2, "", false},
		{"soft at 240dpi", 0.3, SeverityMedium, true},
		{"blurry at 144dpi", 0.5, SeverityHigh, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewQualityChecker(testProduct())
			page := pageWithScene(t, 1, Scene{Objects: []Drawable{
				{Type: ObjectImage, X: 10, Y: 10, Width: 100, Height: 100,
					SourceWidthPx: 2000, SourceHeightPx: 2000,
					ScaleX: tt.scale, ScaleY: tt.scale, SourceURL: "photo.jpg"},
			}})

			require.NoError(t, checker.CheckPage(&page))
			warnings := findWarnings(checker.Result(), WarnLowResolution)
			if !tt.wantWarning {
				assert.Empty(t, warnings)
				return
			}
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.wantSeverity, warnings[0].Severity)
			assert.False(t, warnings[0].AutoFixable)
		})
	}
}

func TestQualityChecker_Bleed(t *testing.T) {
	product := testProduct()

	t.Run("absent bleed box blocks", func(t *testing.T) {
		checker := NewQualityChecker(product)
		page := pageWithScene(t, 2, Scene{})
		page.BleedBox = Box{}

		require.NoError(t, checker.CheckPage(&page))
		report := checker.Result()
		assert.False(t, report.Passed)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, ErrMissingBleed, report.Errors[0].Code)
		assert.Equal(t, 2, report.Errors[0].Page)
	})

	t.Run("insufficient bleed warns and is fixable", func(t *testing.T) {
		checker := NewQualityChecker(product)
		shallow := product.Dimensions
		shallow.BleedMm = 1
		page, err := NewPrintPage(2, PageKindSingle, sceneJSON(t, Scene{}), shallow)
		require.NoError(t, err)

		require.NoError(t, checker.CheckPage(page))
		report := checker.Result()
		assert.True(t, report.Passed)
		warnings := findWarnings(report, WarnBleedMissing)
		require.Len(t, warnings, 1)
		assert.True(t, warnings[0].AutoFixable)
	})
}

func TestQualityChecker_SafeZone(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	page := pageWithScene(t, 3, Scene{Objects: []Drawable{
		{Type: ObjectText, X: 2, Y: 50, Width: 40, Height: 10, Text: "too close to the edge"},
		{Type: ObjectText, X: 50, Y: 50, Width: 40, Height: 10, Text: "safely inside"},
		{Type: ObjectShape, X: 1, Y: 1, Width: 10, Height: 10, Fill: "#336699"},
	}})

	require.NoError(t, checker.CheckPage(&page))
	warnings := findWarnings(checker.Result(), WarnMarginViolation)
	require.Len(t, warnings, 1, "shapes near the edge are fine, text is not")
	assert.Equal(t, SeverityMedium, warnings[0].Severity)
	assert.False(t, warnings[0].AutoFixable)
}

func TestQualityChecker_Colors(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	page := pageWithScene(t, 4, Scene{
		BackgroundFill: "#00ffff",
		Objects: []Drawable{
			{Type: ObjectShape, X: 10, Y: 10, Width: 50, Height: 50, Fill: "#336699"},
		},
	})

	require.NoError(t, checker.CheckPage(&page))
	warnings := findWarnings(checker.Result(), WarnColorGamut)
	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityMedium, warnings[0].Severity)
	assert.True(t, warnings[0].AutoFixable)
}

func TestQualityChecker_CorruptImage(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	page := pageWithScene(t, 5, Scene{Objects: []Drawable{
		{Type: ObjectImage, X: 10, Y: 10, Width: 100, Height: 100, SourceURL: "broken.jpg"},
	}})

	require.NoError(t, checker.CheckPage(&page))
	report := checker.Result()
	assert.False(t, report.Passed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, ErrCorruptImage, report.Errors[0].Code)
}

func TestQualityChecker_InvalidScene(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	page, err := NewPrintPage(1, PageKindSingle, json.RawMessage(`{not json`), DimensionsSquare8x8)
	require.NoError(t, err)
	assert.Error(t, checker.CheckPage(page))
}

func TestQualityChecker_CheckAll(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	pages := make([]PrintPage, 0, 24)
	for i := 1; i <= 24; i++ {
		pages = append(pages, pageWithScene(t, i, Scene{
			BackgroundFill: "#e8e0d0",
			Objects: []Drawable{
				{Type: ObjectText, X: 50, Y: 100, Width: 80, Height: 12,
					Text: fmt.Sprintf("Page %d", i)},
			},
		}))
	}
	// One page with an out-of-gamut background
	pages[7] = pageWithScene(t, 8, Scene{BackgroundFill: "#ff0000"})

	require.NoError(t, checker.CheckAll(context.Background(), pages))
	report := checker.Result()
	assert.True(t, report.Passed)
	warnings := findWarnings(report, WarnColorGamut)
	require.Len(t, warnings, 1)
	assert.Equal(t, 8, warnings[0].Page)
	assert.Equal(t, 95, report.Score)
}

func TestQualityChecker_CheckAll_Cancelled(t *testing.T) {
	checker := NewQualityChecker(testProduct())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pages := []PrintPage{pageWithScene(t, 1, Scene{})}
	assert.Error(t, checker.CheckAll(ctx, pages))
}
