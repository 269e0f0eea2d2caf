package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookpress/backend/internal/domain/print"
)

func TestBuildSVG(t *testing.T) {
	scene := &print.Scene{
		BackgroundFill: "#336699",
		Objects: []print.Drawable{
			{Type: print.ObjectShape, X: 10, Y: 10, Width: 30, Height: 20, Fill: "#c89632"},
			{Type: print.ObjectText, X: 12, Y: 40, Width: 26, Height: 8,
				Text: "Tom & Jerry <3", FontSizePt: 14},
			{Type: print.ObjectImage, X: 0, Y: 0, Width: 50, Height: 30,
				SourceURL: "https://cdn.example.com/photo.jpg", SourceWidthPx: 2000, SourceHeightPx: 1200},
		},
	}
	viewport := print.Box{X: -3, Y: -3, Width: 56, Height: 46}

	svg := BuildSVG(scene, viewport, 331, 272)

	assert.Contains(t, svg, `width="331" height="272"`)
	assert.Contains(t, svg, `viewBox="-3 -3 56 46"`)
	assert.Contains(t, svg, `fill="#336699"`)
	assert.Contains(t, svg, `fill="#c89632"`)
	assert.Contains(t, svg, "Tom &amp; Jerry &lt;3", "text must be XML-escaped")
	assert.Contains(t, svg, `href="https://cdn.example.com/photo.jpg"`)
	assert.NotContains(t, svg, "Tom & Jerry")
}

func TestBuildSVG_Defaults(t *testing.T) {
	scene := &print.Scene{Objects: []print.Drawable{
		{Type: print.ObjectImage, X: 5, Y: 5, Width: 10, Height: 10},
		{Type: print.ObjectText, X: 5, Y: 20, Width: 20, Height: 5, Text: "hello"},
		{Type: print.ObjectShape, X: 0, Y: 0, Width: 10, Height: 10},
	}}
	svg := BuildSVG(scene, print.Box{Width: 50, Height: 50}, 100, 100)

	assert.Contains(t, svg, `fill="#ffffff"`, "empty background defaults to white")
	assert.Contains(t, svg, placeholderFill, "sourceless image draws a placeholder")
	assert.Contains(t, svg, `font-family="sans-serif"`)
	assert.Equal(t, 1, countSubstr(svg, `<rect x="0"`), "fill-less shapes are skipped")
}

func TestBuildSVG_Rotation(t *testing.T) {
	scene := &print.Scene{Objects: []print.Drawable{
		{Type: print.ObjectShape, X: 10, Y: 10, Width: 20, Height: 10, Fill: "#000000", Rotation: 45},
	}}
	svg := BuildSVG(scene, print.Box{Width: 50, Height: 50}, 100, 100)
	assert.Contains(t, svg, `transform="rotate(45 20 15)"`, "rotation pivots on the object center")
}

func countSubstr(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
