package pdf

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookpress/backend/internal/domain/print"
)

func TestStubRenderer_RenderPNG(t *testing.T) {
	renderer := NewStubRenderer()
	req := &RenderRequest{
		Scene: &print.Scene{
			BackgroundFill: "#336699",
			Objects: []print.Drawable{
				{Type: print.ObjectShape, X: 10, Y: 10, Width: 20, Height: 20, Fill: "#c89632"},
				{Type: print.ObjectText, X: 5, Y: 35, Width: 20, Height: 5, Text: "ignored"},
			},
		},
		Viewport: print.Box{X: -3, Y: -3, Width: 56, Height: 46},
		DPI:      150,
	}

	result, err := renderer.RenderPNG(context.Background(), req)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(result.PNGData))
	require.NoError(t, err)
	assert.Equal(t, req.WidthPx(), img.Bounds().Dx())
	assert.Equal(t, req.HeightPx(), img.Bounds().Dy())

	// Top-left pixel sits in the bleed and carries the background fill
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0x33), r>>8)
	assert.Equal(t, uint32(0x66), g>>8)
	assert.Equal(t, uint32(0x99), b>>8)

	// A pixel inside the shape carries the shape fill. The shape's top-left
	// corner (10,10)mm maps to (13,13)mm from the viewport origin.
	cx := renderer.toPx(13+10, req.DPI)
	cy := renderer.toPx(13+10, req.DPI)
	r, g, b, _ = img.At(cx, cy).RGBA()
	assert.Equal(t, uint32(0xc8), r>>8)
	assert.Equal(t, uint32(0x96), g>>8)
	assert.Equal(t, uint32(0x32), b>>8)
}

func TestStubRenderer_Validation(t *testing.T) {
	renderer := NewStubRenderer()
	ctx := context.Background()

	_, err := renderer.RenderPNG(ctx, nil)
	assert.Error(t, err)

	_, err = renderer.RenderPNG(ctx, &RenderRequest{Scene: &print.Scene{}, DPI: 150})
	require.Error(t, err)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, ErrCodeInvalidViewport, rerr.Code)
}

func TestStubRenderer_CancelledContext(t *testing.T) {
	renderer := NewStubRenderer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := renderer.RenderPNG(ctx, &RenderRequest{
		Scene:    &print.Scene{},
		Viewport: print.Box{Width: 10, Height: 10},
		DPI:      150,
	})
	assert.Error(t, err)
}
