package pdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"time"

	"github.com/bookpress/backend/internal/domain/print"
)

// StubRenderer rasterizes scenes without a browser: solid fills only, no
// text or remote images. It exists for tests and for environments without a
// Chrome binary; production rendering uses ChromedpRenderer.
type StubRenderer struct{}

// NewStubRenderer creates a flat-fill renderer
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

// RenderPNG rasterizes the scene's background and object fills as flat
// rectangles at the requested resolution.
func (r *StubRenderer) RenderPNG(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "page rasterization was cancelled", err)
	}

	startTime := time.Now()
	widthPx, heightPx := req.WidthPx(), req.HeightPx()

	img := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(fillColor(req.Scene.BackgroundFill, color.White)), image.Point{}, draw.Src)

	for _, obj := range req.Scene.Objects {
		var c color.Color
		switch {
		case obj.Type == print.ObjectText:
			continue
		case obj.Fill != "":
			c = fillColor(obj.Fill, color.Black)
		case obj.Type == print.ObjectImage:
			c = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
		default:
			continue
		}
		rect := image.Rect(
			r.toPx(obj.X-req.Viewport.X, req.DPI),
			r.toPx(obj.Y-req.Viewport.Y, req.DPI),
			r.toPx(obj.X+obj.Width-req.Viewport.X, req.DPI),
			r.toPx(obj.Y+obj.Height-req.Viewport.Y, req.DPI),
		)
		draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "PNG encoding failed", err)
	}

	return &RenderResult{
		PNGData:        buf.Bytes(),
		RenderDuration: time.Since(startTime),
	}, nil
}

// Close is a no-op; the stub holds no resources
func (r *StubRenderer) Close() error { return nil }

func (r *StubRenderer) toPx(mm float64, dpi int) int {
	return roundPx(print.MmToPixels(mm, dpi))
}

func fillColor(fill string, fallback color.Color) color.Color {
	rgb, err := print.HexToRGB(fill)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 0xff}
}

// Ensure StubRenderer implements CanvasRenderer
var _ CanvasRenderer = (*StubRenderer)(nil)
