package pdf

import (
	"context"
	"time"

	"github.com/bookpress/backend/internal/domain/print"
)

// RenderRequest contains the parameters for rasterizing one page face
type RenderRequest struct {
	// Scene is the drawable content of the page
	Scene *print.Scene
	// Viewport is the region to rasterize in scene millimeters, normally
	// the page's bleed box
	Viewport print.Box
	// DPI is the output raster resolution
	DPI int
	// Timeout overrides the renderer's default timeout
	Timeout time.Duration
}

// RenderResult contains the output of one rasterization
type RenderResult struct {
	// PNGData is the raw PNG image content
	PNGData []byte
	// RenderDuration is how long the rasterization took
	RenderDuration time.Duration
}

// WidthPx returns the raster width of the request in pixels
func (r *RenderRequest) WidthPx() int {
	return roundPx(print.MmToPixels(r.Viewport.Width, r.DPI))
}

// HeightPx returns the raster height of the request in pixels
func (r *RenderRequest) HeightPx() int {
	return roundPx(print.MmToPixels(r.Viewport.Height, r.DPI))
}

func roundPx(v float64) int {
	return int(v + 0.5)
}

// CanvasRenderer defines the interface for rasterizing page scenes
type CanvasRenderer interface {
	// RenderPNG rasterizes one page face to a PNG image
	RenderPNG(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during rasterization or PDF assembly
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidScene    = "INVALID_SCENE"
	ErrCodeInvalidViewport = "INVALID_VIEWPORT"
	ErrCodeAssemblyFailed  = "ASSEMBLY_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// validateRequest checks the fields every renderer needs
func validateRequest(req *RenderRequest) error {
	if req == nil || req.Scene == nil {
		return NewRenderError(ErrCodeInvalidScene, "render request has no scene", nil)
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		return NewRenderError(ErrCodeInvalidViewport, "render viewport has no area", nil)
	}
	if req.DPI <= 0 {
		return NewRenderError(ErrCodeInvalidViewport, "render DPI must be positive", nil)
	}
	return nil
}
