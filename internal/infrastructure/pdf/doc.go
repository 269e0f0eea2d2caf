// Package pdf turns page scenes into print-ready PDF files. Scenes are
// rasterized to PNG by a CanvasRenderer (Chrome DevTools in production, a
// flat-fill rasterizer in tests), then combined into spreads and a wrap
// cover by the Generator.
package pdf
