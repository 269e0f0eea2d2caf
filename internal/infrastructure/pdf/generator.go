package pdf

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookpress/backend/internal/domain/print"
)

// GeneratorConfig contains configuration for the PDF generator
type GeneratorConfig struct {
	// Concurrency bounds parallel page rasterization (default: CPU count)
	Concurrency int
	// PageTimeout is the per-face rasterization timeout passed to the renderer
	PageTimeout time.Duration
	// Logger for progress output
	Logger *zap.Logger
}

// GenerateRequest describes one print file to produce
type GenerateRequest struct {
	Product print.PrintProduct
	Pages   []print.PrintPage
	Cover   *print.CoverDesign
	Title   string
}

// GenerateResult is the produced print file
type GenerateResult struct {
	PDFData      []byte
	PageCount    int
	SpineWidthMm float64
}

// Generator combines rasterized page faces into a single print-ready PDF:
// a wrap cover sheet followed by two-page spreads in page order. Faces are
// rasterized in parallel; assembly is sequential because page order matters.
type Generator struct {
	renderer    CanvasRenderer
	logger      *zap.Logger
	concurrency int
	pageTimeout time.Duration
}

// NewGenerator creates a generator on top of a canvas renderer
func NewGenerator(renderer CanvasRenderer, config *GeneratorConfig) *Generator {
	if config == nil {
		config = &GeneratorConfig{}
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		renderer:    renderer,
		logger:      logger,
		concurrency: concurrency,
		pageTimeout: config.PageTimeout,
	}
}

// face is one rasterization unit: a scene, the region of it to rasterize,
// and where the raster lands on its PDF sheet.
type face struct {
	scene    *print.Scene
	viewport print.Box
	xPt      float64 // placement on the sheet
	wPt      float64
	hPt      float64
	png      []byte
}

// sheet is one PDF page: its size in points and the faces placed on it
type sheet struct {
	widthPt  float64
	heightPt float64
	faces    []*face
}

// Generate produces the print file for the request
func (g *Generator) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if err := req.Product.Validate(); err != nil {
		return nil, err
	}
	if len(req.Pages) == 0 {
		return nil, NewRenderError(ErrCodeInvalidScene, "print file needs at least one page", nil)
	}

	dims := req.Product.Dimensions
	spineWidth := g.spineWidth(req)

	var sheets []*sheet
	if req.Cover != nil && req.Cover.HasArtwork() {
		coverSheet, err := g.coverSheet(req.Cover, dims, spineWidth)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, coverSheet)
	}

	spreads := print.BuildSpreads(req.Pages, dims)
	for _, spread := range spreads {
		spreadSheet, err := g.spreadSheet(spread, dims)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, spreadSheet)
	}

	if err := g.renderFaces(ctx, sheets, dims.DPI); err != nil {
		return nil, err
	}

	pdfData, err := g.assemble(req.Title, sheets, dims.DPI)
	if err != nil {
		return nil, err
	}

	g.logger.Info("print file generated",
		zap.Int("sheets", len(sheets)),
		zap.Int("spreads", len(spreads)),
		zap.Float64("spine_width_mm", spineWidth),
		zap.Int("bytes", len(pdfData)))

	return &GenerateResult{
		PDFData:      pdfData,
		PageCount:    len(sheets),
		SpineWidthMm: spineWidth,
	}, nil
}

func (g *Generator) spineWidth(req *GenerateRequest) float64 {
	if req.Cover != nil && req.Cover.SpineWidthMm > 0 {
		return req.Cover.SpineWidthMm
	}
	return print.CalculateSpineWidth(req.Product.PageCount, req.Product.Paper)
}

// spreadSheet lays out one two-page spread: both bleed-inclusive page
// rasters side by side, meeting at the gutter so the facing bleeds overlap
// the fold line.
func (g *Generator) spreadSheet(spread print.SpreadPage, dims print.PrintDimensions) (*sheet, error) {
	w, b := dims.WidthMm, dims.BleedMm
	pageWPt := print.MmToPoints(w + 2*b)
	heightPt := print.MmToPoints(dims.HeightMm + 2*b)

	left, err := g.pageFace(spread.Left, 0, pageWPt, heightPt)
	if err != nil {
		return nil, err
	}
	right, err := g.pageFace(spread.Right, pageWPt, pageWPt, heightPt)
	if err != nil {
		return nil, err
	}

	return &sheet{
		widthPt:  print.MmToPoints(2*w + 4*b),
		heightPt: heightPt,
		faces:    []*face{left, right},
	}, nil
}

// coverSheet lays out the wrap cover: back, spine and front left-to-right,
// or a single full-wrap face when one is supplied.
func (g *Generator) coverSheet(cover *print.CoverDesign, dims print.PrintDimensions, spineWidth float64) (*sheet, error) {
	w, h, b := dims.WidthMm, dims.HeightMm, dims.BleedMm
	sh := &sheet{
		widthPt:  print.MmToPoints(2*w + spineWidth + 2*b),
		heightPt: print.MmToPoints(h + 2*b),
	}

	if cover.Wrap != nil {
		// The wrap scene's origin is the back cover's trim corner; the
		// viewport spans the whole wrap including the far bleed.
		viewport := print.Box{X: -b, Y: -b, Width: 2*w + spineWidth + 2*b, Height: h + 2*b}
		f, err := g.sceneFace(cover.Wrap.Scene, viewport, 0, sh.widthPt, sh.heightPt)
		if err != nil {
			return nil, err
		}
		sh.faces = []*face{f}
		return sh, nil
	}

	faceWPt := print.MmToPoints(w + 2*b)
	if cover.Back != nil {
		f, err := g.pageFace(*cover.Back, 0, faceWPt, sh.heightPt)
		if err != nil {
			return nil, err
		}
		sh.faces = append(sh.faces, f)
	}
	if cover.Spine != nil {
		viewport := print.Box{X: 0, Y: -b, Width: spineWidth, Height: h + 2*b}
		f, err := g.sceneFace(cover.Spine.Scene, viewport,
			print.MmToPoints(w+b), print.MmToPoints(spineWidth), sh.heightPt)
		if err != nil {
			return nil, err
		}
		sh.faces = append(sh.faces, f)
	}
	if cover.Front != nil {
		f, err := g.pageFace(*cover.Front, print.MmToPoints(w+spineWidth), faceWPt, sh.heightPt)
		if err != nil {
			return nil, err
		}
		sh.faces = append(sh.faces, f)
	}
	return sh, nil
}

// pageFace rasterizes a page over its own bleed box
func (g *Generator) pageFace(page print.PrintPage, xPt, wPt, hPt float64) (*face, error) {
	viewport := page.BleedBox
	if viewport.IsZero() {
		viewport = page.TrimBox
	}
	return g.sceneFace(page.Scene, viewport, xPt, wPt, hPt)
}

func (g *Generator) sceneFace(raw []byte, viewport print.Box, xPt, wPt, hPt float64) (*face, error) {
	scene, err := print.DecodeScene(raw)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidScene, "page scene cannot be decoded", err)
	}
	return &face{scene: scene, viewport: viewport, xPt: xPt, wPt: wPt, hPt: hPt}, nil
}

// renderFaces rasterizes every face in parallel, bounded by the configured
// concurrency. Raster bytes are stored on the faces for assembly.
func (g *Generator) renderFaces(ctx context.Context, sheets []*sheet, dpi int) error {
	var faces []*face
	for _, sh := range sheets {
		faces = append(faces, sh.faces...)
	}

	rendered := make([][]byte, len(faces))
	g1, ctx := errgroup.WithContext(ctx)
	g1.SetLimit(g.concurrency)
	for i, f := range faces {
		i, f := i, f
		g1.Go(func() error {
			result, err := g.renderer.RenderPNG(ctx, &RenderRequest{
				Scene:    f.scene,
				Viewport: f.viewport,
				DPI:      dpi,
				Timeout:  g.pageTimeout,
			})
			if err != nil {
				return err
			}
			rendered[i] = result.PNGData
			return nil
		})
	}
	if err := g1.Wait(); err != nil {
		return err
	}
	for i, f := range faces {
		f.png = rendered[i]
	}
	return nil
}

// assemble combines the rasterized sheets into one PDF, cover first, then
// spreads in page order.
func (g *Generator) assemble(title string, sheets []*sheet, dpi int) ([]byte, error) {
	doc := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt"})
	if title != "" {
		doc.SetTitle(title, true)
	}
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	for si, sh := range sheets {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: sh.widthPt, Ht: sh.heightPt})
		for fi, f := range sh.faces {
			name := fmt.Sprintf("sheet%d_face%d@%ddpi", si, fi, dpi)
			doc.RegisterImageOptionsReader(name, opt, bytes.NewReader(f.png))
			doc.ImageOptions(name, f.xPt, 0, f.wPt, f.hPt, false, opt, 0, "")
		}
	}

	if doc.Err() {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "PDF assembly failed", doc.Error())
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeAssemblyFailed, "PDF serialization failed", err)
	}
	return buf.Bytes(), nil
}
