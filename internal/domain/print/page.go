package print

import (
	"encoding/json"

	"github.com/bookpress/backend/internal/domain/shared"
)

// MinSpineWidthMm is the floor below which a spine is not manufacturable
const MinSpineWidthMm = 2.0

// PrintPage is one exportable page: its number, role, opaque scene payload,
// and the three derived boxes. Pages are created once at export time and are
// immutable within a pipeline run; box corrections produce recomputed boxes,
// never in-place mutation.
type PrintPage struct {
	PageNumber int             `json:"page_number"`
	Kind       PageKind        `json:"kind"`
	Scene      json.RawMessage `json:"scene,omitempty"`
	BleedBox   Box             `json:"bleed_box"`
	TrimBox    Box             `json:"trim_box"`
	ArtBox     Box             `json:"art_box"`
}

// NewPrintPage creates a page with boxes derived from the product dimensions
func NewPrintPage(number int, kind PageKind, scene json.RawMessage, d PrintDimensions) (*PrintPage, error) {
	if number < 0 {
		return nil, shared.NewDomainError("INVALID_PAGE", "Page number cannot be negative")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAGE", "Invalid page kind: "+string(kind))
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &PrintPage{
		PageNumber: number,
		Kind:       kind,
		Scene:      scene,
		BleedBox:   CalculateBleedBox(d, true),
		TrimBox:    CalculateTrimBox(d),
		ArtBox:     CalculateArtBox(d, DefaultArtMarginMm),
	}, nil
}

// NewBlankPage synthesizes an empty page used to complete the final spread
// of odd-length page lists.
func NewBlankPage(number int, d PrintDimensions) PrintPage {
	return PrintPage{
		PageNumber: number,
		Kind:       PageKindSingle,
		Scene:      json.RawMessage(`{"objects":[]}`),
		BleedBox:   CalculateBleedBox(d, true),
		TrimBox:    CalculateTrimBox(d),
		ArtBox:     CalculateArtBox(d, DefaultArtMarginMm),
	}
}

// BleedMarginMm returns the bleed actually present on the page, derived from
// the box geometry.
func (p *PrintPage) BleedMarginMm() float64 {
	if p.BleedBox.IsZero() {
		return 0
	}
	return (p.BleedBox.Width - p.TrimBox.Width) / 2
}

// WithBleed returns a copy of the page whose boxes are recomputed at the
// given dimensions. Used by the bleed auto-fix; the original page is left
// untouched.
func (p *PrintPage) WithBleed(d PrintDimensions) PrintPage {
	fixed := *p
	fixed.BleedBox = CalculateBleedBox(d, true)
	fixed.TrimBox = CalculateTrimBox(d)
	fixed.ArtBox = CalculateArtBox(d, DefaultArtMarginMm)
	return fixed
}

// SpreadPage pairs two facing pages into one printable unit. Derived, never
// persisted.
type SpreadPage struct {
	Index int       `json:"index"`
	Left  PrintPage `json:"left"`
	Right PrintPage `json:"right"`
}

// BuildSpreads pairs pages (0,1), (2,3), ... in order. An odd final page is
// paired with a synthesized blank so every spread has two sides.
func BuildSpreads(pages []PrintPage, d PrintDimensions) []SpreadPage {
	if len(pages) == 0 {
		return nil
	}
	spreads := make([]SpreadPage, 0, (len(pages)+1)/2)
	for i := 0; i < len(pages); i += 2 {
		spread := SpreadPage{Index: i / 2, Left: pages[i]}
		if i+1 < len(pages) {
			spread.Right = pages[i+1]
		} else {
			spread.Right = NewBlankPage(pages[i].PageNumber+1, d)
		}
		spreads = append(spreads, spread)
	}
	return spreads
}

// CoverDesign holds the cover faces. Either a single full-wrap page is
// supplied, or the cover is composed from back + optional spine + front with
// the computed spine width between them.
type CoverDesign struct {
	Front        *PrintPage `json:"front,omitempty"`
	Back         *PrintPage `json:"back,omitempty"`
	Spine        *PrintPage `json:"spine,omitempty"`
	Wrap         *PrintPage `json:"wrap,omitempty"`
	SpineWidthMm float64    `json:"spine_width_mm"`
}

// Faces returns the cover pages that carry printable artwork, for quality
// checking.
func (c *CoverDesign) Faces() []PrintPage {
	var faces []PrintPage
	if c.Wrap != nil {
		return []PrintPage{*c.Wrap}
	}
	if c.Back != nil {
		faces = append(faces, *c.Back)
	}
	if c.Spine != nil {
		faces = append(faces, *c.Spine)
	}
	if c.Front != nil {
		faces = append(faces, *c.Front)
	}
	return faces
}

// HasArtwork reports whether the design carries anything to print
func (c *CoverDesign) HasArtwork() bool {
	return c.Wrap != nil || c.Front != nil || c.Back != nil
}

// CalculateSpineWidth derives the spine width from page count and paper
// stock: one sheet carries two pages. Thin books are floored at the minimum
// manufacturable spine.
func CalculateSpineWidth(pageCount int, paper PaperType) float64 {
	if pageCount < 0 {
		pageCount = 0
	}
	sheets := float64(pageCount) / 2.0
	width := sheets * paper.SheetThicknessMm()
	if width < MinSpineWidthMm {
		return MinSpineWidthMm
	}
	return width
}
