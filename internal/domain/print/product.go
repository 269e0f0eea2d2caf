package print

import "github.com/bookpress/backend/internal/domain/shared"

// PrintProduct is the manufacturing contract for one job: which provider
// variant to order and the physical make-up of the book.
type PrintProduct struct {
	Provider    ProviderCode    `json:"provider"`
	ProductType string          `json:"product_type"`
	Variant     string          `json:"variant"`
	Dimensions  PrintDimensions `json:"dimensions"`
	PageCount   int             `json:"page_count"`
	Paper       PaperType       `json:"paper"`
	Cover       CoverType       `json:"cover"`
	Binding     BindingType     `json:"binding"`
}

// Validate checks the product contract
func (p PrintProduct) Validate() error {
	if !p.Provider.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT", "Unknown provider: "+string(p.Provider))
	}
	if err := p.Dimensions.Validate(); err != nil {
		return err
	}
	if p.PageCount <= 0 {
		return shared.NewDomainError("INVALID_PRODUCT", "Page count must be positive")
	}
	if !p.Paper.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT", "Unknown paper type: "+string(p.Paper))
	}
	if !p.Cover.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT", "Unknown cover type: "+string(p.Cover))
	}
	if !p.Binding.IsValid() {
		return shared.NewDomainError("INVALID_PRODUCT", "Unknown binding type: "+string(p.Binding))
	}
	return nil
}

// RequiredBleedMm is the bleed the product's manufacturer expects on every page
func (p PrintProduct) RequiredBleedMm() float64 {
	return p.Dimensions.BleedMm
}

// Standard product dimensions shipped with the pipeline. Sizes are the trim
// sizes of the common photo-book formats; all carry 3mm bleed at 300 DPI.
var (
	DimensionsSquare8x8 = PrintDimensions{WidthMm: 203.2, HeightMm: 203.2, BleedMm: 3, DPI: 300}

	DimensionsSquare10x10 = PrintDimensions{WidthMm: 254, HeightMm: 254, BleedMm: 3, DPI: 300}

	DimensionsLandscape8x10 = PrintDimensions{WidthMm: 254, HeightMm: 203.2, BleedMm: 3, DPI: 300}

	DimensionsA4Portrait = PrintDimensions{WidthMm: 210, HeightMm: 297, BleedMm: 3, DPI: 300}
)

// StandardMargins is the default safe-zone preset, including the spine
// allowance for bound products.
var StandardMargins = PrintMargins{
	TopMm:    10,
	BottomMm: 10,
	LeftMm:   10,
	RightMm:  10,
	SpineMm:  15,
}

// StandardDimensions maps preset names to their dimensions
var StandardDimensions = map[string]PrintDimensions{
	"SQUARE_8X8":     DimensionsSquare8x8,
	"SQUARE_10X10":   DimensionsSquare10x10,
	"LANDSCAPE_8X10": DimensionsLandscape8x10,
	"A4_PORTRAIT":    DimensionsA4Portrait,
}
