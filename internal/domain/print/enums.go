package print

// PageKind identifies the role of a page within a print job
type PageKind string

const (
	PageKindCoverFront PageKind = "COVER_FRONT"
	PageKindCoverBack  PageKind = "COVER_BACK"
	PageKindSpread     PageKind = "SPREAD"
	PageKindSingle     PageKind = "SINGLE"
)

// IsValid checks if the PageKind is a valid value
func (k PageKind) IsValid() bool {
	switch k {
	case PageKindCoverFront, PageKindCoverBack, PageKindSpread, PageKindSingle:
		return true
	}
	return false
}

// String returns the string representation of PageKind
func (k PageKind) String() string {
	return string(k)
}

// ColorSpace tags a color profile as CMYK or RGB
type ColorSpace string

const (
	ColorSpaceCMYK ColorSpace = "CMYK"
	ColorSpaceRGB  ColorSpace = "RGB"
)

// IsValid checks if the ColorSpace is a valid value
func (c ColorSpace) IsValid() bool {
	return c == ColorSpaceCMYK || c == ColorSpaceRGB
}

// RenderingIntent selects the simulation behavior of a color profile.
// It is informational only; no ICC transform is performed.
type RenderingIntent string

const (
	IntentPerceptual           RenderingIntent = "PERCEPTUAL"
	IntentRelativeColorimetric RenderingIntent = "RELATIVE_COLORIMETRIC"
	IntentSaturation           RenderingIntent = "SATURATION"
	IntentAbsoluteColorimetric RenderingIntent = "ABSOLUTE_COLORIMETRIC"
)

// PaperType represents the paper stock of a product
type PaperType string

const (
	PaperMatte170    PaperType = "MATTE_170"
	PaperSilk150     PaperType = "SILK_150"
	PaperGloss200    PaperType = "GLOSS_200"
	PaperUncoated120 PaperType = "UNCOATED_120"
)

// IsValid checks if the PaperType is a valid value
func (p PaperType) IsValid() bool {
	switch p {
	case PaperMatte170, PaperSilk150, PaperGloss200, PaperUncoated120:
		return true
	}
	return false
}

// String returns the string representation of PaperType
func (p PaperType) String() string {
	return string(p)
}

// SheetThicknessMm returns the thickness of a single sheet in millimeters.
// Values follow common caliper figures for coated/uncoated stock at the
// given grammage.
func (p PaperType) SheetThicknessMm() float64 {
	switch p {
	case PaperMatte170:
		return 0.19
	case PaperSilk150:
		return 0.15
	case PaperGloss200:
		return 0.21
	case PaperUncoated120:
		return 0.15
	default:
		return 0.19
	}
}

// CoverType represents the cover construction of a product
type CoverType string

const (
	CoverHardcover CoverType = "HARDCOVER"
	CoverSoftcover CoverType = "SOFTCOVER"
	CoverLayflat   CoverType = "LAYFLAT"
)

// IsValid checks if the CoverType is a valid value
func (c CoverType) IsValid() bool {
	switch c {
	case CoverHardcover, CoverSoftcover, CoverLayflat:
		return true
	}
	return false
}

// BindingType represents how pages are bound
type BindingType string

const (
	BindingPerfect      BindingType = "PERFECT"
	BindingSaddleStitch BindingType = "SADDLE_STITCH"
	BindingLayflat      BindingType = "LAYFLAT"
)

// IsValid checks if the BindingType is a valid value
func (b BindingType) IsValid() bool {
	switch b {
	case BindingPerfect, BindingSaddleStitch, BindingLayflat:
		return true
	}
	return false
}

// ProviderCode identifies a fulfillment provider
type ProviderCode string

const (
	ProviderLumaprints ProviderCode = "LUMAPRINTS"
	ProviderGelaprint  ProviderCode = "GELAPRINT"
)

// IsValid checks if the ProviderCode is a valid value
func (p ProviderCode) IsValid() bool {
	return p == ProviderLumaprints || p == ProviderGelaprint
}

// String returns the string representation of ProviderCode
func (p ProviderCode) String() string {
	return string(p)
}

// OrderStatus represents the internal order lifecycle. Transitions are
// provider-reported, not pipeline-driven.
type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "DRAFT"
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusPrinting   OrderStatus = "PRINTING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusFailed     OrderStatus = "FAILED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// IsValid checks if the OrderStatus is a valid value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusProcessing,
		OrderStatusPrinting, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true if this is a terminal status (no further transitions)
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusFailed || s == OrderStatusCancelled
}

// rank orders the forward progression of the lifecycle. Terminal failure
// states have no rank; they are reachable from any non-terminal state.
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusDraft:
		return 0
	case OrderStatusPending:
		return 1
	case OrderStatusProcessing:
		return 2
	case OrderStatusPrinting:
		return 3
	case OrderStatusShipped:
		return 4
	case OrderStatusDelivered:
		return 5
	}
	return -1
}

// CanTransitionTo checks if the status can transition to the target status.
// The lifecycle only moves forward; CANCELLED and FAILED are reachable from
// any non-terminal state and are terminal themselves.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled || target == OrderStatusFailed {
		return true
	}
	sr, tr := s.rank(), target.rank()
	return sr >= 0 && tr >= 0 && tr > sr
}

// JobStage represents the progression of one pipeline run
type JobStage string

const (
	StageValidating JobStage = "VALIDATING"
	StageFixing     JobStage = "FIXING"
	StagePreviewing JobStage = "PREVIEWING"
	StageRendering  JobStage = "RENDERING"
	StageRendered   JobStage = "RENDERED"
	StageSubmitting JobStage = "SUBMITTING"
	StageTracking   JobStage = "TRACKING"
)

// String returns the string representation of JobStage
func (s JobStage) String() string {
	return string(s)
}
