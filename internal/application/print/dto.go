package print

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/bookpress/backend/internal/domain/print"
)

// ErrQualityCheckFailed is returned when a job fails its quality gate and
// auto-fix is disabled or insufficient. The result still carries the report.
var ErrQualityCheckFailed = errors.New("print job failed quality checks")

var validate = validator.New()

// PrintJobConfig is the full input of one pipeline run
type PrintJobConfig struct {
	ProjectID    string                  `json:"project_id" validate:"required"`
	Title        string                  `json:"title" validate:"max=200"`
	Product      print.PrintProduct      `json:"product"`
	Pages        []print.PrintPage       `json:"pages" validate:"required,min=1"`
	Cover        *print.CoverDesign      `json:"cover,omitempty"`
	ColorProfile print.PrintColorProfile `json:"color_profile"`

	// QualityChecks gates PDF generation on the quality report
	QualityChecks bool `json:"quality_checks"`
	// AutoFix applies correctable fixes before re-checking
	AutoFix bool `json:"auto_fix"`
}

// Validate checks structural constraints, then the product contract
func (c *PrintJobConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Product.Validate()
}

// PreviewThumbnail is one soft-proofed page image
type PreviewThumbnail struct {
	Label string `json:"label"`
	PNG   []byte `json:"-"`
}

// PrintPreview is the soft-proof output of the previewing stage
type PrintPreview struct {
	Profile    print.PrintColorProfile `json:"profile"`
	Thumbnails []PreviewThumbnail      `json:"thumbnails"`
}

// PrintJobResult is the outcome of one pipeline run. Stage records how far
// the run progressed; on quality failure the report is still populated.
type PrintJobResult struct {
	JobID        string                   `json:"job_id"`
	Stage        print.JobStage           `json:"stage"`
	Quality      *print.PrintQualityCheck `json:"quality,omitempty"`
	Preview      *PrintPreview            `json:"preview,omitempty"`
	PDFData      []byte                   `json:"-"`
	PageCount    int                      `json:"page_count"`
	SpineWidthMm float64                  `json:"spine_width_mm"`
	OutputKey    string                   `json:"output_key,omitempty"`
	OutputURL    string                   `json:"output_url,omitempty"`
}

// SubmitOrderRequest routes a finished print file to a fulfillment provider
type SubmitOrderRequest struct {
	Provider  print.ProviderCode `json:"provider"`
	ProjectID string             `json:"project_id" validate:"required"`
	Attempt   int                `json:"attempt" validate:"min=0"`
	ProductID string             `json:"product_id" validate:"required"`
	Quantity  int                `json:"quantity" validate:"min=1"`
	FileURL   string             `json:"file_url" validate:"required,url"`
	Recipient print.Recipient    `json:"recipient"`
	// Confirm releases the order into production immediately after creation
	Confirm bool `json:"confirm"`
}

// Validate checks structural constraints, then the recipient
func (r *SubmitOrderRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Recipient.Validate()
}
