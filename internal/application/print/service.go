// Package print orchestrates the production pipeline: quality gate,
// optional auto-fix, soft-proof previews, PDF generation and handoff to a
// fulfillment provider. The run is synchronous; stages execute in order and
// the caller owns retries.
package print

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookpress/backend/internal/domain/print"
	"github.com/bookpress/backend/internal/domain/shared"
	"github.com/bookpress/backend/internal/infrastructure/pdf"
	"github.com/bookpress/backend/internal/infrastructure/providers"
	"github.com/bookpress/backend/internal/infrastructure/storage"
)

// previewDPI keeps soft-proof thumbnails small; print output uses the
// product's own DPI.
const previewDPI = 96

// PrintJobService runs print jobs end to end and routes finished files to
// fulfillment providers.
type PrintJobService struct {
	generator *pdf.Generator
	renderer  pdf.CanvasRenderer
	storage   storage.PrintFileStorage
	registry  *providers.Registry
	logger    *zap.Logger
}

// NewPrintJobService creates the orchestrator. Storage may be nil when the
// caller handles the produced bytes itself.
func NewPrintJobService(
	generator *pdf.Generator,
	renderer pdf.CanvasRenderer,
	fileStorage storage.PrintFileStorage,
	registry *providers.Registry,
	logger *zap.Logger,
) *PrintJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrintJobService{
		generator: generator,
		renderer:  renderer,
		storage:   fileStorage,
		registry:  registry,
		logger:    logger,
	}
}

// RunJob executes the pipeline for one job. On quality failure with auto-fix
// disabled the returned result carries the report alongside
// ErrQualityCheckFailed; no PDF is produced in that case.
func (s *PrintJobService) RunJob(ctx context.Context, config *PrintJobConfig) (*PrintJobResult, error) {
	result := &PrintJobResult{
		JobID: uuid.New().String(),
		Stage: print.StageValidating,
	}

	if err := config.Validate(); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("print job started",
		zap.String("job_id", result.JobID),
		zap.String("project_id", config.ProjectID),
		zap.Int("pages", len(config.Pages)))

	pages := config.Pages
	if config.QualityChecks {
		report, err := s.checkQuality(ctx, config.Product, pages, config.Cover)
		if err != nil {
			return result, err
		}

		if config.AutoFix && hasFixableWarnings(report) {
			result.Stage = print.StageFixing
			fixed, remaining, err := print.ApplyAutoFixes(pages, config.Product, report.Warnings)
			if err != nil {
				return result, err
			}
			s.logger.Info("auto-fix applied",
				zap.String("job_id", result.JobID),
				zap.Int("warnings_before", len(report.Warnings)),
				zap.Int("warnings_remaining", len(remaining)))
			pages = fixed

			report, err = s.checkQuality(ctx, config.Product, pages, config.Cover)
			if err != nil {
				return result, err
			}
		}

		result.Quality = report
		if !report.Passed {
			s.logger.Warn("print job failed quality gate",
				zap.String("job_id", result.JobID),
				zap.Int("score", report.Score),
				zap.Int("errors", len(report.Errors)))
			return result, ErrQualityCheckFailed
		}
	}

	result.Stage = print.StagePreviewing
	if err := ctx.Err(); err != nil {
		return result, err
	}
	preview, err := s.buildPreview(ctx, config, pages)
	if err != nil {
		return result, err
	}
	result.Preview = preview

	result.Stage = print.StageRendering
	if err := ctx.Err(); err != nil {
		return result, err
	}
	generated, err := s.generator.Generate(ctx, &pdf.GenerateRequest{
		Product: config.Product,
		Pages:   pages,
		Cover:   config.Cover,
		Title:   config.Title,
	})
	if err != nil {
		return result, err
	}
	result.PDFData = generated.PDFData
	result.PageCount = generated.PageCount
	result.SpineWidthMm = generated.SpineWidthMm

	if s.storage != nil {
		stored, err := s.storage.Store(ctx, &storage.StoreRequest{
			ProjectID: config.ProjectID,
			JobID:     result.JobID,
			PDFData:   generated.PDFData,
		})
		if err != nil {
			return result, err
		}
		result.OutputKey = stored.Key
		result.OutputURL = stored.URL
	}

	result.Stage = print.StageRendered
	s.logger.Info("print job finished",
		zap.String("job_id", result.JobID),
		zap.Int("pdf_pages", result.PageCount),
		zap.Int("pdf_bytes", len(result.PDFData)))
	return result, nil
}

func hasFixableWarnings(report *print.PrintQualityCheck) bool {
	for _, w := range report.Warnings {
		if w.AutoFixable && !w.Fixed {
			return true
		}
	}
	return false
}

// checkQuality runs the checker over interior pages plus cover faces
func (s *PrintJobService) checkQuality(ctx context.Context, product print.PrintProduct, pages []print.PrintPage, cover *print.CoverDesign) (*print.PrintQualityCheck, error) {
	all := pages
	if cover != nil {
		all = append(append([]print.PrintPage{}, pages...), cover.Faces()...)
	}

	checker := print.NewQualityChecker(product)
	if err := checker.CheckAll(ctx, all); err != nil {
		return nil, err
	}
	report := checker.Result()
	return &report, nil
}

// buildPreview soft-proofs a representative sample: the front cover when
// present, the first interior page and the middle interior page.
func (s *PrintJobService) buildPreview(ctx context.Context, config *PrintJobConfig, pages []print.PrintPage) (*PrintPreview, error) {
	if s.renderer == nil {
		return &PrintPreview{Profile: config.ColorProfile}, nil
	}

	type sample struct {
		label string
		page  print.PrintPage
	}
	var samples []sample
	if config.Cover != nil && config.Cover.Front != nil {
		samples = append(samples, sample{"cover-front", *config.Cover.Front})
	}
	samples = append(samples, sample{"page-1", pages[0]})
	if len(pages) > 2 {
		mid := len(pages) / 2
		samples = append(samples, sample{fmt.Sprintf("page-%d", mid+1), pages[mid]})
	}

	sim := print.NewSimulator(config.ColorProfile)
	preview := &PrintPreview{Profile: config.ColorProfile}
	for _, sm := range samples {
		scene, err := print.DecodeScene(sm.page.Scene)
		if err != nil {
			return nil, err
		}
		rendered, err := s.renderer.RenderPNG(ctx, &pdf.RenderRequest{
			Scene:    sim.SimulateScene(scene),
			Viewport: sm.page.BleedBox,
			DPI:      previewDPI,
		})
		if err != nil {
			return nil, err
		}
		preview.Thumbnails = append(preview.Thumbnails, PreviewThumbnail{
			Label: sm.label,
			PNG:   rendered.PNGData,
		})
	}
	return preview, nil
}

// SubmitOrder creates a fulfillment order for a finished print file and
// optionally confirms it into production.
func (s *PrintJobService) SubmitOrder(ctx context.Context, req *SubmitOrderRequest) (*print.PrintOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}

	order, err := provider.CreateOrder(ctx, &providers.CreateOrderRequest{
		ProjectID: req.ProjectID,
		Attempt:   req.Attempt,
		Recipient: req.Recipient,
		Items: []providers.OrderItem{
			{ProductID: req.ProductID, Quantity: req.Quantity, FileURL: req.FileURL, FileType: "pdf"},
		},
	})
	if err != nil {
		return nil, err
	}

	if req.Confirm {
		if err := provider.ConfirmOrder(ctx, order.ProviderOrderID); err != nil {
			return order, err
		}
	}

	s.logger.Info("fulfillment order submitted",
		zap.String("provider", string(req.Provider)),
		zap.String("provider_order_id", order.ProviderOrderID),
		zap.Bool("confirmed", req.Confirm))
	return order, nil
}

// TrackOrder refreshes an order from its provider. Status only moves
// forward; a provider view behind our own is kept, not applied. Tracking
// details are attached once the order has shipped.
func (s *PrintJobService) TrackOrder(ctx context.Context, order *print.PrintOrder) error {
	provider, err := s.registry.Get(order.Provider)
	if err != nil {
		return err
	}

	remote, err := provider.GetOrder(ctx, order.ProviderOrderID)
	if err != nil {
		return err
	}

	if err := order.ApplyStatus(remote.Status); err != nil {
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "INVALID_STATE" {
			return err
		}
		s.logger.Debug("stale provider status ignored",
			zap.String("provider_order_id", order.ProviderOrderID),
			zap.String("local", order.Status.String()),
			zap.String("remote", remote.Status.String()))
	}
	if remote.Cost != nil && order.Cost == nil {
		order.SetCost(*remote.Cost)
	}

	if order.Status == print.OrderStatusShipped && order.Tracking == nil {
		info, err := provider.Track(ctx, order.ProviderOrderID)
		if err != nil {
			s.logger.Warn("tracking lookup failed",
				zap.String("provider_order_id", order.ProviderOrderID),
				zap.Error(err))
			return nil
		}
		order.SetTracking(*info)
	}
	return nil
}

// CancelOrder cancels an order with its provider and records the terminal
// state locally.
func (s *PrintJobService) CancelOrder(ctx context.Context, order *print.PrintOrder) error {
	provider, err := s.registry.Get(order.Provider)
	if err != nil {
		return err
	}
	if err := provider.CancelOrder(ctx, order.ProviderOrderID); err != nil {
		return err
	}
	return order.ApplyStatus(print.OrderStatusCancelled)
}

// ListProducts returns the orderable catalog of one provider
func (s *PrintJobService) ListProducts(ctx context.Context, code print.ProviderCode) ([]providers.ProviderProduct, error) {
	provider, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return provider.ListProducts(ctx)
}

// QuoteShipping returns a cost estimate when the provider supports quoting
func (s *PrintJobService) QuoteShipping(ctx context.Context, req *SubmitOrderRequest) (*print.OrderCost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	provider, err := s.registry.Get(req.Provider)
	if err != nil {
		return nil, err
	}
	quoter, ok := provider.(providers.ShippingQuoter)
	if !ok {
		return nil, fmt.Errorf("provider %s does not quote shipping", req.Provider)
	}
	return quoter.QuoteShipping(ctx, &providers.CreateOrderRequest{
		ProjectID: req.ProjectID,
		Attempt:   req.Attempt,
		Recipient: req.Recipient,
		Items: []providers.OrderItem{
			{ProductID: req.ProductID, Quantity: req.Quantity, FileURL: req.FileURL, FileType: "pdf"},
		},
	})
}
