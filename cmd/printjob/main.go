package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	printapp "github.com/bookpress/backend/internal/application/print"
	domainprint "github.com/bookpress/backend/internal/domain/print"
	"github.com/bookpress/backend/internal/infrastructure/config"
	"github.com/bookpress/backend/internal/infrastructure/logger"
	"github.com/bookpress/backend/internal/infrastructure/pdf"
	"github.com/bookpress/backend/internal/infrastructure/providers"
	"github.com/bookpress/backend/internal/infrastructure/storage"
)

func main() {
	var (
		outputPath string
		logLevel   string
	)
	flag.StringVar(&outputPath, "out", "", "Write the generated PDF to this path in addition to storage")
	flag.StringVar(&logLevel, "log-level", "", "Override the configured log level")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer, err := buildRenderer(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize renderer", zap.Error(err))
	}
	defer func() {
		_ = renderer.Close()
	}()

	fileStorage, err := buildStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize providers", zap.Error(err))
	}

	generator := pdf.NewGenerator(renderer, &pdf.GeneratorConfig{
		Concurrency: cfg.Render.Concurrency,
		PageTimeout: cfg.Render.Timeout,
		Logger:      log,
	})
	service := printapp.NewPrintJobService(generator, renderer, fileStorage, registry, log)

	switch command {
	case "run":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: printjob run <job.json>")
			os.Exit(1)
		}
		err = runJob(ctx, service, args[1], outputPath)
	case "products":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: printjob products <provider>")
			os.Exit(1)
		}
		err = listProducts(ctx, service, args[1])
	case "cleanup":
		err = cleanup(ctx, fileStorage, cfg, log)
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

func printUsage() {
	fmt.Println("Print production pipeline")
	fmt.Println()
	fmt.Println("Usage: printjob [flags] <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run <job.json>        Run a print job from a job description file")
	fmt.Println("  products <provider>   List the orderable catalog of a provider")
	fmt.Println("  cleanup               Remove stored print files past the retention window")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// runJob executes one pipeline run from a job description file. The quality
// report is printed as JSON regardless of outcome so a failed gate still
// shows its findings.
func runJob(ctx context.Context, service *printapp.PrintJobService, jobPath, outputPath string) error {
	raw, err := os.ReadFile(jobPath)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}
	var jobConfig printapp.PrintJobConfig
	if err := json.Unmarshal(raw, &jobConfig); err != nil {
		return fmt.Errorf("failed to parse job file: %w", err)
	}

	result, runErr := service.RunJob(ctx, &jobConfig)
	if result != nil {
		report, err := json.MarshalIndent(result, "", "  ")
		if err == nil {
			fmt.Println(string(report))
		}
	}
	if runErr != nil {
		return runErr
	}

	if outputPath != "" && len(result.PDFData) > 0 {
		if err := os.WriteFile(outputPath, result.PDFData, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("PDF written to %s (%d bytes)\n", outputPath, len(result.PDFData))
	}
	return nil
}

func listProducts(ctx context.Context, service *printapp.PrintJobService, code string) error {
	products, err := service.ListProducts(ctx, domainprint.ProviderCode(code))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func cleanup(ctx context.Context, fileStorage storage.PrintFileStorage, cfg *config.Config, log *zap.Logger) error {
	removed, err := fileStorage.CleanupExpired(ctx, cfg.Storage.Retention)
	if err != nil {
		return err
	}
	log.Info("cleanup finished", zap.Int("removed", removed))
	return nil
}

// buildRenderer selects the rasterization engine. The stub engine draws
// flat fills in-process and needs no browser; it exists for development and
// CI environments without Chrome.
func buildRenderer(cfg *config.Config, log *zap.Logger) (pdf.CanvasRenderer, error) {
	switch cfg.Render.Engine {
	case "stub":
		return pdf.NewStubRenderer(), nil
	case "chromedp", "":
		return pdf.NewChromedpRenderer(&pdf.ChromedpConfig{
			DefaultTimeout: cfg.Render.Timeout,
			ExecPath:       cfg.Render.ChromePath,
			Logger:         log,
		})
	default:
		return nil, fmt.Errorf("unknown render engine: %s", cfg.Render.Engine)
	}
}

func buildStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.PrintFileStorage, error) {
	switch cfg.Storage.Backend {
	case "s3":
		s3Storage, err := storage.NewS3Storage(&cfg.Storage, log)
		if err != nil {
			return nil, err
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3Storage, nil
	case "filesystem", "":
		return storage.NewFileSystemStorage(cfg.Storage.BasePath, log)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// buildRegistry wires every provider that has credentials configured.
// Running without any provider is fine; only order commands need one.
func buildRegistry(cfg *config.Config, log *zap.Logger) (*providers.Registry, error) {
	registry := providers.NewRegistry()
	limit := rate.Limit(cfg.Providers.RateLimitPerSec)
	timeout := int(cfg.Providers.Timeout.Seconds())

	if cfg.Providers.Lumaprints.APIKey != "" {
		lumaConfig := providers.NewLumaprintsConfig(cfg.Providers.Lumaprints.APIKey)
		if cfg.Providers.Lumaprints.BaseURL != "" {
			lumaConfig.BaseURL = cfg.Providers.Lumaprints.BaseURL
		}
		lumaConfig.TimeoutSeconds = timeout
		lumaConfig.MaxRetries = cfg.Providers.MaxRetries
		lumaConfig.Limiter = rate.NewLimiter(limit, cfg.Providers.RateLimitBurst)
		lumaConfig.Logger = log
		adapter, err := providers.NewLumaprintsAdapter(lumaConfig)
		if err != nil {
			return nil, err
		}
		registry.Register(adapter)
	}

	if cfg.Providers.Gelaprint.APIKey != "" {
		gelaConfig := providers.NewGelaprintConfig(cfg.Providers.Gelaprint.APIKey)
		if cfg.Providers.Gelaprint.BaseURL != "" {
			gelaConfig.BaseURL = cfg.Providers.Gelaprint.BaseURL
		}
		gelaConfig.TimeoutSeconds = timeout
		gelaConfig.MaxRetries = cfg.Providers.MaxRetries
		gelaConfig.Limiter = rate.NewLimiter(limit, cfg.Providers.RateLimitBurst)
		gelaConfig.Logger = log
		adapter, err := providers.NewGelaprintAdapter(gelaConfig)
		if err != nil {
			return nil, err
		}
		registry.Register(adapter)
	}

	log.Info("fulfillment providers registered",
		zap.Int("count", len(registry.Codes())))
	return registry, nil
}
