package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"indicatorcli/internal/config"
	apperrors "indicatorcli/internal/errors"
	"indicatorcli/internal/infrastructure"
	"indicatorcli/internal/validation"
)

// ShutdownTimeout bounds telemetry flushing at exit.
const ShutdownTimeout = 5 * time.Second

// Options controls how an Application is built.
type Options struct {
	// ConfigPath is an explicit YAML file; empty searches the default
	// locations.
	ConfigPath string
	// Tool names the executable in logs and telemetry.
	Tool string
	// Override is applied to the loaded configuration before validation.
	Override func(cfg *config.Config)

	Stdout io.Writer
	Stderr io.Writer
}

// Application holds everything a tool run needs.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Validator *validation.FileValidator

	tool string
}

// New loads configuration and initializes logging and telemetry.
func New(ctx context.Context, opts Options) (*Application, error) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Tool == "" {
		opts.Tool = config.AppName
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	if opts.Override != nil {
		opts.Override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, apperrors.NewConfigError("invalid configuration", err)
		}
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, opts.Stderr, opts.Stdout)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize logger", err)
	}
	logger = infrastructure.WithComponent(logger, opts.Tool)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, opts.Tool, logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, apperrors.NewConfigError("failed to initialize telemetry", err)
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Validator: validation.NewFileValidator(logger),
		tool:      opts.Tool,
	}, nil
}

// Shutdown flushes telemetry and closes the log file.
func (a *Application) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	err := a.Telemetry.Shutdown(ctx)
	if err != nil {
		a.Logger.ErrorContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
	}
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// run executes fn as one traced and metered pipeline run.
func (a *Application) run(ctx context.Context, pipeline string, fn func(ctx context.Context) error) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	started := time.Now()

	ctx, span := a.Telemetry.Tracer.Start(ctx, pipeline+".run")
	defer span.End()
	span.SetAttributes(
		attribute.String("tool", a.tool),
		attribute.String("trace_id", infrastructure.GetTraceID(ctx)))

	a.Logger.InfoContext(ctx, "Starting run", slog.String("pipeline", pipeline))

	err := fn(ctx)

	a.Telemetry.RecordRun(ctx, pipeline, started, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(a.Logger, err).ErrorContext(ctx, "Run failed",
			slog.String("pipeline", pipeline),
			slog.String("error_type", string(apperrors.TypeOf(err))),
			slog.Duration("elapsed", time.Since(started)))
		return err
	}

	a.Logger.InfoContext(ctx, "Run completed",
		slog.String("pipeline", pipeline),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

func pipelineAttr(pipeline string) metric.AddOption {
	return metric.WithAttributes(attribute.String("pipeline", pipeline))
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func closeQuietly(logger *slog.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("Failed to close file", slog.String("file", name), slog.String("error", err.Error()))
	}
}
