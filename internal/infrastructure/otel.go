package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"indicatorcli/internal/config"
)

const MeterName = "indicatorcli"

// Telemetry owns the trace and metric providers of a single tool run.
// Spans go to TraceFile as pretty-printed JSON; counters are written to
// MetricsFile in Prometheus text format when the run shuts down.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *RunMetrics
	Process *ProcessMetrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	traceFile      *os.File
	metricsFile    string
	started        time.Time
	logger         *slog.Logger
}

// RunMetrics holds the counters shared by both pipelines.
type RunMetrics struct {
	RowsScanned       metric.Int64Counter
	RowsSkipped       metric.Int64Counter
	RecordsEmitted    metric.Int64Counter
	RowsShifted       metric.Int64Counter
	RowsPassedThrough metric.Int64Counter
	RunErrors         metric.Int64Counter
	RunDuration       metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics for the named tool and
// installs the providers globally so pipeline packages can start spans.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, tool string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(tool),
		semconv.ServiceVersion(config.AppVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		started:     time.Now(),
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := t.initializeMetrics(res); err != nil {
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("tool", tool),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing exports spans to the trace file, or uses a no-op
// tracer when no file is configured.
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if cfg.TraceFile == "" {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		t.Tracer = tp.Tracer(MeterName)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
		return fmt.Errorf("failed to create trace directory: %w", err)
	}
	file, err := os.Create(cfg.TraceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// Spans are exported as they end.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)

	t.traceFile = file
	t.tracerProvider = tp
	t.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	otel.SetTracerProvider(tp)
	return nil
}

// initializeMetrics registers the Prometheus exporter on a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
		otelprom.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	t.registry = registry
	t.meterProvider = mp
	t.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	metrics, err := CreateRunMetrics(t.Meter)
	if err != nil {
		return err
	}
	t.Metrics = metrics

	process, err := NewProcessMetrics(t.Meter)
	if err != nil {
		return err
	}
	t.Process = process
	return nil
}

// CreateRunMetrics creates the run counters on meter.
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	rowsScanned, err := meter.Int64Counter(
		"indicator_rows_scanned",
		metric.WithDescription("Rows read from the input artifact"),
	)
	if err != nil {
		return nil, err
	}

	rowsSkipped, err := meter.Int64Counter(
		"indicator_rows_skipped",
		metric.WithDescription("Spreadsheet rows that are not year rows"),
	)
	if err != nil {
		return nil, err
	}

	recordsEmitted, err := meter.Int64Counter(
		"indicator_records_emitted",
		metric.WithDescription("Date/value records produced by the converter"),
	)
	if err != nil {
		return nil, err
	}

	rowsShifted, err := meter.Int64Counter(
		"indicator_rows_shifted",
		metric.WithDescription("Data rows whose date was shifted"),
	)
	if err != nil {
		return nil, err
	}

	rowsPassedThrough, err := meter.Int64Counter(
		"indicator_rows_passed_through",
		metric.WithDescription("Data rows copied without a date shift"),
	)
	if err != nil {
		return nil, err
	}

	runErrors, err := meter.Int64Counter(
		"indicator_run_errors",
		metric.WithDescription("Runs aborted by an error"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"indicator_run_duration_seconds",
		metric.WithDescription("Wall time of a conversion pass"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RowsScanned:       rowsScanned,
		RowsSkipped:       rowsSkipped,
		RecordsEmitted:    recordsEmitted,
		RowsShifted:       rowsShifted,
		RowsPassedThrough: rowsPassedThrough,
		RunErrors:         runErrors,
		RunDuration:       runDuration,
	}, nil
}

// RecordRun adds the outcome of one pass to the run metrics.
func (t *Telemetry) RecordRun(ctx context.Context, pipeline string, started time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("pipeline", pipeline))
	t.Metrics.RunDuration.Record(ctx, time.Since(started).Seconds(), attrs)
	if err != nil {
		t.Metrics.RunErrors.Add(ctx, 1, attrs)
	}
}

// Shutdown flushes spans, writes the metrics textfile and releases files.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if err := t.closeTraceFile(); err != nil {
		errs = append(errs, fmt.Errorf("trace file close: %w", err))
	}

	if t.metricsFile != "" {
		t.Process.Collect(ctx, t.started)
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		} else {
			t.logger.DebugContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (t *Telemetry) closeTraceFile() error {
	if t.traceFile == nil {
		return nil
	}
	err := t.traceFile.Close()
	t.traceFile = nil
	return err
}
