package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// ProcessMetrics records Go runtime figures for a tool run. They are
// sampled once, just before the metrics textfile is written.
type ProcessMetrics struct {
	goRoutines metric.Int64Gauge
	heapAlloc  metric.Int64Gauge
	totalAlloc metric.Int64Gauge
	memorySys  metric.Int64Gauge
	gcCount    metric.Int64Gauge
	runUptime  metric.Float64Gauge
}

// ProcessStats is one sample of runtime figures.
type ProcessStats struct {
	GoRoutines int64
	HeapAlloc  int64
	TotalAlloc int64
	MemorySys  int64
	GCCount    uint32
	Uptime     time.Duration
}

// NewProcessMetrics creates the runtime gauges on meter.
func NewProcessMetrics(meter metric.Meter) (*ProcessMetrics, error) {
	goRoutines, err := meter.Int64Gauge(
		"process_goroutines",
		metric.WithDescription("Number of goroutines at the end of the run"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"process_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"process_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated during the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySys, err := meter.Int64Gauge(
		"process_memory_sys_bytes",
		metric.WithDescription("Memory obtained from the OS by the Go runtime"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"process_gc_cycles",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	runUptime, err := meter.Float64Gauge(
		"process_uptime_seconds",
		metric.WithDescription("Seconds since telemetry was initialized"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &ProcessMetrics{
		goRoutines: goRoutines,
		heapAlloc:  heapAlloc,
		totalAlloc: totalAlloc,
		memorySys:  memorySys,
		gcCount:    gcCount,
		runUptime:  runUptime,
	}, nil
}

// Collect samples the runtime and records the gauges.
func (pm *ProcessMetrics) Collect(ctx context.Context, startTime time.Time) ProcessStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := ProcessStats{
		GoRoutines: int64(runtime.NumGoroutine()),
		HeapAlloc:  int64(memStats.HeapAlloc),
		TotalAlloc: int64(memStats.TotalAlloc),
		MemorySys:  int64(memStats.Sys),
		GCCount:    memStats.NumGC,
		Uptime:     time.Since(startTime),
	}

	pm.goRoutines.Record(ctx, stats.GoRoutines)
	pm.heapAlloc.Record(ctx, stats.HeapAlloc)
	pm.totalAlloc.Record(ctx, stats.TotalAlloc)
	pm.memorySys.Record(ctx, stats.MemorySys)
	pm.gcCount.Record(ctx, int64(stats.GCCount))
	pm.runUptime.Record(ctx, stats.Uptime.Seconds())

	return stats
}
