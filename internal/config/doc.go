// Package config provides centralized configuration management for the
// indicator conversion tools. It loads settings from multiple sources,
// validates them, and hands explicit values to each pipeline.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (highest priority, applied by the tools)
//	2. Environment variables
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern INDICATOR_* for namespacing:
//
//	INDICATOR_CONFIG=configs/config.yaml
//	INDICATOR_SERIES_INPUT=SeriesReport.xlsx
//	INDICATOR_SHIFT_MONTHS=1
//	INDICATOR_LOGGING_LEVEL=debug
//	INDICATOR_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/indicator.prom
//
// # Validation
//
// Configuration is validated at load time with go-playground/validator
// struct tags:
//
//	- Input and output paths are present
//	- The shift output differs from its input
//	- The shift offset is non-zero
//	- Logging level and output are known values
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
