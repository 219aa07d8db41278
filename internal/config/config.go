package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Series    SeriesConfig    `yaml:"series" envconfig:"SERIES"`
	Shift     ShiftConfig     `yaml:"shift" envconfig:"SHIFT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stderr stdout console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_if=Output file,required_if=Output both"`
}

// SeriesConfig configures the spreadsheet to records converter.
type SeriesConfig struct {
	Input  string `yaml:"input" envconfig:"INPUT" validate:"required"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"required"`
	// Sheet overrides the workbook's active sheet when set.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
	// PayloadDir enables the upload payload and preferences files.
	PayloadDir string          `yaml:"payload_dir" envconfig:"PAYLOAD_DIR"`
	Indicator  IndicatorConfig `yaml:"indicator" envconfig:"INDICATOR"`
}

// IndicatorConfig describes the indicator embedded in the upload payload.
type IndicatorConfig struct {
	ID             string `yaml:"id" envconfig:"ID" validate:"required"`
	Name           string `yaml:"name" envconfig:"NAME"`
	Description    string `yaml:"description" envconfig:"DESCRIPTION"`
	Unit           string `yaml:"unit" envconfig:"UNIT"`
	Source         string `yaml:"source" envconfig:"SOURCE"`
	SourceURL      string `yaml:"source_url" envconfig:"SOURCE_URL"`
	Frequency      string `yaml:"frequency" envconfig:"FREQUENCY"`
	HigherIsBetter bool   `yaml:"higher_is_better" envconfig:"HIGHER_IS_BETTER"`
	SeriesID       string `yaml:"series_id" envconfig:"SERIES_ID"`
	Transform      string `yaml:"transform" envconfig:"TRANSFORM"`
}

// ShiftConfig configures the date-shift transformer.
type ShiftConfig struct {
	Input  string `yaml:"input" envconfig:"INPUT" validate:"required"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"required,nefield=Input"`
	Months int    `yaml:"months" envconfig:"MONTHS" validate:"required"`
}

// TelemetryConfig controls the optional trace and metrics files.
type TelemetryConfig struct {
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// INDICATOR_* environment variables, in increasing order of precedence.
// An empty filePath searches the usual locations.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		filePath = getConfigFilePath()
	}
	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields carry no default tags, so unset variables leave values alone.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging settings.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Series: SeriesConfig{
			Input:     DefaultSeriesInput,
			Output:    DefaultSeriesOutput,
			Indicator: DefaultIndicator(),
		},
		Shift: ShiftConfig{
			Input:  DefaultShiftInput,
			Output: DefaultShiftOutput,
			Months: DefaultShiftMonths,
		},
	}
}

// DefaultIndicator is the consumer price index definition used by the
// upload payload.
func DefaultIndicator() IndicatorConfig {
	return IndicatorConfig{
		ID:             "cpi",
		Name:           "Consumer Price Index",
		Description:    "Consumer Price Index for All Urban Consumers: All Items (Base: 1982-84=100)",
		Unit:           "index",
		Source:         "BLS",
		SourceURL:      "https://data.bls.gov/timeseries/CUUR0000SA0&output_view=pct_12mths",
		Frequency:      "monthly",
		HigherIsBetter: false,
		SeriesID:       "CUUR0000SA0",
		Transform:      "none",
	}
}
