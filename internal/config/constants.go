package config

// Application constants
const (
	AppName    = "indicatorcli"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. INDICATOR_SHIFT_MONTHS.
	EnvPrefix = "INDICATOR"

	// Converter defaults
	DefaultSeriesInput  = "SeriesReport-20250513091745_6c2722.xlsx"
	DefaultSeriesOutput = "cpi_local_data.json"

	// Transformer defaults
	DefaultShiftInput  = "egg-prices-data (2).csv"
	DefaultShiftOutput = "egg-prices-data-shifted.csv"
	DefaultShiftMonths = 1

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "stderr"
	DefaultLogFile   = "logs/indicatorcli.log"

	// Upload payload file naming
	UploadedKeyPrefix = "economic_indicator_v3_uploaded_"
	PreferencesKey    = "economic_indicator_v3_data_source_preferences"
)
