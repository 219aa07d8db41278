package app

import (
	"github.com/spf13/cobra"

	"indicatorcli/internal/config"
)

// CommonFlags are the flags both tools accept. Only flags set on the
// command line override the loaded configuration.
type CommonFlags struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	TraceFile   string
	MetricsFile string

	cmd *cobra.Command
}

// BindCommonFlags registers the shared flags on cmd.
func BindCommonFlags(cmd *cobra.Command) *CommonFlags {
	f := &CommonFlags{cmd: cmd}
	flags := cmd.Flags()
	flags.StringVar(&f.ConfigPath, "config", "", "config file (default: ./config.yaml or $INDICATOR_CONFIG)")
	flags.StringVar(&f.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringVar(&f.LogFormat, "log-format", "", "log format (json|text)")
	flags.StringVar(&f.TraceFile, "trace-file", "", "write OpenTelemetry spans to this file")
	flags.StringVar(&f.MetricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")

	_ = cmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text"}, cobra.ShellCompDirectiveNoFileComp
	})
	return f
}

// Changed reports whether the named flag was set on the command line.
func (f *CommonFlags) Changed(name string) bool {
	return f.cmd.Flags().Changed(name)
}

// Apply copies the set flags onto cfg.
func (f *CommonFlags) Apply(cfg *config.Config) {
	if f.Changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Changed("log-format") {
		cfg.Logging.Format = f.LogFormat
	}
	if f.Changed("trace-file") {
		cfg.Telemetry.TraceFile = f.TraceFile
	}
	if f.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = f.MetricsFile
	}
}

// Options returns app options for a run of tool from cmd, applying the
// shared flags followed by override.
func (f *CommonFlags) Options(tool string, override func(cfg *config.Config)) Options {
	return Options{
		ConfigPath: f.ConfigPath,
		Tool:       tool,
		Override: func(cfg *config.Config) {
			f.Apply(cfg)
			if override != nil {
				override(cfg)
			}
		},
		Stdout: f.cmd.OutOrStdout(),
		Stderr: f.cmd.ErrOrStderr(),
	}
}
