// Package app wires configuration, logging, telemetry and file validation
// around the two pipelines and runs them on behalf of the command-line
// tools.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, environment)
//	2. Apply command-line overrides and validate
//	3. Initialize the logger and OpenTelemetry providers
//	4. Run a pipeline inside a traced, metered run
//	5. Shut down telemetry, writing the metrics textfile
//
// # Usage
//
//	application, err := app.New(ctx, app.Options{Tool: "cpiextract"})
//	if err != nil {
//		return err
//	}
//	defer application.Shutdown(context.Background())
//
//	result, err := application.ConvertSeries(ctx)
package app
