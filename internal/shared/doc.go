// Package shared groups helpers used across packages that belong to no
// single pipeline.
//
// # Structure
//
// - testutil: capturing slog handler, log assertions and file fixtures
//
// Only test support lives here; production code must not import testutil.
package shared
