// Package logging configures slog output for the CLI and engine components.
//
// Two formats are supported: a console handler that renders
// "TIMESTAMP LEVEL component: message key=value" lines, and a JSON handler
// for machine consumption. Components attach themselves through the
// FieldComponent attribute so the console handler can surface them as a
// prefix rather than a trailing key.
package logging
