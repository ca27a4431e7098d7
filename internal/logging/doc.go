// Package logging provides the slog facade used across hondana: typed
// attribute helpers, standardized field names, component loggers, and
// console/JSON handler construction from configuration.
package logging
