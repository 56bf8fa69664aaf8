// Package sl provides small slog attribute helpers shared across the service.
package sl

import "log/slog"

// Err wraps an error as a slog attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Module tags log records with the emitting component.
func Module(name string) slog.Attr {
	return slog.String("module", name)
}

// Secret logs a sensitive value in redacted form, keeping only a short prefix.
func Secret(key, value string) slog.Attr {
	const keep = 4
	if len(value) > keep {
		value = value[:keep] + "..."
	}
	return slog.String(key, value)
}
