// Package logger builds *slog.Logger values with functional options and
// offers attribute helpers so feature names, phases and fault IDs use the
// same keys everywhere.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "featured"),
//	    logger.WithOutput(os.Stderr),
//	)
//	ctx = logger.ContextWithAttrs(ctx, logger.Feature("Flight"))
//	log.ErrorContext(ctx, "hook failed", logger.Phase("enable"), logger.Error(err))
//
// Attributes stored with ContextWithAttrs are appended when the record is
// handled, not when the logger is built.
package logger
