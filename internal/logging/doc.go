// Package logging provides structured logging for setup-vulkan-sdk using slog.
//
// Three handlers are available: a TTY-friendly text [Handler], the standard
// library JSON handler, and an [ActionsHandler] that renders records as
// GitHub Actions workflow commands (::warning::, ::error::, ::debug::) so
// that warnings raised by the pipeline show up as annotations on the run.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("downloading", "version", "1.3.250.1")
//
// Loggers travel through the pipeline inside the context:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Warn("cache save failed", "err", err)
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework.
package logging
