// Package logging provides structured logging helpers on top of log/slog.
//
// It keeps attribute names consistent across the stores, the remote backends
// and the MCP tools, and builds the process logger from configuration:
//
//	logger, err := logging.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
//	logger = logging.WithBackend(logger, "redis")
//	logger.Info("tasks loaded", logging.UserHash(owner), logging.Status("success"))
//
// Owner e-mail addresses are never logged directly; UserHash records a stable
// hash instead.
package logging
