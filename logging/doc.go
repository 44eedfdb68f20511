// Package logging is the small logging layer shared by every package.
//
// Components accept the Logger interface and default to NoOpLogger.
// StrategyLogger is the slog backed implementation wired by the CLI; it
// carries a component name and fixed attributes, and adds LogGeneration for
// per-tier generation timing.
//
//	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "json"})
//	registry := session.NewInMemoryRegistry(func(o *session.Options) { o.Logger = logger.WithComponent("session") })
package logging
