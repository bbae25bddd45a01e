// Package log provides the leveled logging interface used by lazygraph.
//
// The graph engine never writes to stdout. Structural edits (subgraph rewiring,
// pruning, muting) and run boundaries are reported at debug level through the
// package-level logger, which defaults to warnings only on stderr.
//
// # Log Levels
//
//   - LogLevelDebug: graph runs, rewiring and pruning details
//   - LogLevelInfo: general informational messages
//   - LogLevelWarn: suspicious but non-fatal situations
//   - LogLevelError: failures
//   - LogLevelNone: disables all logging output
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelDebug)
//	log.SetDefaultLogger(logger)
//
// # golog Integration
//
// For users who prefer github.com/kataras/golog:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[MyApp] ")
//
//	logger := log.NewGologLogger(glogger)
//	logger.SetLevel(log.LogLevelDebug)
//	log.SetDefaultLogger(logger)
//
// The config package builds a GologLogger from LAZYGRAPH_LOG_LEVEL.
//
// # Thread Safety
//
// DefaultLogger and GologLogger are safe for concurrent use. SetDefaultLogger
// is not synchronized and should be called during program initialization.
package log
