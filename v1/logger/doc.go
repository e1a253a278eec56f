// Package logger provides the structured zap logger used across the service.
//
// Every component depends on the Logger interface; *LoggerClient is the
// production implementation. Messages take an optional error and any number
// of field maps:
//
//	log.Error("failed to upsert item", err, map[string]interface{}{
//	    "collection": name,
//	})
//
// With Config.EnableTracing set, the *WithContext variants add the trace_id
// and span_id of the active OpenTelemetry span so log lines can be joined
// with traces.
//
// Use FXModule to provide both the concrete client and the interface:
//
//	app := fx.New(
//	    fx.Supply(logger.Config{Level: "info", ServiceName: "scholar-index"}),
//	    logger.FXModule,
//	)
package logger
