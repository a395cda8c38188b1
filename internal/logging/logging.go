// Package logging attaches a structured-logging subscriber to the eventbus.
package logging

import (
	"context"
	"log/slog"

	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
	"github.com/gqlgate/gqlgate/internal/reqid"
)

// Setup subscribes logger to request and operation events. It returns a
// function detaching the subscriptions.
func Setup(logger *slog.Logger) (detach func()) {
	unsubFinish := eventbus.Subscribe(func(ctx context.Context, e events.HTTPFinish) {
		rid, _ := reqid.FromContext(ctx)
		logger.Info("request served",
			"request_id", rid,
			"method", e.Request.Method,
			"path", e.Request.URL.Path,
			"status", e.Status,
			"duration", e.Duration,
		)
	})
	unsubOp := eventbus.Subscribe(func(ctx context.Context, e events.OperationFinish) {
		rid, _ := reqid.FromContext(ctx)
		if len(e.Errors) > 0 {
			logger.Warn("operation finished with errors",
				"request_id", rid,
				"operation", e.OperationName,
				"type", e.OperationType,
				"errors", len(e.Errors),
				"duration", e.Duration,
			)
			return
		}
		logger.Debug("operation finished",
			"request_id", rid,
			"operation", e.OperationName,
			"type", e.OperationType,
			"duration", e.Duration,
		)
	})
	return func() {
		unsubFinish()
		unsubOp()
	}
}
