// Package events defines the observability events published on the eventbus
// by the HTTP endpoint and the query runner.
package events

import (
	"net/http"
	"time"
)

// HTTPStart is emitted when a request is received.
// Context carries the request context.
type HTTPStart struct {
	Request *http.Request
}

// HTTPFinish is emitted after the response has been written.
type HTTPFinish struct {
	Request  *http.Request
	Status   int
	Duration time.Duration
}
