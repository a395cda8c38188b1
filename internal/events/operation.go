package events

import "time"

// OperationStart is emitted before one GraphQL operation executes.
// BatchIndex/BatchSize locate the operation within its request; a single
// request reports index 0 of size 1.
type OperationStart struct {
	Query         string
	OperationName string
	OperationType string
	BatchIndex    int
	BatchSize     int
}

// OperationFinish is emitted after one GraphQL operation executed.
type OperationFinish struct {
	Query         string
	OperationName string
	OperationType string
	Errors        []error
	Duration      time.Duration
}
